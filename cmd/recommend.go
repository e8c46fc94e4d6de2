package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentmarket/talent-match/internal/logger"
	"github.com/talentmarket/talent-match/internal/matching"
	"github.com/talentmarket/talent-match/internal/ranking"
	"github.com/talentmarket/talent-match/internal/scoring"
	"github.com/talentmarket/talent-match/internal/store"
)

const (
	PromptReport     = "Show report"
	PromptDumpToFile = "Dump recommendations to file"
	PromptExit       = "Exit"

	defaultLimit = 10
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReport, PromptDumpToFile, PromptExit},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank open job postings for a talent profile",
	Run: func(cmd *cobra.Command, _ []string) {
		recommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("user", "u", "", "user id of the profile to recommend for")
	recommendCmd.Flags().IntP("limit", "l", 0, "maximum number of recommendations (default from config or 10)")
	recommendCmd.Flags().BoolP("include-applied", "f", false, "do not exclude postings already applied to")
	recommendCmd.Flags().BoolP("auto-approve", "y", false, "print the ranked list without the interactive prompt")
	recommendCmd.MarkFlagRequired("user")
}

// recommend is the main command of the cli.
func recommend(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting talent-match", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Database == nil || config.Database.URL == "" {
		logger.Fatal("database url is required",
			zap.String("hint", "set TALENT_MATCH_DATABASE_URL or the 'database.url' key in the configuration file"),
		)
	}

	db, err := store.Open(ctx, config.Database.URL, config.Database.ConnectTimeout, logger)
	if err != nil {
		logger.Fatal("connecting to the store", zap.Error(err))
	}
	defer db.Close()

	userID := cmd.Flag("user").Value.String()

	profile, err := db.GetProfile(ctx, userID)
	if err != nil {
		logger.Fatal("getting the profile", zap.String("user_id", userID), zap.Error(err))
	}

	appliedIDs, err := db.GetAppliedJobIDs(ctx, userID)
	if err != nil {
		logger.Fatal("getting application history", zap.String("user_id", userID), zap.Error(err))
	}

	postings, err := db.GetOpenPostings(ctx)
	if err != nil {
		logger.Fatal("getting open postings", zap.Error(err))
	}

	logger.Info("fetched store snapshot",
		zap.Int("open_postings", postings.Len()),
		zap.Int("applications", len(appliedIDs)),
	)

	scorer := scoring.NewScorer(scoringWeights(config))
	gate := scoring.NewGate(readinessThreshold(config))

	// Refresh the readiness cache before matching so the completion bonus
	// works from a just-computed value. The write itself is best-effort.
	breakdown, err := scorer.Score(profile)
	if err != nil {
		logger.Fatal("scoring the profile", zap.String("user_id", userID), zap.Error(err))
	}
	profile.Completion = breakdown.Completion
	profile.Ready = gate.IsReady(breakdown.Completion)
	if err := db.SaveReadinessCache(ctx, userID, profile.Completion, profile.Ready, time.Now().UTC()); err != nil {
		logger.Warn("saving readiness cache failed", zap.String("user_id", userID), zap.Error(err))
	}

	includeApplied := strings.EqualFold(cmd.Flag("include-applied").Value.String(), "true")

	appliedSet := make(map[string]struct{}, len(appliedIDs))
	for _, id := range appliedIDs {
		appliedSet[id] = struct{}{}
	}
	matcher := matching.NewScorer(func(jobID string) bool {
		_, ok := appliedSet[jobID]
		return ok
	})

	ranker := ranking.New(scorer, gate, matcher, logger,
		ranking.NewPublishedOnly(),
		ranking.NewAppliedHistory(appliedIDs, includeApplied),
	)
	ranker.IncludeApplied = includeApplied

	outcome, err := ranker.Rank(ctx, profile, postings, resolveLimit(cmd, config))
	if err != nil {
		logger.Fatal("ranking postings", zap.Error(err))
	}

	if outcome.NotReady {
		logger.Info("exiting",
			zap.String("reason", "profile is not ready for recommendations, complete it first"),
			zap.Float64("completion", outcome.Completion),
			zap.Strings("missing_fields", breakdown.MissingFields),
		)
		return
	}

	if len(outcome.Items) == 0 {
		logger.Info("exiting", zap.String("reason", "no matching postings found"))
		return
	}

	for idx, item := range outcome.Items {
		logger.Info("recommendation",
			zap.Int("rank", idx+1),
			zap.String("job_id", item.Posting.ID),
			zap.String("title", item.Posting.Title),
			zap.Float64("match_score", item.Match.Score),
			zap.Float64("skill_score", item.Match.SkillScore),
			zap.Float64("rate_score", item.Match.RateScore),
		)
	}

	if strings.EqualFold(cmd.Flag("auto-approve").Value.String(), "true") {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, outcome); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, outcome *ranking.Outcome) error {
	switch action {
	case PromptReport:
		pretty, _ := json.MarshalIndent(outcome.Report(), "", "  ")
		logger.Info(string(pretty), zap.Int("recommendations", len(outcome.Items)))
		return nil
	case PromptDumpToFile:
		filename, err := outcome.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump recommendations to file: %w", err)
		}
		logger.Info("dumping recommendations to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func resolveLimit(cmd *cobra.Command, config *Config) int {
	if flag := cmd.Flag("limit"); flag != nil && flag.Changed {
		limit, err := cmd.Flags().GetInt("limit")
		if err == nil {
			return limit
		}
	}
	if config != nil && config.Recommend != nil && config.Recommend.Limit > 0 {
		return config.Recommend.Limit
	}
	return defaultLimit
}
