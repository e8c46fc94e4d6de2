package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentmarket/talent-match/internal/logger"
	"github.com/talentmarket/talent-match/internal/scoring"
	"github.com/talentmarket/talent-match/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compute a profile's completeness breakdown and readiness",
	Run: func(cmd *cobra.Command, _ []string) {
		check(cmd)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("user", "u", "", "user id of the profile to check")
	checkCmd.MarkFlagRequired("user")
}

func check(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
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

	scorer := scoring.NewScorer(scoringWeights(config))
	gate := scoring.NewGate(readinessThreshold(config))

	breakdown, err := scorer.Score(profile)
	if err != nil {
		logger.Fatal("scoring the profile", zap.String("user_id", userID), zap.Error(err))
	}

	ready := gate.IsReady(breakdown.Completion)

	// The cache is a derived projection; losing this write is harmless
	// because every reader can recompute from the raw profile.
	if err := db.SaveReadinessCache(ctx, userID, breakdown.Completion, ready, time.Now().UTC()); err != nil {
		logger.Warn("saving readiness cache failed", zap.String("user_id", userID), zap.Error(err))
	}

	logger.Info("profile readiness",
		zap.String("user_id", userID),
		zap.Float64("completion", breakdown.Completion),
		zap.Float64("threshold", gate.Threshold),
		zap.Bool("ready", ready),
		zap.Strings("missing_fields", breakdown.MissingFields),
	)

	logger.Debug("completeness breakdown",
		zap.Float64("name", breakdown.Name),
		zap.Float64("headline", breakdown.Headline),
		zap.Float64("skills", breakdown.Skills),
		zap.Float64("experience", breakdown.Experience),
		zap.Float64("rate", breakdown.Rate),
		zap.Float64("portfolio", breakdown.Portfolio),
		zap.Float64("availability", breakdown.Availability),
	)
}
