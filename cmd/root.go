package cmd

import (
	"log"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talentmarket/talent-match/internal/scoring"
)

const (
	app = "talent-match"
)

type Config struct {
	Database  *DatabaseConfig  `mapstructure:"database"`
	Scoring   *ScoringConfig   `mapstructure:"scoring"`
	Recommend *RecommendConfig `mapstructure:"recommend"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect-timeout"`
}

type ScoringConfig struct {
	Threshold float64        `mapstructure:"threshold"`
	Weights   *WeightsConfig `mapstructure:"weights"`
}

type WeightsConfig struct {
	Name         float64 `mapstructure:"name"`
	Headline     float64 `mapstructure:"headline"`
	Skills       float64 `mapstructure:"skills"`
	Experience   float64 `mapstructure:"experience"`
	Rate         float64 `mapstructure:"rate"`
	Portfolio    float64 `mapstructure:"portfolio"`
	Availability float64 `mapstructure:"availability"`
}

type RecommendConfig struct {
	Limit int `mapstructure:"limit"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talent-match computes profile readiness and ranks open job postings for a talent",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("database.url", "TALENT_MATCH_DATABASE_URL"); err != nil {
		log.Fatalf("binding TALENT_MATCH_DATABASE_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talent-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the commands that talk to the store.
	if checkCmd.CalledAs() == "" && recommendCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return config, err
	}

	return config, nil
}

// scoringWeights maps the config onto scorer weights, keeping the defaults
// for anything not overridden.
func scoringWeights(config *Config) scoring.Weights {
	weights := scoring.DefaultWeights()
	if config == nil || config.Scoring == nil || config.Scoring.Weights == nil {
		return weights
	}

	overrides := config.Scoring.Weights
	if overrides.Name > 0 {
		weights.Name = overrides.Name
	}
	if overrides.Headline > 0 {
		weights.Headline = overrides.Headline
	}
	if overrides.Skills > 0 {
		weights.Skills = overrides.Skills
	}
	if overrides.Experience > 0 {
		weights.Experience = overrides.Experience
	}
	if overrides.Rate > 0 {
		weights.Rate = overrides.Rate
	}
	if overrides.Portfolio > 0 {
		weights.Portfolio = overrides.Portfolio
	}
	if overrides.Availability > 0 {
		weights.Availability = overrides.Availability
	}
	return weights
}

func readinessThreshold(config *Config) float64 {
	if config == nil || config.Scoring == nil {
		return scoring.DefaultThreshold
	}
	return config.Scoring.Threshold
}
