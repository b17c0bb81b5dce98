package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "ai-job-hunter"

	defaultScoreThreshold = 75
	defaultModel          = "gemini-2.5-flash"
	defaultSeenFile       = "scanned_urls.json"
	defaultSummaryFile    = "matched_jobs.json"
	defaultMatchesFile    = "job_matches.html"
	defaultLetterDir      = "cover_letters"
	defaultSnapshotDir    = "debug_pages"
)

type Config struct {
	CSV            string  `mapstructure:"csv"`
	Resume         string  `mapstructure:"resume"`
	ScoreThreshold float64 `mapstructure:"score-threshold"`
	MaxJobs        int     `mapstructure:"max-jobs"`
	SeenFile       string  `mapstructure:"seen-file"`
	SummaryFile    string  `mapstructure:"summary-file"`
	MatchesFile    string  `mapstructure:"matches-file"`
	SaveHTML       bool    `mapstructure:"save-html"`
	CoverLetters   bool    `mapstructure:"cover-letters"`
	CoverLetterDir string  `mapstructure:"cover-letter-dir"`
	RescanAll      bool    `mapstructure:"rescan-all"`
	TargetLocation string  `mapstructure:"target-location"`
	MaxDistanceKm  float64 `mapstructure:"max-distance-km"`
	SavePages      bool    `mapstructure:"save-pages"`
	SnapshotDir    string  `mapstructure:"snapshot-dir"`
	LogFile        string  `mapstructure:"log-file"`

	ScoringGuide     string `mapstructure:"scoring-guide"`
	ScoringGuideFile string `mapstructure:"scoring-guide-file"`

	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

func (c *Config) Validate() error {
	if c.CSV == "" {
		return errors.New("csv feed url is required (set the 'csv' key)")
	}
	if c.Resume == "" {
		return errors.New("resume path is required (set the 'resume' key)")
	}
	if _, err := os.Stat(c.Resume); err != nil {
		return fmt.Errorf("resume file %s is not readable: %w", c.Resume, err)
	}
	if c.ScoreThreshold <= 0 {
		return errors.New("score-threshold must be positive")
	}
	if c.MaxJobs <= 0 {
		return errors.New("max-jobs must be positive")
	}
	if c.MaxDistanceKm < 0 {
		return errors.New("max-distance-km can't be negative")
	}
	return nil
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ai-job-hunter scores job postings against your resume and drafts cover letters for the good ones",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A local .env is optional.
	_ = godotenv.Load()

	if err := viper.BindEnv("gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ai-job-hunter.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	viper.SetDefault("score-threshold", defaultScoreThreshold)
	viper.SetDefault("seen-file", defaultSeenFile)
	viper.SetDefault("summary-file", defaultSummaryFile)
	viper.SetDefault("matches-file", defaultMatchesFile)
	viper.SetDefault("cover-letter-dir", defaultLetterDir)
	viper.SetDefault("snapshot-dir", defaultSnapshotDir)
	viper.SetDefault("save-html", true)
	viper.SetDefault("cover-letters", true)
	viper.SetDefault("gemini.model", defaultModel)

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
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
