package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tzemach-hadar/ai-job-hunter/internal/ai"
	"github.com/tzemach-hadar/ai-job-hunter/internal/ai/gemini"
	"github.com/tzemach-hadar/ai-job-hunter/internal/feed"
	"github.com/tzemach-hadar/ai-job-hunter/internal/geo"
	"github.com/tzemach-hadar/ai-job-hunter/internal/letter"
	"github.com/tzemach-hadar/ai-job-hunter/internal/logger"
	"github.com/tzemach-hadar/ai-job-hunter/internal/matcher"
	"github.com/tzemach-hadar/ai-job-hunter/internal/report"
	"github.com/tzemach-hadar/ai-job-hunter/internal/resume"
	"github.com/tzemach-hadar/ai-job-hunter/internal/scraper"
	"github.com/tzemach-hadar/ai-job-hunter/internal/secrets"
	"github.com/tzemach-hadar/ai-job-hunter/internal/seenstore"
)

const (
	PromptExit            = "Exit"
	PromptReportByCompany = "Report by company"
	PromptResultsToFile   = "Dump results to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByCompany, PromptResultsToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full matching pass over the job feed",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("interactive", "i", false, "inspect the results in an interactive menu after the run")
	runCmd.Flags().Bool("rescan-all", false, "rescan postings handled in previous runs")
	runCmd.Flags().IntP("max-jobs", "m", 0, "how many postings are taken from the feed, must be positive")

	viper.BindPFlag("rescan-all", runCmd.Flags().Lookup("rescan-all"))
	viper.BindPFlag("max-jobs", runCmd.Flags().Lookup("max-jobs"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), viper.GetString("log-file"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the ai-job-hunter", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if err := config.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	profile, err := resume.Load(config.Resume)
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err))
	}

	evaluator, err := newEvaluator(ctx, config, logger)
	if err != nil {
		logger.Fatal(
			"building the evaluator",
			zap.Error(err),
			zap.String("hint", "set gemini.api-key-file in the configuration file or the GEMINI_API_KEY environment variable"),
		)
	}

	m := matcher.New(
		&matcher.Config{
			ScoreThreshold: config.ScoreThreshold,
			MaxJobs:        config.MaxJobs,
			TargetLocation: config.TargetLocation,
			MaxDistanceKm:  config.MaxDistanceKm,
			CoverLetters:   config.CoverLetters,
			RescanAll:      config.RescanAll,
		},
		&matcher.Deps{
			Source:    feed.NewClient(config.CSV, logger),
			Fetcher:   scraper.NewClient(config.SavePages, config.SnapshotDir, logger),
			Geocoder:  geo.NewClient(logger),
			Evaluator: evaluator,
			Letters:   letter.NewWriter(config.CoverLetterDir, profile.Name, profile.Contact),
			Seen:      seenstore.New(config.SeenFile, logger),
			Profile:   profile,
			Logger:    logger,
		},
	)

	results, err := m.Run(ctx)
	if err != nil {
		logger.Fatal("matching run failed", zap.Error(err))
	}

	matched := results.AboveThreshold(config.ScoreThreshold)
	logger.Info("run totals",
		zap.Int("scored", results.Len()),
		zap.Int("matched", matched.Len()),
	)

	// Exports are refreshed on every run, including runs where everything
	// was skipped, so stale artifacts from a previous run never survive.
	writeReports(config, logger, results, matched)

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings were scored"))
		return
	}

	if cmd.Flag("interactive").Value.String() != "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func writeReports(config *Config, logger *zap.Logger, results, matched *matcher.Evaluations) {
	if err := report.WriteJSON(config.SummaryFile, matched); err != nil {
		logger.Error("writing summary file", zap.Error(err))
	} else {
		logger.Info("summary saved", zap.String("path", config.SummaryFile))
	}

	if !config.SaveHTML {
		return
	}

	if err := report.WriteHTML(config.MatchesFile, results, config.ScoreThreshold); err != nil {
		logger.Error("writing matches dashboard", zap.Error(err))
	} else {
		logger.Info("matches dashboard saved", zap.String("path", config.MatchesFile))
	}
}

func handleAction(action string, logger *zap.Logger, results *matcher.Evaluations) error {
	switch action {
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(results.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("postings count", results.Len()))
		return nil
	case PromptResultsToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func newEvaluator(ctx context.Context, config *Config, logger *zap.Logger) (ai.Evaluator, error) {
	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{Model: defaultModel}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  config.Gemini.APIKeyFile,
		Value: config.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	guide, err := resolveScoringGuide(config)
	if err != nil {
		return nil, err
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewEvaluator(generator, guide, genLogger), nil
}

func resolveScoringGuide(config *Config) (string, error) {
	if config.ScoringGuideFile != "" {
		data, err := os.ReadFile(config.ScoringGuideFile)
		if err != nil {
			return "", fmt.Errorf("reading scoring guide file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return strings.TrimSpace(config.ScoringGuide), nil
}
