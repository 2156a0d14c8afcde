package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/themobileprof/buildok/internal/actions"
	"github.com/themobileprof/buildok/internal/config"
	"github.com/themobileprof/buildok/internal/db"
	"github.com/themobileprof/buildok/internal/engine"
	"github.com/themobileprof/buildok/internal/intent"
	"github.com/themobileprof/buildok/internal/interfaces"
	"github.com/themobileprof/buildok/internal/journal"
	"github.com/themobileprof/buildok/internal/logging"
	"github.com/themobileprof/buildok/internal/matcher"
	"github.com/themobileprof/buildok/internal/modules"
	"github.com/themobileprof/buildok/internal/reader"
	"github.com/themobileprof/buildok/internal/selfcheck"
	"github.com/themobileprof/buildok/internal/ui"
	"github.com/themobileprof/buildok/pkg/models"
)

var (
	version      = "1.0.0"
	configPath   string
	dbPath       string
	guidePath    string
	topic        string
	topicPattern string
	preview      bool
	analyze      bool
	convertTo    string
	outputPath   string
	dryRun       bool
	actionsDir   string
	history      int
	showRun      string
	logLevel     string
	logFormat    string
	showVersion  bool
)

func init() {
	flag.StringVar(&configPath, "config", config.GetConfigPath(), "Path to configuration file")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite run history (default from config)")
	flag.StringVar(&guidePath, "guide", "", "Guide file or directory holding a README (default from config)")
	flag.StringVar(&guidePath, "g", "", "Shorthand for -guide")
	flag.StringVar(&topic, "topic", "", "Run the topic with this exact title")
	flag.StringVar(&topic, "t", "", "Shorthand for -topic")
	flag.StringVar(&topicPattern, "topic-pattern", "", "Run the first topic whose title matches this regexp")
	flag.BoolVar(&preview, "preview", false, "Print the annotated guide before running")
	flag.BoolVar(&preview, "p", false, "Shorthand for -preview")
	flag.BoolVar(&analyze, "analyze", false, "Print the accepted statements table and exit")
	flag.BoolVar(&analyze, "a", false, "Shorthand for -analyze")
	flag.StringVar(&convertTo, "convert", "", "Convert the topic to a script instead of running it (bash)")
	flag.StringVar(&convertTo, "c", "", "Shorthand for -convert")
	flag.StringVar(&outputPath, "output", "", "Script output file for -convert (default stdout)")
	flag.StringVar(&outputPath, "o", "", "Shorthand for -output")
	flag.BoolVar(&dryRun, "dry-run", false, "Show resolved actions without executing")
	flag.StringVar(&actionsDir, "actions", "", "Directory of custom YAML actions (default from config)")
	flag.IntVar(&history, "history", 0, "Show the N most recent runs and exit")
	flag.StringVar(&showRun, "show-run", "", "Show the recorded steps of one run and exit")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	flag.StringVar(&logFormat, "log-format", "", "Log format: text or json (default from config)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("buildok v%s\n", version)
		fmt.Println("Build a project by following its README")
		return
	}

	os.Exit(run())
}

// run executes one invocation and returns the process exit code
func run() int {
	// Load configuration (creates with defaults if doesn't exist)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	applyFlags(cfg)

	logger, closeLog, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		File:     cfg.LogFile,
		Journald: cfg.Journald,
	}, os.Stderr)
	if err != nil {
		log.Printf("Failed to set up logging: %v", err)
		return 1
	}
	defer closeLog()

	if history > 0 {
		return showHistory(cfg, history, logger)
	}
	if showRun != "" {
		return showRunSteps(cfg, showRun)
	}

	registry, err := buildRegistry(cfg.ActionsDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Refuse to start on an invalid registry
	check := selfcheck.Run(registry)
	for _, w := range check.Warnings {
		logger.Warn("registry check", "warning", w)
	}
	if analyze {
		fmt.Print(check.Table())
		if err := check.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "\n%v\n", err)
			return 1
		}
		return 0
	}
	if err := check.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	m, err := matcher.New(registry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	r, err := reader.New(reader.Options{Fence: cfg.Fence, TopicPattern: cfg.TopicPattern})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var recorder *db.DB
	if convertTo == "" {
		recorder, err = db.New(cfg.DBPath)
		if err != nil {
			// History is optional; the build still runs without it
			logger.Warn("run history disabled", "path", cfg.DBPath, "error", err)
		} else {
			defer recorder.Close()
		}
	}

	runner := newRunner(recorder, logger)
	runner.SetDryRun(cfg.DryRun)
	runner.SetJournal(journal.New(cfg.JournalPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompter := ui.NewPrompter(os.Stdin, os.Stdout, cfg.MaxPromptAttempts)
	session := ui.NewSession(r, m, runner, prompter, intent.NewSuggester(registry.Actions()), os.Stdout, logger)
	session.SetErrOutput(os.Stderr)
	if recorder != nil {
		session.SetSettings(recorder)
	}

	report, err := session.Run(ctx, ui.Options{
		Guide:        cfg.Guide,
		Selector:     reader.Selector{Title: topic, Pattern: topicPattern},
		Preview:      preview,
		PreviewWidth: cfg.PreviewWidth,
		Convert:      convertTo,
		Output:       outputPath,
	})
	return exitCode(os.Stderr, report, err)
}

// applyFlags lets explicitly set flags override the configuration
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DBPath = dbPath
		case "guide", "g":
			cfg.Guide = guidePath
		case "actions":
			cfg.ActionsDir = actionsDir
		case "dry-run":
			cfg.DryRun = dryRun
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		}
	})
}

// buildRegistry registers the builtin actions followed by the custom ones
func buildRegistry(dir string, logger *slog.Logger) (*actions.Registry, error) {
	registry := actions.Builtin()
	if dir == "" {
		return registry, nil
	}
	custom, err := modules.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom actions: %w", err)
	}
	if err := modules.Register(registry, custom); err != nil {
		return nil, fmt.Errorf("failed to register custom actions: %w", err)
	}
	if len(custom) > 0 {
		logger.Info("custom actions loaded", "dir", dir, "count", len(custom))
	}
	return registry, nil
}

// newRunner avoids handing a typed nil recorder to the runner
func newRunner(recorder *db.DB, logger *slog.Logger) *engine.Runner {
	if recorder == nil {
		return engine.NewRunner(nil, os.Stdout, logger)
	}
	return engine.NewRunner(recorder, os.Stdout, logger)
}

// showHistory lists recent runs from the database, or from the journal
// when the database cannot be opened
func showHistory(cfg *config.Config, limit int, logger *slog.Logger) int {
	var source interfaces.RunHistory
	database, err := db.New(cfg.DBPath)
	if err != nil {
		logger.Warn("reading history from journal", "db", cfg.DBPath, "error", err)
		source = journal.New(cfg.JournalPath)
	} else {
		defer database.Close()
		source = database
	}

	runs, err := source.RecentRuns(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	ui.PrintHistory(os.Stdout, runs)
	return 0
}

func showRunSteps(cfg *config.Config, runID string) int {
	database, err := db.New(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer database.Close()

	run, err := database.GetRun(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	ui.PrintRun(os.Stdout, run)
	return 0
}

// exitCode maps the outcome of a session to the process exit code
func exitCode(w io.Writer, report *models.RunReport, err error) int {
	switch {
	case errors.Is(err, ui.ErrExit):
		fmt.Fprintln(w, "Exit")
		return 0
	case err != nil:
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	case report == nil:
		return 0
	case report.Status == models.StatusFailed:
		return 1
	case report.Terminated && !report.Succeeded():
		return 1
	default:
		return 0
	}
}
