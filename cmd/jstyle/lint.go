package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codewithboateng/jstyle/internal/linter"
	"github.com/codewithboateng/jstyle/internal/reporting"
	"github.com/codewithboateng/jstyle/internal/rules"
	"github.com/codewithboateng/jstyle/internal/rulesdsl"
	"github.com/codewithboateng/jstyle/internal/shared"
	"github.com/codewithboateng/jstyle/internal/stats"
	"github.com/codewithboateng/jstyle/internal/storage"
	"github.com/codewithboateng/jstyle/internal/watch"
)

var (
	lintFormat  string
	lintOut     string
	lintDB      string
	lintWorkers int
	lintTimeout time.Duration
	lintWatch   bool
	lintNoSave  bool
)

var lintCmd = &cobra.Command{
	Use:   "lint <path>...",
	Short: "Lint JavaScript sources and report style violations",
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().StringVar(&lintFormat, "format", "", "Output format: text, json or sarif")
	lintCmd.Flags().StringVar(&lintOut, "out", "", "Directory for report artifacts")
	lintCmd.Flags().StringVar(&lintDB, "db", "", "SQLite database path")
	lintCmd.Flags().IntVar(&lintWorkers, "workers", 0, "Parallel file workers (0 = pick from CPU count)")
	lintCmd.Flags().DurationVar(&lintTimeout, "timeout", 0, "Per-file time budget")
	lintCmd.Flags().BoolVar(&lintWatch, "watch", false, "Re-lint files as they change")
	lintCmd.Flags().BoolVar(&lintNoSave, "no-save", false, "Skip persisting the run to the database")
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	format := lintFormat
	if format == "" {
		format = cfg.Reporting.Format
	}
	switch format {
	case "text", "json", "sarif":
	default:
		return fmt.Errorf("unknown format %q (want text, json or sarif)", format)
	}
	outDir := lintOut
	if outDir == "" {
		outDir = cfg.Reporting.OutDir
	}
	dbPath := lintDB
	if dbPath == "" {
		dbPath = cfg.Database.DSN
	}
	workers := lintWorkers
	if workers == 0 {
		workers = cfg.Lint.Workers
	}
	timeout := lintTimeout
	if timeout == 0 && cfg.Lint.FileTimeoutMS > 0 {
		timeout = time.Duration(cfg.Lint.FileTimeoutMS) * time.Millisecond
	}
	paths := args
	if len(paths) == 0 {
		paths = cfg.Lint.Sources
	}
	if len(paths) == 0 {
		return fmt.Errorf("lint: name at least one path (or set lint.sources in config)")
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	settings, err := rules.ResolveSettings(reg, cfg.Rules)
	if err != nil {
		return &shared.ConfigError{Err: err}
	}

	runner := &linter.Runner{
		Registry:    reg,
		Settings:    settings,
		Workers:     workers,
		FileTimeout: timeout,
		Exts:        cfg.Lint.Extensions,
	}

	var db *storage.DB
	var waivers []storage.Waiver
	if !lintNoSave {
		db, err = storage.OpenSQLite(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		if err := db.CreateSchema(); err != nil {
			return fmt.Errorf("prepare database: %w", err)
		}
		waivers, err = db.ListWaivers(true)
		if err != nil {
			return fmt.Errorf("load waivers: %w", err)
		}
	}

	code, err := lintOnce(cmd.Context(), runner, db, waivers, paths, format, outDir, cfg.Reporting.HTML)
	if err != nil {
		return err
	}

	if lintWatch {
		return watchLoop(runner, waivers, paths, cfg)
	}

	if code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}

// buildRegistry assembles the builtin rules plus any configured packs.
func buildRegistry(cfg shared.Config) (*rules.Registry, error) {
	reg := rules.Builtin()
	for _, pack := range cfg.Lint.RulePacks {
		n, err := rulesdsl.LoadInto(reg, pack)
		if err != nil {
			return nil, &shared.ConfigError{Err: err}
		}
		slog.Debug("rule pack loaded", "path", pack, "rules", n)
	}
	return reg, nil
}

// lintOnce runs the linter over paths, applies waivers, persists the
// run, emits the report, and maps the outcome to an exit code.
func lintOnce(ctx context.Context, runner *linter.Runner, db *storage.DB, waivers []storage.Waiver, paths []string, format, outDir string, writeHTML bool) (int, error) {
	run, err := runner.Run(ctx, paths)
	if err != nil {
		return 0, err
	}

	if len(waivers) > 0 {
		waived := 0
		for i := range run.Files {
			kept, n := rules.ApplyWaivers(run.Files[i].Violations, waivers)
			run.Files[i].Violations = kept
			waived += n
		}
		if waived > 0 {
			slog.Info("waivers applied", "suppressed", waived)
		}
	}

	jsonPath, err := reporting.WriteJSON(run.ID, outDir, run)
	if err != nil {
		return 0, fmt.Errorf("write json report: %w", err)
	}
	htmlPath := ""
	if writeHTML {
		htmlPath, err = reporting.WriteHTML(run.ID, outDir, run)
		if err != nil {
			return 0, fmt.Errorf("write html report: %w", err)
		}
	}
	if db != nil {
		if err := db.SaveRun(run); err != nil {
			return 0, fmt.Errorf("save run: %w", err)
		}
	}
	slog.Info("lint complete", "run", run.ID, "json", jsonPath, "html", htmlPath)

	switch format {
	case "json":
		if err := reporting.EncodeJSON(os.Stdout, run); err != nil {
			return 0, err
		}
	case "sarif":
		if err := reporting.WriteSARIF(os.Stdout, run); err != nil {
			return 0, err
		}
	default:
		reporting.WriteText(os.Stdout, run)
	}

	sum := stats.Summarize(run)
	if sum.FilesFailed > 0 {
		return 2, nil
	}
	if sum.Errors > 0 {
		return 1, nil
	}
	return 0, nil
}

// watchLoop blocks until interrupted, re-linting changed files and
// printing text output for each settled batch.
func watchLoop(runner *linter.Runner, waivers []storage.Waiver, paths []string, cfg shared.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exts := cfg.Lint.Extensions
	if len(exts) == 0 {
		exts = linter.DefaultExtensions
	}
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond

	w, err := watch.New(paths, exts, debounce, func(changed []string) {
		run, err := runner.Run(ctx, changed)
		if err != nil {
			slog.Warn("relint failed", "error", err)
			return
		}
		for i := range run.Files {
			run.Files[i].Violations, _ = rules.ApplyWaivers(run.Files[i].Violations, waivers)
		}
		reporting.WriteText(os.Stdout, run)
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	slog.Info("watching for changes", "paths", paths)
	<-ctx.Done()
	return nil
}
