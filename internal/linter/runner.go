package linter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/jstyle/internal/directive"
	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/rules"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

// DefaultExtensions are the file types picked up when a directory is
// walked. Files named on the command line are linted regardless.
var DefaultExtensions = []string{".js", ".mjs", ".cjs"}

// DefaultFileTimeout bounds parsing plus evaluation of a single file.
const DefaultFileTimeout = 10 * time.Second

// Runner lints a set of paths with a fixed registry and settings. The
// registry is shared read-only across workers; every file gets its own
// parser and evaluation context.
type Runner struct {
	Registry    *rules.Registry
	Settings    rules.Settings
	Workers     int
	FileTimeout time.Duration
	Exts        []string
}

// Run lints every file reachable from paths and returns the assembled
// run. It fails outright only on unusable input: a named path that does
// not exist, or nothing lintable found. Per-file trouble lands in that
// file's result as a diagnostic instead.
func (r *Runner) Run(ctx context.Context, paths []string) (*ir.Run, error) {
	started := time.Now().UTC()

	files, err := r.collect(paths)
	if err != nil {
		return nil, err
	}

	settings := r.Settings
	if settings.Enabled == nil {
		settings, err = rules.ResolveSettings(r.Registry, nil)
		if err != nil {
			return nil, err
		}
	}
	ev := rules.NewEvaluator(r.Registry, settings)

	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers()
	}
	timeout := r.FileTimeout
	if timeout <= 0 {
		timeout = DefaultFileTimeout
	}
	slog.Debug("lint run starting", "files", len(files), "rules", ev.ActiveRules(), "workers", workers)

	results := make([]ir.FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			results[i] = lintFile(gctx, ev, path, timeout)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := NewReport()
	for i := range results {
		rep.AddFile(results[i].Path, results[i].Lines)
		for _, v := range results[i].Violations {
			rep.Add(results[i].Path, v)
		}
	}

	run := &ir.Run{
		ID:        uuid.NewString(),
		StartedAt: started,
		Source:    strings.Join(paths, ","),
		IRVersion: ir.Version,
		Context: ir.Context{
			EnabledRules:      settings.EnabledIDs(),
			SeverityOverrides: settings.Severity,
			Workers:           workers,
			FileTimeoutMS:     int(timeout / time.Millisecond),
		},
		Files: rep.Finalize(),
	}
	slog.Debug("lint run finished", "run_id", run.ID, "violations", len(run.Violations()))
	return run, nil
}

// collect expands the argument paths into a sorted, de-duplicated file
// list. Directories are walked with the extension filter; node_modules
// and dot-directories are skipped.
func (r *Runner) collect(paths []string) ([]string, error) {
	exts := r.Exts
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extSet := map[string]bool{}
	for _, e := range exts {
		extSet[strings.ToLower(e)] = true
	}

	seen := map[string]bool{}
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		walkErr := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != p && (name == "node_modules" || strings.HasPrefix(name, ".")) {
					return fs.SkipDir
				}
				return nil
			}
			if extSet[strings.ToLower(filepath.Ext(path))] {
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", p, walkErr)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no lintable files under %s", strings.Join(paths, ", "))
	}
	sort.Strings(files)
	return files, nil
}

// lintFile handles one file end to end. Read and parse failures become
// diagnostics on the file's result rather than aborting the run.
func lintFile(ctx context.Context, ev *rules.Evaluator, path string, timeout time.Duration) ir.FileResult {
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	src, err := os.ReadFile(path)
	if err != nil {
		return ir.FileResult{Path: path, Violations: []ir.Violation{{
			RuleID:   ir.DiagRead,
			File:     path,
			Line:     1,
			Col:      1,
			Severity: ir.SeverityWarning,
			Message:  fmt.Sprintf("file could not be read: %v", err),
			Internal: true,
		}}}
	}

	p := syntax.NewParser()
	defer p.Close()
	tree, err := p.Parse(fctx, src)
	if err != nil {
		return ir.FileResult{
			Path:       path,
			Lines:      bytes.Count(src, []byte("\n")) + 1,
			Violations: []ir.Violation{parseFailure(path, err)},
		}
	}
	defer tree.Close()

	ig := directive.Collect(tree)
	res := ev.EvaluateFile(fctx, path, tree, ig)
	for _, pos := range ig.Unused() {
		res.Violations = append(res.Violations, ir.Violation{
			RuleID:   ir.DiagUnusedIgnore,
			File:     path,
			Line:     pos.Line,
			Col:      pos.Col,
			Severity: ir.SeverityWarning,
			Message:  "ignore directive suppresses nothing; remove it",
			Snippet:  strings.TrimSpace(tree.LineText(pos.Line)),
		})
	}
	return res
}

func parseFailure(path string, err error) ir.Violation {
	var pe *syntax.ParseError
	switch {
	case errors.As(err, &pe):
		return ir.Violation{
			RuleID:   ir.DiagParse,
			File:     path,
			Line:     pe.Line,
			Col:      pe.Col,
			Severity: ir.SeverityWarning,
			Message:  fmt.Sprintf("%v; no rules were run on this file", pe),
			Internal: true,
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ir.Violation{
			RuleID:   ir.DiagTimeout,
			File:     path,
			Line:     1,
			Col:      1,
			Severity: ir.SeverityWarning,
			Message:  "parse did not finish in time; no rules were run on this file",
			Internal: true,
		}
	default:
		return ir.Violation{
			RuleID:   ir.DiagParse,
			File:     path,
			Line:     1,
			Col:      1,
			Severity: ir.SeverityWarning,
			Message:  fmt.Sprintf("parse failed: %v", err),
			Internal: true,
		}
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 2 {
		n = 2
	}
	return n
}
