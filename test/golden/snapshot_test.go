package golden

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/linter"
	"github.com/codewithboateng/jstyle/internal/rules"
)

var update = flag.Bool("update", false, "update golden snapshot")

const goldenFile = "testdata/expected.json"

const sampleApp = `const vat = 0.2;
function sum(a, b) {
	return a + b;
}
if (sum(1, 2) === 3) {
	console.log("three");
}
`

const sampleImports = `const zlib = require('zlib');
const fs = require('fs');
`

func TestGolden_FixtureSnapshot(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"app.js":     sampleApp,
		"imports.js": sampleImports,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	r := &linter.Runner{Registry: rules.Builtin(), Workers: 1}
	run, err := r.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}

	// Normalize volatile fields before snapshot
	norm := normalize(run, dir)

	got, err := json.MarshalIndent(norm, "", "  ")
	if err != nil {
		t.Fatalf("marshal got: %v", err)
	}

	if *update {
		if err := os.MkdirAll(filepath.Dir(goldenFile), 0o755); err != nil {
			t.Fatalf("mkdir golden dir: %v", err)
		}
		if err := os.WriteFile(goldenFile, got, 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		t.Logf("updated %s", goldenFile)
		return
	}

	want, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("read golden (%s): %v\nRun with: go test ./test/golden -run TestGolden_FixtureSnapshot -args -update", goldenFile, err)
	}

	if !bytes.Equal(bytes.TrimSpace(got), bytes.TrimSpace(want)) {
		tmp := filepath.Join(t.TempDir(), "got.json")
		_ = os.WriteFile(tmp, got, 0o644)
		t.Fatalf("golden mismatch.\n  golden: %s\n  actual: %s\nTip: update with\n  go test ./test/golden -run TestGolden_FixtureSnapshot -count=1 -args -update", goldenFile, tmp)
	}
}

type runLite struct {
	Source string     `json:"source"`
	Rules  []string   `json:"rules"`
	Files  []fileLite `json:"files"`
}

type fileLite struct {
	Path       string     `json:"path"`
	Lines      int        `json:"lines"`
	Violations []violLite `json:"violations"`
}

type violLite struct {
	RuleID   string `json:"rule_id"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Snippet  string `json:"snippet,omitempty"`
}

// normalize strips the volatile parts of a run (id, timestamps, worker
// count, the temp dir prefix on paths) so the snapshot stays stable
// across machines.
func normalize(run *ir.Run, dir string) runLite {
	files := make([]fileLite, 0, len(run.Files))
	for _, f := range run.Files {
		vs := make([]violLite, 0, len(f.Violations))
		for _, v := range f.Violations {
			vs = append(vs, violLite{
				RuleID:   v.RuleID,
				Line:     v.Line,
				Col:      v.Col,
				Severity: string(v.Severity),
				Message:  v.Message,
				Snippet:  v.Snippet,
			})
		}
		files = append(files, fileLite{
			Path:       relPath(f.Path, dir),
			Lines:      f.Lines,
			Violations: vs,
		})
	}
	return runLite{
		Source: "fixture",
		Rules:  run.Context.EnabledRules,
		Files:  files,
	}
}

func relPath(p, dir string) string {
	p = strings.TrimPrefix(p, dir)
	p = strings.TrimPrefix(p, string(filepath.Separator))
	return filepath.ToSlash(p)
}
