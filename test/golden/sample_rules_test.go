package golden

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/linter"
	"github.com/codewithboateng/jstyle/internal/rules"
)

// sampleMessy trips every stock rule at least once. Indentation is
// tabs except for the one line meant to trip indent-style.
const sampleMessy = `const maxRetries = 3;
const path = require('path');
const crypto = require('crypto');

function runAll(jobs) {
	for (let i = 0; i < jobs.length; i++) {
		jobs[i].done = function() { return true; };
	}
}

class widgetStore {
	save() {
		return this.db.save();
	}
	load() {
		return this.db.load();
	}
}

if (maxRetries) {
  console.log("retry budget", maxRetries);
}

module.exports = widgetStore;
exports.runAll = runAll;
`

func lintStrings(t *testing.T, files map[string]string, conf map[string]rules.RuleConfig) *ir.Run {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	reg := rules.Builtin()
	settings, err := rules.ResolveSettings(reg, conf)
	if err != nil {
		t.Fatalf("resolve settings: %v", err)
	}
	r := &linter.Runner{Registry: reg, Settings: settings, Workers: 2}
	run, err := r.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	return run
}

func TestSample_AllStockRulesFire(t *testing.T) {
	run := lintStrings(t, map[string]string{"messy.js": sampleMessy}, nil)

	counts := map[string]int{}
	for _, v := range run.Violations() {
		if v.Internal {
			t.Fatalf("unexpected diagnostic %s at %d:%d: %s", v.RuleID, v.Line, v.Col, v.Message)
		}
		counts[v.RuleID]++
	}

	required := []string{
		"brace-style",
		"export-style",
		"func-in-loop",
		"indent-style",
		"method-order",
		"naming-case",
		"quote-style",
		"require-order",
	}
	for _, id := range required {
		if counts[id] == 0 {
			t.Fatalf("expected at least 1 violation for %s; got 0; counts=%v", id, counts)
		}
	}
}

func TestSample_ConfigDisablesAndDowngrades(t *testing.T) {
	full := lintStrings(t, map[string]string{"messy.js": sampleMessy}, nil)

	off := false
	filtered := lintStrings(t, map[string]string{"messy.js": sampleMessy}, map[string]rules.RuleConfig{
		"quote-style": {Enabled: &off},
		"naming-case": {Severity: "warning"},
	})

	if len(filtered.Violations()) >= len(full.Violations()) {
		t.Fatalf("expected disabling quote-style to drop violations; got filtered=%d full=%d",
			len(filtered.Violations()), len(full.Violations()))
	}
	for _, v := range filtered.Violations() {
		switch v.RuleID {
		case "quote-style":
			t.Fatalf("quote-style is disabled but still fired at %d:%d", v.Line, v.Col)
		case "naming-case":
			if v.Severity != ir.SeverityWarning {
				t.Fatalf("naming-case should be downgraded to warning; got %s", v.Severity)
			}
		}
	}
}
