package rules

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jstyle/internal/ir"
)

func TestSeverityOverrideApplies(t *testing.T) {
	reg := Builtin()
	s, err := ResolveSettings(reg, map[string]RuleConfig{
		"quote-style": {Severity: "error"},
	})
	require.NoError(t, err)

	ev := NewEvaluator(reg, s)
	tree := parseTree(t, `var a = "x";`)
	res := ev.EvaluateFile(context.Background(), "x.js", tree, nil)
	require.Len(t, res.Violations, 1)
	require.Equal(t, ir.SeverityError, res.Violations[0].Severity)
}

func TestDisabledRuleDoesNotRun(t *testing.T) {
	off := false
	reg := Builtin()
	s, err := ResolveSettings(reg, map[string]RuleConfig{
		"quote-style": {Enabled: &off},
	})
	require.NoError(t, err)

	ev := NewEvaluator(reg, s)
	tree := parseTree(t, `var a = "x";`)
	res := ev.EvaluateFile(context.Background(), "x.js", tree, nil)
	require.Empty(t, res.Violations)
}

func TestUnknownRuleIDRejected(t *testing.T) {
	_, err := ResolveSettings(Builtin(), map[string]RuleConfig{"no-such-rule": {}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no-such-rule")
}

func TestBadSeverityRejected(t *testing.T) {
	_, err := ResolveSettings(Builtin(), map[string]RuleConfig{"quote-style": {Severity: "fatal"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "quote-style")
}

func TestSeverityAliasWarn(t *testing.T) {
	s, err := ResolveSettings(Builtin(), map[string]RuleConfig{"brace-style": {Severity: "warn"}})
	require.NoError(t, err)
	require.Equal(t, ir.SeverityWarning, s.Severity["brace-style"])
}

func TestEnabledIDs(t *testing.T) {
	off := false
	s, err := ResolveSettings(Builtin(), map[string]RuleConfig{"quote-style": {Enabled: &off}})
	require.NoError(t, err)

	ids := s.EnabledIDs()
	require.NotContains(t, ids, "quote-style")
	require.Contains(t, ids, "brace-style")
	require.True(t, sort.StringsAreSorted(ids))
	require.Len(t, ids, Builtin().Len()-1)
}
