package rulesdsl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/rules"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

func writePack(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pack.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func evalPack(t *testing.T, reg *rules.Registry, src string) []ir.Violation {
	t.Helper()
	set, err := rules.ResolveSettings(reg, nil)
	require.NoError(t, err)
	p := syntax.NewParser()
	defer p.Close()
	tree, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	res := rules.NewEvaluator(reg, set).EvaluateFile(context.Background(), "pack.js", tree, nil)
	return res.Violations
}

func TestLoadPackAndEvaluate(t *testing.T) {
	path := writePack(t, `
rules:
  - id: no-console
    summary: Console calls left in source
    severity: error
    message: console call left in source
    where:
      kind: call_expression
      pattern: '^console\.'
`)
	reg := rules.NewRegistry()
	n, err := LoadInto(reg, path)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	r, ok := reg.Get("no-console")
	require.True(t, ok)
	require.Equal(t, ir.SeverityError, r.DefaultSeverity)

	vs := evalPack(t, reg, "console.log('hi');\nfoo();\n")
	require.Len(t, vs, 1)
	require.Equal(t, "no-console", vs[0].RuleID)
	require.Equal(t, 1, vs[0].Line)
	require.Equal(t, ir.SeverityError, vs[0].Severity)
	require.Equal(t, "console call left in source", vs[0].Message)
}

func TestNotPatternSuppresses(t *testing.T) {
	path := writePack(t, `
rules:
  - id: no-console
    message: console call left in source
    where:
      kind: call_expression
      pattern: '^console\.'
      not_pattern: '^console\.error'
`)
	reg := rules.NewRegistry()
	_, err := LoadInto(reg, path)
	require.NoError(t, err)

	vs := evalPack(t, reg, "console.error('boom');\nconsole.log('hi');\n")
	require.Len(t, vs, 1)
	require.Equal(t, 2, vs[0].Line)
	require.Equal(t, ir.SeverityWarning, vs[0].Severity)
}

func TestMissingFieldsRejected(t *testing.T) {
	path := writePack(t, `
rules:
  - id: half-done
    message: something
`)
	reg := rules.NewRegistry()
	_, err := LoadInto(reg, path)
	require.Error(t, err)
	require.Contains(t, err.Error(), `compile rule "half-done"`)
}

func TestBadRegexRejected(t *testing.T) {
	path := writePack(t, `
rules:
  - id: broken
    message: m
    where:
      kind: string
      pattern: '['
`)
	reg := rules.NewRegistry()
	_, err := LoadInto(reg, path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "pattern")
}

func TestDuplicateAgainstBuiltins(t *testing.T) {
	path := writePack(t, `
rules:
  - id: quote-style
    message: m
    where:
      kind: string
      pattern: '.'
`)
	reg := rules.Builtin()
	n, err := LoadInto(reg, path)
	require.Error(t, err)
	require.Zero(t, n)
	var dup *rules.DuplicateRuleError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "quote-style", dup.ID)
}

func TestMissingPackFileFails(t *testing.T) {
	reg := rules.NewRegistry()
	_, err := LoadInto(reg, filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}
