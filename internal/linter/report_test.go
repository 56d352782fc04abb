package linter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jstyle/internal/ir"
)

func v(rule string, line, col int) ir.Violation {
	return ir.Violation{RuleID: rule, Line: line, Col: col, Severity: ir.SeverityWarning, Message: "m"}
}

func paths(fs []ir.FileResult) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Path)
	}
	return out
}

func TestFinalizeOrdersWithinFile(t *testing.T) {
	rep := NewReport()
	rep.Add("a.js", v("zz", 2, 1))
	rep.Add("a.js", v("aa", 1, 5))
	rep.Add("a.js", v("bb", 1, 2))

	files := rep.Finalize()
	require.Len(t, files, 1)
	want := []ir.Violation{v("bb", 1, 2), v("aa", 1, 5), v("zz", 2, 1)}
	require.Equal(t, want, files[0].Violations)
}

func TestFinalizeRuleIDTiebreak(t *testing.T) {
	rep := NewReport()
	rep.Add("a.js", v("zeta", 3, 3))
	rep.Add("a.js", v("alpha", 3, 3))

	vs := rep.Finalize()[0].Violations
	require.Equal(t, "alpha", vs[0].RuleID)
	require.Equal(t, "zeta", vs[1].RuleID)
}

func TestFinalizeDropsExactDuplicates(t *testing.T) {
	rep := NewReport()
	rep.Add("a.js", v("dup", 1, 1))
	rep.Add("a.js", v("dup", 1, 1))
	rep.Add("a.js", v("other", 1, 1))

	vs := rep.Finalize()[0].Violations
	require.Len(t, vs, 2)
	require.Equal(t, "dup", vs[0].RuleID)
	require.Equal(t, "other", vs[1].RuleID)
}

func TestFinalizeOrdersFilesByPath(t *testing.T) {
	rep := NewReport()
	rep.Add("b/x.js", v("r", 1, 1))
	rep.Add("a/x.js", v("r", 1, 1))
	rep.AddFile("c/x.js", 10)

	files := rep.Finalize()
	require.Equal(t, []string{"a/x.js", "b/x.js", "c/x.js"}, paths(files))
	require.Empty(t, files[2].Violations)
	require.Equal(t, 10, files[2].Lines)
}

func TestAddFileIsIdempotent(t *testing.T) {
	rep := NewReport()
	rep.AddFile("a.js", 5)
	rep.AddFile("a.js", 5)
	rep.Add("a.js", v("r", 1, 1))

	files := rep.Finalize()
	require.Len(t, files, 1)
	require.Equal(t, 5, files[0].Lines)
	require.Len(t, files[0].Violations, 1)
}
