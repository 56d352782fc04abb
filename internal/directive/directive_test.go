package directive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jstyle/internal/syntax"
)

func collect(t *testing.T, src string) *Ignores {
	t.Helper()
	p := syntax.NewParser()
	t.Cleanup(p.Close)
	tree, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return Collect(tree)
}

func TestLineDirectiveCoversSameAndNextLine(t *testing.T) {
	ig := collect(t, "var a = 1; // jstyle-ignore\nvar b = 2;\nvar c = 3;\n")
	require.True(t, ig.Match(1, "any-rule"))
	require.True(t, ig.Match(2, "any-rule"))
	require.False(t, ig.Match(3, "any-rule"))
}

func TestScopedDirective(t *testing.T) {
	ig := collect(t, "// jstyle-ignore quote-style, brace-style\nvar a = 1;\n")
	require.True(t, ig.Match(2, "quote-style"))
	require.True(t, ig.Match(2, "BRACE-STYLE"))
	require.False(t, ig.Match(2, "naming-case"))
}

func TestFileDirective(t *testing.T) {
	ig := collect(t, "// jstyle-ignore-file\nvar a = 1;\n")
	require.True(t, ig.Match(2, "quote-style"))
	require.True(t, ig.Match(99, "anything"))
}

func TestBlockCommentDirective(t *testing.T) {
	ig := collect(t, "/* jstyle-ignore */\nvar a = 1;\n")
	require.True(t, ig.Match(2, "any-rule"))
}

func TestPlainCommentsAreNotDirectives(t *testing.T) {
	ig := collect(t, "// a note about code\nvar a = 1;\n")
	require.False(t, ig.Match(2, "any-rule"))
	require.Empty(t, ig.Unused())
}

func TestUnusedReporting(t *testing.T) {
	ig := collect(t, "// jstyle-ignore quote-style\nvar a = 1;\n// jstyle-ignore\nvar b = 2;\n")

	unused := ig.Unused()
	require.Len(t, unused, 2)
	require.Equal(t, 1, unused[0].Line)
	require.Equal(t, 3, unused[1].Line)

	require.True(t, ig.Match(4, "some-rule"))
	unused = ig.Unused()
	require.Len(t, unused, 1)
	require.Equal(t, 1, unused[0].Line)
}

func TestUnusedFileDirective(t *testing.T) {
	ig := collect(t, "// jstyle-ignore-file\nvar a = 1;\n")
	require.Len(t, ig.Unused(), 1)

	ig.Match(2, "rule")
	require.Empty(t, ig.Unused())
}

func TestNilIgnoresAreSafe(t *testing.T) {
	var ig *Ignores
	require.False(t, ig.Match(1, "rule"))
	require.Empty(t, ig.Unused())
}
