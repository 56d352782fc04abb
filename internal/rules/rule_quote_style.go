package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

func quoteStyleRule() Rule {
	return Rule{
		ID:              "quote-style",
		Summary:         "Single quotes for string literals unless the text needs one.",
		Kinds:           []string{"string"},
		DefaultSeverity: ir.SeverityWarning,
		Check:           checkQuoteStyle,
	}
}

func checkQuoteStyle(n *sitter.Node, ctx *Context) []ir.Violation {
	text := ctx.Text(n)
	if len(text) < 2 || text[0] != '"' {
		return nil
	}
	// Only a bare single quote in the text permits double quotes; an
	// escaped one does not count.
	if hasBareSingleQuote(text[1 : len(text)-1]) {
		return nil
	}
	return []ir.Violation{{
		Line:    syntax.Line(n),
		Col:     syntax.Col(n),
		Message: "double-quoted string with no single quote inside; use single quotes",
	}}
}

func hasBareSingleQuote(s string) bool {
	escaped := false
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '\'':
			return true
		}
	}
	return false
}
