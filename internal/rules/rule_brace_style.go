package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

// Control-flow constructs whose blocks take Allman braces. Object
// literals and function bodies are out of scope for this rule.
var braceParents = map[string]bool{
	"if_statement":     true,
	"else_clause":      true,
	"for_statement":    true,
	"for_in_statement": true,
	"while_statement":  true,
	"do_statement":     true,
	"try_statement":    true,
	"catch_clause":     true,
	"finally_clause":   true,
}

func braceStyleRule() Rule {
	return Rule{
		ID:              "brace-style",
		Summary:         "Opening braces of control blocks go on their own line.",
		Kinds:           []string{"statement_block", "switch_body"},
		DefaultSeverity: ir.SeverityError,
		Check:           checkBraceStyle,
	}
}

func checkBraceStyle(n *sitter.Node, ctx *Context) []ir.Violation {
	parent := n.Parent()
	if parent == nil {
		return nil
	}
	switch n.Type() {
	case "statement_block":
		if !braceParents[parent.Type()] {
			return nil
		}
	case "switch_body":
		if parent.Type() != "switch_statement" {
			return nil
		}
	}
	// A complete block on one line with at most one statement is an
	// accepted compact form.
	if syntax.Line(n) == syntax.EndLine(n) && n.NamedChildCount() <= 1 {
		return nil
	}
	if syntax.Line(n) != syntax.Line(parent) {
		return nil
	}
	return []ir.Violation{{
		Line:    syntax.Line(n),
		Col:     syntax.Col(n),
		Message: "opening brace on same line as control keyword; move it to the next line",
	}}
}
