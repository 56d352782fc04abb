package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

func funcInLoopRule() Rule {
	return Rule{
		ID:      "func-in-loop",
		Summary: "No function literals inside loop bodies.",
		Kinds: []string{
			"function", "function_expression", "arrow_function",
			"function_declaration", "generator_function", "generator_function_declaration",
		},
		DefaultSeverity: ir.SeverityWarning,
		Check:           checkFuncInLoop,
	}
}

func checkFuncInLoop(n *sitter.Node, ctx *Context) []ir.Violation {
	if !ctx.InLoop() {
		return nil
	}
	return []ir.Violation{{
		Line:    syntax.Line(n),
		Col:     syntax.Col(n),
		Message: "function created inside a loop; hoist it out of the loop body",
	}}
}
