package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

const (
	exportObject = "object" // module.exports = ...
	exportNamed  = "named"  // exports.name = ... or module.exports.name = ...
)

func exportStyleRule() Rule {
	return Rule{
		ID:              "export-style",
		Summary:         "One export style per file: whole-object or named members.",
		Kinds:           []string{"assignment_expression"},
		DefaultSeverity: ir.SeverityError,
		Check:           checkExportStyle,
	}
}

// The first export assignment in the file fixes the style; every later
// assignment in the other style is flagged.
func checkExportStyle(n *sitter.Node, ctx *Context) []ir.Violation {
	style := exportStyleOf(n, ctx)
	if style == "" {
		return nil
	}
	if ctx.exportStyle == "" {
		ctx.exportStyle = style
		return nil
	}
	if ctx.exportStyle == style {
		return nil
	}
	return []ir.Violation{{
		Line:    syntax.Line(n),
		Col:     syntax.Col(n),
		Message: "file mixes module.exports and exports.* styles; pick one",
	}}
}

// exportStyleOf classifies an assignment target as a whole-object
// export, a named member export, or neither.
func exportStyleOf(n *sitter.Node, ctx *Context) string {
	left := n.ChildByFieldName("left")
	if left == nil || left.Type() != "member_expression" {
		return ""
	}
	obj := left.ChildByFieldName("object")
	prop := left.ChildByFieldName("property")
	if obj == nil || prop == nil {
		return ""
	}
	switch obj.Type() {
	case "identifier":
		switch ctx.Text(obj) {
		case "module":
			if ctx.Text(prop) == "exports" {
				return exportObject
			}
		case "exports":
			return exportNamed
		}
	case "member_expression":
		inner := obj.ChildByFieldName("object")
		innerProp := obj.ChildByFieldName("property")
		if inner != nil && innerProp != nil &&
			inner.Type() == "identifier" &&
			ctx.Text(inner) == "module" && ctx.Text(innerProp) == "exports" {
			return exportNamed
		}
	}
	return ""
}
