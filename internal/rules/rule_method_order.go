package rules

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

func methodOrderRule() Rule {
	return Rule{
		ID:              "method-order",
		Summary:         "Class methods stay alphabetized within their class body.",
		Kinds:           []string{"method_definition"},
		DefaultSeverity: ir.SeverityWarning,
		Check:           checkMethodOrder,
	}
}

func checkMethodOrder(n *sitter.Node, ctx *Context) []ir.Violation {
	body := n.Parent()
	if body == nil || body.Type() != "class_body" {
		return nil
	}
	name := n.ChildByFieldName("name")
	// Computed names have no fixed spelling to sort by.
	if name == nil || name.Type() != "property_identifier" {
		return nil
	}
	raw := ctx.Text(name)
	if raw == "constructor" {
		return nil // the constructor leads the class regardless of spelling
	}
	key := strings.ToLower(strings.TrimPrefix(raw, "_"))

	if ctx.methodCursor == nil {
		ctx.methodCursor = map[uint32]orderCursor{}
	}
	cur, seen := ctx.methodCursor[body.StartByte()]
	ctx.methodCursor[body.StartByte()] = orderCursor{ok: true, key: key, raw: raw}

	if !seen || key >= cur.key {
		return nil
	}
	return []ir.Violation{{
		Line:    syntax.Line(name),
		Col:     syntax.Col(name),
		Message: fmt.Sprintf("method %q sorts before %q; keep class methods alphabetical", raw, cur.raw),
	}}
}
