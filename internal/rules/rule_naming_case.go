package rules

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

func namingCaseRule() Rule {
	return Rule{
		ID:      "naming-case",
		Summary: "Constructors are TitleCase, primitive constants are SCREAMING_SNAKE_CASE.",
		Kinds: []string{
			"class_declaration", "class",
			"function_declaration", "function", "function_expression",
			"lexical_declaration",
		},
		DefaultSeverity: ir.SeverityError,
		Check:           checkNamingCase,
	}
}

func checkNamingCase(n *sitter.Node, ctx *Context) []ir.Violation {
	switch n.Type() {
	case "class_declaration", "class":
		return checkCtorName(ctx, n.ChildByFieldName("name"))
	case "function_declaration", "function", "function_expression":
		// Only functions that behave like constructors (assign to
		// this.*) are held to TitleCase.
		if !assignsThis(n) {
			return nil
		}
		return checkCtorName(ctx, functionBindingName(n))
	case "lexical_declaration":
		return checkConstNames(n, ctx)
	}
	return nil
}

func checkCtorName(ctx *Context, name *sitter.Node) []ir.Violation {
	if name == nil {
		return nil
	}
	id := ctx.Text(name)
	if isTitleCase(id) {
		return nil
	}
	return []ir.Violation{{
		Line:    syntax.Line(name),
		Col:     syntax.Col(name),
		Message: fmt.Sprintf("constructor %q should be TitleCase", id),
	}}
}

func checkConstNames(n *sitter.Node, ctx *Context) []ir.Violation {
	if ctx.Depth() > 0 {
		return nil // only top-level consts count as constants
	}
	if n.ChildCount() == 0 || ctx.Text(n.Child(0)) != "const" {
		return nil
	}
	var out []ir.Violation
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		value := d.ChildByFieldName("value")
		if value == nil || !isPrimitiveLiteral(value) {
			continue
		}
		name := d.ChildByFieldName("name")
		if name == nil || name.Type() != "identifier" {
			continue
		}
		id := ctx.Text(name)
		if isScreamingSnake(id) {
			continue
		}
		out = append(out, ir.Violation{
			Line:    syntax.Line(name),
			Col:     syntax.Col(name),
			Message: fmt.Sprintf("constant %q should be SCREAMING_SNAKE_CASE", id),
		})
	}
	return out
}

// assignsThis reports whether the function body assigns to this.*,
// looking through arrow functions (they share this) but not through
// nested function scopes.
func assignsThis(fn *sitter.Node) bool {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return false
	}
	found := false
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found {
			return
		}
		switch n.Type() {
		case "function_declaration", "function", "function_expression",
			"method_definition", "generator_function", "generator_function_declaration":
			return
		case "assignment_expression":
			if left := n.ChildByFieldName("left"); left != nil && left.Type() == "member_expression" {
				obj := left.ChildByFieldName("object")
				for obj != nil && obj.Type() == "member_expression" {
					obj = obj.ChildByFieldName("object")
				}
				if obj != nil && obj.Type() == "this" {
					found = true
					return
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(body)
	return found
}

// functionBindingName resolves the name a function is bound to: its own
// name for declarations and named expressions, otherwise the variable,
// assignment target or object key it is attached to.
func functionBindingName(fn *sitter.Node) *sitter.Node {
	if name := fn.ChildByFieldName("name"); name != nil {
		return name
	}
	parent := fn.Parent()
	if parent == nil {
		return nil
	}
	switch parent.Type() {
	case "variable_declarator":
		if name := parent.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			return name
		}
	case "assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			return left
		}
	case "pair":
		if key := parent.ChildByFieldName("key"); key != nil && key.Type() == "property_identifier" {
			return key
		}
	}
	return nil
}

func isTitleCase(id string) bool {
	if id == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(id)
	return unicode.IsUpper(first) && !strings.Contains(id, "_")
}

func isScreamingSnake(id string) bool {
	hasLetter := false
	for _, r := range id {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return hasLetter
}

func isPrimitiveLiteral(n *sitter.Node) bool {
	switch n.Type() {
	case "string", "number", "true", "false", "null", "undefined":
		return true
	case "template_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "template_substitution" {
				return false
			}
		}
		return true
	case "unary_expression":
		arg := n.ChildByFieldName("argument")
		return arg != nil && arg.Type() == "number"
	}
	return false
}
