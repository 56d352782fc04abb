package rules

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

func requireOrderRule() Rule {
	return Rule{
		ID:              "require-order",
		Summary:         "Contiguous require statements stay alphabetized.",
		Kinds:           []string{"call_expression"},
		DefaultSeverity: ir.SeverityWarning,
		Check:           checkRequireOrder,
	}
}

func checkRequireOrder(n *sitter.Node, ctx *Context) []ir.Violation {
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || ctx.Text(fn) != "require" {
		return nil
	}
	arg := firstStringArg(n)
	if arg == nil {
		return nil
	}
	raw := stripQuotes(ctx.Text(arg))
	key := requireSortKey(raw)

	stmt, container := enclosingStatement(n)
	if stmt == nil {
		return nil
	}

	// The block is contiguous when this require sits in the same
	// statement as the previous one, or in the statement right after
	// it. Any other statement in between resets the cursor.
	cur := ctx.reqCursor
	contiguous := cur.ok && cur.container == container.StartByte()
	if contiguous && cur.stmt != stmt.StartByte() {
		prev := prevCodeSibling(stmt)
		contiguous = prev != nil && prev.StartByte() == cur.stmt
	}
	ctx.reqCursor = orderCursor{
		ok:        true,
		container: container.StartByte(),
		stmt:      stmt.StartByte(),
		key:       key,
		raw:       raw,
	}

	if !contiguous || key >= cur.key {
		return nil
	}
	return []ir.Violation{{
		Line:    syntax.Line(arg),
		Col:     syntax.Col(arg),
		Message: fmt.Sprintf("require of %q sorts before %q; keep the require block alphabetical", raw, cur.raw),
	}}
}

// requireSortKey normalizes a module path for comparison: lowercase,
// with leading relative markers and the node: scheme stripped so
// './util' files the same as 'util'.
func requireSortKey(path string) string {
	key := strings.ToLower(path)
	key = strings.TrimPrefix(key, "node:")
	for {
		switch {
		case strings.HasPrefix(key, "./"):
			key = key[2:]
		case strings.HasPrefix(key, "../"):
			key = key[3:]
		case strings.HasPrefix(key, "/"):
			key = key[1:]
		default:
			return key
		}
	}
}

func firstStringArg(call *sitter.Node) *sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	arg := args.NamedChild(0)
	if arg.Type() != "string" {
		return nil
	}
	return arg
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// enclosingStatement climbs to the statement that holds n and the
// program or block that holds the statement.
func enclosingStatement(n *sitter.Node) (stmt, container *sitter.Node) {
	for cur := n; cur != nil; cur = cur.Parent() {
		p := cur.Parent()
		if p == nil {
			return nil, nil
		}
		if t := p.Type(); t == "program" || t == "statement_block" {
			return cur, p
		}
	}
	return nil, nil
}

func prevCodeSibling(n *sitter.Node) *sitter.Node {
	for s := n.PrevNamedSibling(); s != nil; s = s.PrevNamedSibling() {
		if s.Type() != "comment" {
			return s
		}
	}
	return nil
}
