package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/syntax"
)

// Context is the per-file state threaded through one evaluation walk.
// Order rules keep their rolling cursors here, so a Context belongs to
// exactly one file and is never shared across concurrent evaluations.
type Context struct {
	File string
	Tree *syntax.Tree

	stack []string // kinds of the ancestors of the node under evaluation

	reqCursor    orderCursor
	methodCursor map[uint32]orderCursor
	exportStyle  string
}

// orderCursor is a rolling last-seen sort key for alphabetical-order
// rules. container and stmt anchor the cursor to a block and to the
// statement that set it, so a break in the block resets the comparison.
type orderCursor struct {
	ok        bool
	container uint32
	stmt      uint32
	key       string
	raw       string
}

func NewContext(file string, tree *syntax.Tree) *Context {
	return &Context{File: file, Tree: tree}
}

// Text returns the source text of n.
func (c *Context) Text(n *sitter.Node) string { return c.Tree.Text(n) }

func (c *Context) push(kind string) { c.stack = append(c.stack, kind) }
func (c *Context) pop()             { c.stack = c.stack[:len(c.stack)-1] }

var blockKinds = map[string]bool{
	"statement_block": true,
	"class_body":      true,
	"switch_body":     true,
}

// Depth is the number of blocks enclosing the node under evaluation.
// Zero means top level.
func (c *Context) Depth() int {
	d := 0
	for _, k := range c.stack {
		if blockKinds[k] {
			d++
		}
	}
	return d
}

var loopKinds = map[string]bool{
	"for_statement":    true,
	"for_in_statement": true,
	"while_statement":  true,
	"do_statement":     true,
}

var funcKinds = map[string]bool{
	"function_declaration":           true,
	"function":                       true,
	"function_expression":            true,
	"arrow_function":                 true,
	"method_definition":              true,
	"generator_function":             true,
	"generator_function_declaration": true,
}

// InLoop reports whether the node under evaluation sits inside a loop
// body without an intervening function boundary.
func (c *Context) InLoop() bool {
	for i := len(c.stack) - 1; i >= 0; i-- {
		switch {
		case loopKinds[c.stack[i]]:
			return true
		case funcKinds[c.stack[i]]:
			return false
		}
	}
	return false
}
