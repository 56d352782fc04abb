// Package syntax wraps the tree-sitter JavaScript grammar behind a single
// parse call. Nothing else in the linter ever parses source text.
package syntax

import (
	"bytes"
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// ParseError reports source that tree-sitter could not fully parse.
type ParseError struct {
	Line int
	Col  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d", e.Line, e.Col)
}

// Tree is one parsed file. Close releases the underlying allocation.
type Tree struct {
	Root   *sitter.Node
	Source []byte

	ts    *sitter.Tree
	lines [][]byte
}

func (t *Tree) Close() {
	if t.ts != nil {
		t.ts.Close()
		t.ts = nil
	}
}

// Text returns the source text of n.
func (t *Tree) Text(n *sitter.Node) string { return n.Content(t.Source) }

// Lines returns the raw source lines without newlines.
func (t *Tree) Lines() [][]byte {
	if t.lines == nil {
		t.lines = splitLines(t.Source)
	}
	return t.lines
}

// LineText returns the raw source of a 1-based line, "" if out of range.
func (t *Tree) LineText(line int) string {
	ls := t.Lines()
	if line < 1 || line > len(ls) {
		return ""
	}
	return string(ls[line-1])
}

// Parser parses JavaScript sources. A Parser is not safe for concurrent
// use; each worker owns its own.
type Parser struct {
	p *sitter.Parser
}

func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Parser{p: p}
}

func (p *Parser) Close() { p.p.Close() }

// Parse produces a Tree or a *ParseError. A context deadline aborts the
// parse and surfaces as the context's error.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Tree, error) {
	ts, err := p.p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	root := ts.RootNode()
	if root.HasError() {
		line, col := firstError(root)
		ts.Close()
		return nil, &ParseError{Line: line, Col: col}
	}
	return &Tree{Root: root, Source: src, ts: ts}, nil
}

func firstError(n *sitter.Node) (int, int) {
	if n.Type() == "ERROR" || n.IsMissing() {
		return Line(n), Col(n)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.HasError() {
			return firstError(c)
		}
	}
	return Line(n), Col(n)
}

// Line and Col are 1-based source positions of a node's start.
func Line(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }
func Col(n *sitter.Node) int  { return int(n.StartPoint().Column) + 1 }

func EndLine(n *sitter.Node) int { return int(n.EndPoint().Row) + 1 }

func splitLines(src []byte) [][]byte {
	ls := bytes.Split(src, []byte("\n"))
	for i, l := range ls {
		ls[i] = bytes.TrimSuffix(l, []byte("\r"))
	}
	return ls
}
