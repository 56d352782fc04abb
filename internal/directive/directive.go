// Package directive reads jstyle suppression comments out of a parsed file.
//
//	// jstyle-ignore                 suppress everything on this or the next line
//	// jstyle-ignore rule-a,rule-b   suppress only the listed rules
//	// jstyle-ignore-file            suppress the whole file
package directive

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/syntax"
)

const (
	marker     = "jstyle-ignore"
	fileMarker = "jstyle-ignore-file"
)

type entry struct {
	line  int
	col   int
	rules map[string]bool // nil = all rules
	used  bool
}

func (e *entry) allows(ruleID string) bool {
	return e.rules == nil || e.rules[strings.ToLower(ruleID)]
}

// Ignores is the suppression set for one file.
type Ignores struct {
	file   *entry
	byLine map[int]*entry
}

// Collect scans the tree's comment nodes for suppression directives.
func Collect(tree *syntax.Tree) *Ignores {
	ig := &Ignores{byLine: map[int]*entry{}}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "comment" {
			ig.add(tree, n)
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.Root)
	return ig
}

func (ig *Ignores) add(tree *syntax.Tree, n *sitter.Node) {
	text := strings.TrimSpace(tree.Text(n))
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	text = strings.TrimSpace(text)

	e := &entry{line: syntax.Line(n), col: syntax.Col(n)}
	switch {
	case text == fileMarker:
		if ig.file == nil {
			ig.file = e
		}
	case text == marker:
		ig.byLine[e.line] = e
	case strings.HasPrefix(text, marker+" "):
		e.rules = map[string]bool{}
		ids := strings.FieldsFunc(text[len(marker):], func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		for _, id := range ids {
			e.rules[strings.ToLower(id)] = true
		}
		ig.byLine[e.line] = e
	}
}

// Match reports whether a violation of ruleID on line is suppressed, and
// marks the matching directive used. A line directive covers its own line
// and the line below it.
func (ig *Ignores) Match(line int, ruleID string) bool {
	if ig == nil {
		return false
	}
	if ig.file != nil {
		ig.file.used = true
		return true
	}
	for _, l := range [2]int{line, line - 1} {
		if e, ok := ig.byLine[l]; ok && e.allows(ruleID) {
			e.used = true
			return true
		}
	}
	return false
}

// Pos locates a directive comment.
type Pos struct {
	Line int
	Col  int
}

// Unused returns directives that never suppressed anything, in source order.
func (ig *Ignores) Unused() []Pos {
	if ig == nil {
		return nil
	}
	var out []Pos
	if ig.file != nil && !ig.file.used {
		out = append(out, Pos{ig.file.line, ig.file.col})
	}
	lines := make([]int, 0, len(ig.byLine))
	for l := range ig.byLine {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	for _, l := range lines {
		if e := ig.byLine[l]; !e.used {
			out = append(out, Pos{e.line, e.col})
		}
	}
	return out
}
