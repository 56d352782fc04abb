package rules

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/directive"
	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

// deadlineEvery is how many visited nodes pass between deadline checks
// during a walk.
const deadlineEvery = 256

// Evaluator dispatches syntax nodes to the rules subscribed to their
// kind. It is immutable after construction and safe for concurrent
// use; all mutable walk state lives in the per-file Context.
type Evaluator struct {
	index    map[string][]Rule
	severity map[string]ir.Severity // lower(ruleID) -> effective severity
}

// NewEvaluator builds the kind dispatch index once from the registry
// and the resolved settings. A zero Settings enables every rule at its
// default severity.
func NewEvaluator(reg *Registry, s Settings) *Evaluator {
	e := &Evaluator{index: map[string][]Rule{}, severity: map[string]ir.Severity{}}
	for _, r := range reg.All() {
		id := strings.ToLower(r.ID)
		if s.Enabled != nil && !s.Enabled[id] {
			continue
		}
		sev := r.DefaultSeverity
		if s.Severity != nil {
			if o, ok := s.Severity[id]; ok && o != "" {
				sev = o
			}
		}
		if sev == "" {
			sev = ir.SeverityWarning
		}
		e.severity[id] = sev
		for _, kind := range r.Kinds {
			e.index[kind] = append(e.index[kind], r)
		}
	}
	return e
}

// ActiveRules is the number of rules the evaluator will run.
func (e *Evaluator) ActiveRules() int { return len(e.severity) }

// EvaluateFile walks tree once, pre-order and left to right, collecting
// violations in traversal order. A panicking rule is converted into an
// internal violation tagged with that rule's id and the walk continues.
// When ctx expires mid-walk the rest of the file is abandoned and a
// file-timeout diagnostic is appended.
func (e *Evaluator) EvaluateFile(ctx context.Context, file string, tree *syntax.Tree, ig *directive.Ignores) ir.FileResult {
	fc := NewContext(file, tree)
	res := ir.FileResult{Path: file, Lines: len(tree.Lines())}

	visited := 0
	timedOut := false

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if timedOut {
			return
		}
		visited++
		if visited%deadlineEvery == 0 && ctx.Err() != nil {
			timedOut = true
			return
		}
		for _, r := range e.index[n.Type()] {
			for _, v := range e.checkSafe(r, n, fc) {
				if v.RuleID == "" {
					v.RuleID = r.ID
				}
				v.File = file
				if !v.Internal {
					v.Severity = e.severity[strings.ToLower(r.ID)]
				}
				if v.Snippet == "" {
					v.Snippet = snippet(tree.LineText(v.Line))
				}
				if ig.Match(v.Line, v.RuleID) {
					continue
				}
				res.Violations = append(res.Violations, v)
			}
		}
		fc.push(n.Type())
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
		fc.pop()
	}
	walk(tree.Root)

	if timedOut {
		res.Violations = append(res.Violations, ir.Violation{
			RuleID:   ir.DiagTimeout,
			File:     file,
			Line:     1,
			Col:      1,
			Severity: ir.SeverityWarning,
			Message:  "evaluation ran out of time; results for this file are incomplete",
			Internal: true,
		})
	}
	return res
}

// checkSafe runs one rule on one node, converting a panic into an
// internal violation so a faulty rule cannot take down the walk.
func (e *Evaluator) checkSafe(r Rule, n *sitter.Node, fc *Context) (out []ir.Violation) {
	defer func() {
		if rec := recover(); rec != nil {
			out = []ir.Violation{{
				RuleID:   r.ID,
				Line:     syntax.Line(n),
				Col:      syntax.Col(n),
				Severity: ir.SeverityWarning,
				Message:  fmt.Sprintf("internal error in rule %s on %s node: %v", r.ID, n.Type(), rec),
				Internal: true,
			}}
		}
	}()
	return r.Check(n, fc)
}

// snippet trims a source line for report output.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
