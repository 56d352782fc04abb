// Package linter runs the full pipeline over a set of input paths:
// discovery, parsing, rule evaluation and report assembly.
package linter

import (
	"sort"

	"github.com/codewithboateng/jstyle/internal/ir"
)

// Report accumulates violations as files finish, in whatever order they
// arrive, and freezes them into a deterministic order on Finalize.
type Report struct {
	order      []string
	lines      map[string]int
	violations map[string][]ir.Violation
}

func NewReport() *Report {
	return &Report{
		lines:      map[string]int{},
		violations: map[string][]ir.Violation{},
	}
}

// AddFile registers a file with the report so it shows up even when it
// stays clean.
func (r *Report) AddFile(path string, lines int) {
	if _, ok := r.violations[path]; !ok {
		r.violations[path] = nil
		r.order = append(r.order, path)
	}
	if lines > 0 {
		r.lines[path] = lines
	}
}

// Add records one violation. Arrival order within a file is kept until
// Finalize imposes the report order.
func (r *Report) Add(path string, v ir.Violation) {
	r.AddFile(path, 0)
	r.violations[path] = append(r.violations[path], v)
}

// Finalize sorts each file's violations by line and column with a rule
// id tiebreak, drops exact duplicates, and returns the files in path
// order. Two runs over the same inputs produce identical output.
func (r *Report) Finalize() []ir.FileResult {
	paths := append([]string(nil), r.order...)
	sort.Strings(paths)

	out := make([]ir.FileResult, 0, len(paths))
	for _, p := range paths {
		vs := r.violations[p]
		sort.SliceStable(vs, func(i, j int) bool {
			if vs[i].Line != vs[j].Line {
				return vs[i].Line < vs[j].Line
			}
			if vs[i].Col != vs[j].Col {
				return vs[i].Col < vs[j].Col
			}
			return vs[i].RuleID < vs[j].RuleID
		})
		var kept []ir.Violation
		for i, v := range vs {
			if i > 0 && sameSpot(vs[i-1], v) {
				continue
			}
			kept = append(kept, v)
		}
		out = append(out, ir.FileResult{Path: p, Lines: r.lines[p], Violations: kept})
	}
	return out
}

func sameSpot(a, b ir.Violation) bool {
	return a.Line == b.Line && a.Col == b.Col && a.RuleID == b.RuleID
}
