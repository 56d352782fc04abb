// Package stats derives summary numbers from a lint run: totals per
// severity, per-rule counts, and density per thousand lines.
package stats

import (
	"sort"
	"strings"

	"github.com/codewithboateng/jstyle/internal/ir"
)

// Summary condenses a run for report footers and exit decisions.
type Summary struct {
	Files       int `json:"files"`
	FilesFailed int `json:"files_failed"` // files where parsing or reading failed, so no rules ran
	Lines       int `json:"lines"`

	Problems int `json:"problems"` // style violations, internal diagnostics excluded
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`

	Diagnostics int `json:"diagnostics"` // internal faults: parse, read, timeout, rule panics

	PerKLOC float64     `json:"per_kloc"`
	ByRule  []RuleCount `json:"by_rule,omitempty"`
}

type RuleCount struct {
	RuleID string `json:"rule_id"`
	Count  int    `json:"count"`
}

func Summarize(run *ir.Run) Summary {
	s := Summary{Files: len(run.Files)}
	counts := map[string]int{}
	for _, fr := range run.Files {
		s.Lines += fr.Lines
		failed := false
		for _, v := range fr.Violations {
			if v.Internal {
				s.Diagnostics++
				if v.RuleID == ir.DiagParse || v.RuleID == ir.DiagRead {
					failed = true
				}
				continue
			}
			s.Problems++
			counts[strings.ToLower(v.RuleID)]++
			if v.Severity == ir.SeverityError {
				s.Errors++
			} else {
				s.Warnings++
			}
		}
		if failed {
			s.FilesFailed++
		}
	}
	for id, n := range counts {
		s.ByRule = append(s.ByRule, RuleCount{RuleID: id, Count: n})
	}
	sort.Slice(s.ByRule, func(i, j int) bool {
		if s.ByRule[i].Count != s.ByRule[j].Count {
			return s.ByRule[i].Count > s.ByRule[j].Count
		}
		return s.ByRule[i].RuleID < s.ByRule[j].RuleID
	})
	if s.Lines > 0 {
		s.PerKLOC = float64(s.Problems) / (float64(s.Lines) / 1000.0)
	}
	return s
}
