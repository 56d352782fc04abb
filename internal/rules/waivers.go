package rules

import (
	"strings"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/storage"
)

// ApplyWaivers filters out violations that match any active waiver.
// Returns (kept, waivedCount)
func ApplyWaivers(in []ir.Violation, waivers []storage.Waiver) ([]ir.Violation, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []ir.Violation
	waived := 0
nextViolation:
	for _, v := range in {
		for _, w := range waivers {
			if !eqCI(v.RuleID, w.RuleID) { continue }
			if w.File != "" && !eqCI(v.File, w.File) { continue }
			if w.PatternSub != "" {
				ps := strings.ToLower(w.PatternSub)
				if !strings.Contains(strings.ToLower(v.Message), ps) &&
				   !strings.Contains(strings.ToLower(v.Snippet), ps) {
					continue
				}
			}
			// matched → waive it
			waived++
			continue nextViolation
		}
		out = append(out, v)
	}
	return out, waived
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
