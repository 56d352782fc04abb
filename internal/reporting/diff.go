package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codewithboateng/jstyle/internal/ir"
)

type diffPayload struct {
	BaseID  string          `json:"base_id"`
	HeadID  string          `json:"head_id"`
	Summary diffSummary     `json:"summary"`
	New     []diffViolation `json:"new"`
	Removed []diffViolation `json:"removed"`
	Changed []diffChanged   `json:"changed"`
}

type diffSummary struct {
	NewCount     int `json:"new"`
	RemovedCount int `json:"removed"`
	ChangedCount int `json:"changed"`
}

type diffViolation struct {
	RuleID   string `json:"rule_id"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
}

type diffChanged struct {
	Key     string        `json:"key"`
	Base    diffViolation `json:"base"`
	Head    diffViolation `json:"head"`
	Changed []string      `json:"fields_changed"`
}

func WriteDiffJSON(baseID, headID, outDir string, base, head *ir.Run) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	// index violations
	bm := map[string]ir.Violation{}
	hm := map[string]ir.Violation{}
	for _, v := range base.Violations() {
		bm[keyOf(v)] = v
	}
	for _, v := range head.Violations() {
		hm[keyOf(v)] = v
	}

	var added []diffViolation
	var removed []diffViolation
	var changed []diffChanged

	// additions & changes
	for k, hv := range hm {
		if bv, ok := bm[k]; !ok {
			added = append(added, asDiff(hv))
		} else {
			var fields []string
			if bv.Severity != hv.Severity {
				fields = append(fields, "severity")
			}
			if strings.TrimSpace(bv.Message) != strings.TrimSpace(hv.Message) {
				fields = append(fields, "message")
			}
			if bv.Line != hv.Line {
				fields = append(fields, "line")
			}
			if len(fields) > 0 {
				changed = append(changed, diffChanged{
					Key:     k,
					Base:    asDiff(bv),
					Head:    asDiff(hv),
					Changed: fields,
				})
			}
		}
	}
	// removals
	for k, bv := range bm {
		if _, ok := hm[k]; !ok {
			removed = append(removed, asDiff(bv))
		}
	}

	// stable sort
	byPlace := func(s []diffViolation) func(i, j int) bool {
		return func(i, j int) bool {
			if s[i].File != s[j].File {
				return s[i].File < s[j].File
			}
			if s[i].Line != s[j].Line {
				return s[i].Line < s[j].Line
			}
			return s[i].RuleID < s[j].RuleID
		}
	}
	sort.Slice(added, byPlace(added))
	sort.Slice(removed, byPlace(removed))
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	payload := diffPayload{
		BaseID: baseID, HeadID: headID,
		Summary: diffSummary{
			NewCount:     len(added),
			RemovedCount: len(removed),
			ChangedCount: len(changed),
		},
		New:     added,
		Removed: removed,
		Changed: changed,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

// keyOf ties a violation to its logical identity across runs: the rule,
// the file, and the offending source text. Line and column stay out of
// the key so edits above a violation do not read as new findings.
func keyOf(v ir.Violation) string {
	sb := strings.Builder{}
	sb.WriteString(norm(v.RuleID)); sb.WriteByte('|')
	sb.WriteString(v.File); sb.WriteByte('|')
	sb.WriteString(strings.TrimSpace(v.Snippet))
	return sb.String()
}

func asDiff(v ir.Violation) diffViolation {
	return diffViolation{
		RuleID:   v.RuleID,
		File:     v.File,
		Line:     v.Line,
		Col:      v.Col,
		Severity: string(v.Severity),
		Message:  v.Message,
		Snippet:  v.Snippet,
	}
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
