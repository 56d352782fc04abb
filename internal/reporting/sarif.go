package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/codewithboateng/jstyle/internal/ir"
)

// WriteSARIF encodes the run as SARIF 2.1.0 so CI annotation tooling
// can ingest it. Internal diagnostics ride along at level "note".
func WriteSARIF(w io.Writer, run *ir.Run) error {
	vs := run.Violations()

	// Rules section, one entry per distinct id, sorted for stable output.
	var ruleIDs []string
	seen := map[string]bool{}
	for _, v := range vs {
		if !seen[v.RuleID] {
			seen[v.RuleID] = true
			ruleIDs = append(ruleIDs, v.RuleID)
		}
	}
	sort.Strings(ruleIDs)

	rules := make([]map[string]interface{}, 0, len(ruleIDs))
	for _, id := range ruleIDs {
		rules = append(rules, map[string]interface{}{
			"id":   id,
			"name": id,
		})
	}

	results := make([]map[string]interface{}, 0, len(vs))
	for _, v := range vs {
		results = append(results, map[string]interface{}{
			"ruleId":  v.RuleID,
			"level":   sarifLevel(v),
			"message": map[string]interface{}{"text": v.Message},
			"locations": []map[string]interface{}{
				{
					"physicalLocation": map[string]interface{}{
						"artifactLocation": map[string]interface{}{
							"uri": v.File,
						},
						"region": map[string]interface{}{
							"startLine":   v.Line,
							"startColumn": v.Col,
						},
					},
				},
			},
		})
	}

	doc := map[string]interface{}{
		"version": "2.1.0",
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"runs": []map[string]interface{}{
			{
				"tool": map[string]interface{}{
					"driver": map[string]interface{}{
						"name":           "jstyle",
						"informationUri": "https://github.com/codewithboateng/jstyle",
						"rules":          rules,
					},
				},
				"results": results,
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode SARIF output: %w", err)
	}
	return nil
}

func sarifLevel(v ir.Violation) string {
	if v.Internal {
		return "note"
	}
	return string(v.Severity)
}
