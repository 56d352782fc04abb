package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/stats"
)

func WriteHTML(runID, outDir string, run *ir.Run) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	s := stats.Summarize(run)

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + summary
	fmt.Fprintf(f, "<h1>jstyle report <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p>Files: %d &nbsp; Lines: %d &nbsp; Problems: %d</p>", s.Files, s.Lines, s.Problems)
	fmt.Fprintf(f, "<p><b>Severity</b>: errors=%d &nbsp; warnings=%d &nbsp; diagnostics=%d</p>", s.Errors, s.Warnings, s.Diagnostics)
	if s.Lines > 0 {
		fmt.Fprintf(f, "<p class='dim'>Density: %.2f problems per KLOC</p>", s.PerKLOC)
	}

	// Settings banner
	if n := len(run.Context.EnabledRules); n > 0 {
		fmt.Fprintf(f, "<p class='dim'>Enabled rules: %d &nbsp; Workers: %d</p>", n, run.Context.Workers)
	}

	// Top rules by violation count
	if len(s.ByRule) > 0 {
		fmt.Fprint(f, "<h2>Top Rules</h2><table><tr><th>Rule</th><th>Violations</th></tr>")
		limit := len(s.ByRule)
		if limit > 20 {
			limit = 20
		}
		for i := 0; i < limit; i++ {
			fmt.Fprintf(f, "<tr><td>%s</td><td>%d</td></tr>", html.EscapeString(s.ByRule[i].RuleID), s.ByRule[i].Count)
		}
		fmt.Fprint(f, "</table>")
	}

	var style, diags []ir.Violation
	for _, v := range run.Violations() {
		if v.Internal {
			diags = append(diags, v)
		} else {
			style = append(style, v)
		}
	}

	// All violations
	if len(style) > 0 {
		fmt.Fprint(f, "<h2>All Violations</h2><table><tr><th>Severity</th><th>Rule</th><th>File</th><th>Line</th><th>Col</th><th>Message</th></tr>")
		for _, v := range style {
			fmt.Fprintf(f, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%s</td></tr>",
				html.EscapeString(string(v.Severity)),
				html.EscapeString(v.RuleID),
				html.EscapeString(v.File),
				v.Line,
				v.Col,
				html.EscapeString(v.Message),
			)
		}
		fmt.Fprint(f, "</table>")
	} else {
		fmt.Fprint(f, "<h2>All Violations</h2><p class='dim'>No style violations.</p>")
	}

	// Diagnostics: parse failures, timeouts, rule faults
	if len(diags) > 0 {
		fmt.Fprint(f, "<h2>Diagnostics</h2><table><tr><th>Kind</th><th>File</th><th>Line</th><th>Message</th></tr>")
		for _, d := range diags {
			fmt.Fprintf(f, "<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td></tr>",
				html.EscapeString(d.RuleID),
				html.EscapeString(d.File),
				d.Line,
				html.EscapeString(d.Message),
			)
		}
		fmt.Fprint(f, "</table>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
