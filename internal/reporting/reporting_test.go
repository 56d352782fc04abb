package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/jstyle/internal/ir"
)

func demoRun() *ir.Run {
	return &ir.Run{
		ID:        "run-1",
		Source:    "./src",
		IRVersion: ir.Version,
		Context:   ir.Context{EnabledRules: []string{"brace-style", "quote-style"}, Workers: 2},
		Files: []ir.FileResult{
			{
				Path:  "src/app.js",
				Lines: 40,
				Violations: []ir.Violation{
					{RuleID: "brace-style", File: "src/app.js", Line: 1, Col: 8, Severity: ir.SeverityError, Message: "opening brace on same line as control keyword; move it to the next line", Snippet: "if (x) {"},
					{RuleID: "quote-style", File: "src/app.js", Line: 3, Col: 9, Severity: ir.SeverityWarning, Message: "double-quoted string with no single quote inside; use single quotes", Snippet: `var a = "fine";`},
				},
			},
			{
				Path:  "src/broken.js",
				Lines: 2,
				Violations: []ir.Violation{
					{RuleID: ir.DiagParse, File: "src/broken.js", Line: 1, Col: 10, Severity: ir.SeverityWarning, Message: "syntax error at 1:10; no rules were run on this file", Internal: true},
				},
			},
		},
	}
}

func TestWriteTextFormat(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, demoRun())
	want := strings.Join([]string{
		"src/app.js:1:8: error: opening brace on same line as control keyword; move it to the next line (brace-style)",
		"src/app.js:3:9: warning: double-quoted string with no single quote inside; use single quotes (quote-style)",
		"",
		"Diagnostics:",
		"  src/broken.js:1:10: syntax error at 1:10; no rules were run on this file (parse-error)",
		"",
		"2 problems (1 error, 1 warning)",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestWriteTextCleanRunIsSilent(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, &ir.Run{Files: []ir.FileResult{{Path: "a.js", Lines: 5}}})
	require.Empty(t, buf.String())
}

func TestWriteTextSingularFooter(t *testing.T) {
	var buf bytes.Buffer
	run := &ir.Run{Files: []ir.FileResult{{Path: "a.js", Violations: []ir.Violation{
		{RuleID: "brace-style", File: "a.js", Line: 1, Col: 1, Severity: ir.SeverityError, Message: "m"},
	}}}}
	WriteText(&buf, run)
	require.Contains(t, buf.String(), "1 problem (1 error, 0 warnings)")
}

func TestWriteSARIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSARIF(&buf, demoRun()))

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string                   `json:"name"`
					Rules []map[string]interface{} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID  string `json:"ruleId"`
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	require.Equal(t, "jstyle", doc.Runs[0].Tool.Driver.Name)
	require.Len(t, doc.Runs[0].Tool.Driver.Rules, 3)

	res := doc.Runs[0].Results
	require.Len(t, res, 3)
	require.Equal(t, "brace-style", res[0].RuleID)
	require.Equal(t, "error", res[0].Level)
	loc := res[0].Locations[0].PhysicalLocation
	require.Equal(t, "src/app.js", loc.ArtifactLocation.URI)
	require.Equal(t, 1, loc.Region.StartLine)
	require.Equal(t, 8, loc.Region.StartColumn)

	require.Equal(t, "note", res[2].Level)
}

func TestWriteJSONRoundtrip(t *testing.T) {
	outDir := t.TempDir()
	run := demoRun()
	path, err := WriteJSON(run.ID, outDir, run)
	require.NoError(t, err)
	require.Equal(t, "run-1.json", filepath.Base(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got ir.Run
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, run.ID, got.ID)
	require.Equal(t, run.Files, got.Files)
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, demoRun()))
	var got ir.Run
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "run-1", got.ID)
}

func TestWriteHTML(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "reports")
	path, err := WriteHTML("run-1", outDir, demoRun())
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(b)
	require.Contains(t, body, "<h1>jstyle report")
	require.Contains(t, body, "brace-style")
	require.Contains(t, body, "src/app.js")
	require.Contains(t, body, "Top Rules")
	require.Contains(t, body, "Diagnostics")
}

func TestWriteDiffJSON(t *testing.T) {
	base := demoRun()
	head := &ir.Run{
		ID: "run-2",
		Files: []ir.FileResult{
			{
				Path:  "src/app.js",
				Lines: 41,
				Violations: []ir.Violation{
					{RuleID: "brace-style", File: "src/app.js", Line: 2, Col: 8, Severity: ir.SeverityWarning, Message: "opening brace on same line as control keyword; move it to the next line", Snippet: "if (x) {"},
					{RuleID: "func-in-loop", File: "src/app.js", Line: 9, Col: 3, Severity: ir.SeverityWarning, Message: "function created inside a loop; hoist it out of the loop body", Snippet: "setTimeout(function () {"},
				},
			},
		},
	}

	outDir := t.TempDir()
	path, err := WriteDiffJSON("run-1", "run-2", outDir, base, head)
	require.NoError(t, err)
	require.Equal(t, "diff_run-1__run-2.json", filepath.Base(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var payload diffPayload
	require.NoError(t, json.Unmarshal(b, &payload))

	require.Equal(t, 1, payload.Summary.NewCount)
	require.Equal(t, 2, payload.Summary.RemovedCount)
	require.Equal(t, 1, payload.Summary.ChangedCount)

	require.Equal(t, "func-in-loop", payload.New[0].RuleID)
	require.Equal(t, "quote-style", payload.Removed[0].RuleID)
	require.Equal(t, "parse-error", payload.Removed[1].RuleID)
	require.Equal(t, []string{"severity", "line"}, payload.Changed[0].Changed)
	require.Equal(t, 1, payload.Changed[0].Base.Line)
	require.Equal(t, 2, payload.Changed[0].Head.Line)
}
