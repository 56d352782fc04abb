package ir

import (
	"fmt"
	"strings"
	"time"
)

const Version = "1.0"

// Reserved rule ids for tool diagnostics. Violations carrying one of
// these describe a fault of the tool or the input, not a style break.
const (
	DiagParse        = "parse-error"
	DiagRead         = "read-error"
	DiagTimeout      = "file-timeout"
	DiagUnusedIgnore = "unused-ignore"
)

// Severity of a violation. Only error-severity violations gate the exit code.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return "", fmt.Errorf("unknown severity %q (want warning or error)", s)
}

func (s Severity) Rank() int {
	if s == SeverityError {
		return 2
	}
	return 1
}

// Violation is one detected rule break at a source location.
// Internal marks tool diagnostics (parse failures, faulted rules, timeouts);
// they are reported but never count toward the style exit code.
type Violation struct {
	RuleID   string   `json:"rule_id"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Col      int      `json:"col"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Snippet  string   `json:"snippet,omitempty"`
	Internal bool     `json:"internal,omitempty"`
}

type FileResult struct {
	Path       string      `json:"path"`
	Lines      int         `json:"lines,omitempty"`
	Violations []Violation `json:"violations"`
}

type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	IRVersion string    `json:"ir_version,omitempty"`

	Context Context      `json:"context"`
	Files   []FileResult `json:"files"`
}

// Context records the effective settings a run was produced under so a
// stored run can be interpreted without the config that made it.
type Context struct {
	EnabledRules      []string            `json:"enabled_rules,omitempty"`
	SeverityOverrides map[string]Severity `json:"severity_overrides,omitempty"`
	Workers           int                 `json:"workers,omitempty"`
	FileTimeoutMS     int                 `json:"file_timeout_ms,omitempty"`
}

// Violations flattens all file results in order.
func (r *Run) Violations() []Violation {
	var out []Violation
	for _, f := range r.Files {
		out = append(out, f.Violations...)
	}
	return out
}
