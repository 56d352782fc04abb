package reporting

import (
	"fmt"
	"io"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/stats"
)

// WriteText renders one line per style violation in the classic
//
//	path:line:col: severity: message (rule-id)
//
// shape, then internal diagnostics under their own heading, then a
// closing problem count. A clean run writes nothing at all.
func WriteText(w io.Writer, run *ir.Run) {
	var diags []ir.Violation
	wrote := false
	for _, fr := range run.Files {
		for _, v := range fr.Violations {
			if v.Internal {
				diags = append(diags, v)
				continue
			}
			fmt.Fprintf(w, "%s:%d:%d: %s: %s (%s)\n", v.File, v.Line, v.Col, v.Severity, v.Message, v.RuleID)
			wrote = true
		}
	}

	if len(diags) > 0 {
		if wrote {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "Diagnostics:")
		for _, d := range diags {
			fmt.Fprintf(w, "  %s:%d:%d: %s (%s)\n", d.File, d.Line, d.Col, d.Message, d.RuleID)
		}
	}

	if s := stats.Summarize(run); s.Problems > 0 {
		fmt.Fprintf(w, "\n%d %s (%d %s, %d %s)\n",
			s.Problems, plural(s.Problems, "problem"),
			s.Errors, plural(s.Errors, "error"),
			s.Warnings, plural(s.Warnings, "warning"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
