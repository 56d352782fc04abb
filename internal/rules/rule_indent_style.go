package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/ir"
)

func indentStyleRule() Rule {
	return Rule{
		ID:              "indent-style",
		Summary:         "Indentation is tabs, never spaces.",
		Kinds:           []string{"program"},
		DefaultSeverity: ir.SeverityError,
		Check:           checkIndentStyle,
	}
}

// checkIndentStyle runs once per file, on the program node, and scans
// the raw lines. Lines continuing a block comment (first code char *)
// keep their conventional single leading space.
func checkIndentStyle(n *sitter.Node, ctx *Context) []ir.Violation {
	var out []ir.Violation
	for i, line := range ctx.Tree.Lines() {
		spaceAt := -1
		j := 0
		for ; j < len(line); j++ {
			c := line[j]
			if c != ' ' && c != '\t' {
				break
			}
			if c == ' ' && spaceAt < 0 {
				spaceAt = j
			}
		}
		if spaceAt < 0 || j == len(line) {
			continue // no spaces, or nothing but whitespace
		}
		if line[j] == '*' {
			continue
		}
		out = append(out, ir.Violation{
			Line:    i + 1,
			Col:     spaceAt + 1,
			Message: "indentation uses spaces; use tabs",
		})
	}
	return out
}
