// Package rules holds the style rules and the evaluator that runs them
// over parsed JavaScript files. Rules live in an explicitly constructed
// Registry; there is no ambient global rule set.
package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codewithboateng/jstyle/internal/ir"
)

// Rule is one style check. Kinds lists the syntax node kinds the rule
// wants to see; Check is called once per matching node during the walk.
//
// Check fills Line, Col and Message on each violation. The evaluator
// stamps the rest (file, rule id, effective severity, snippet).
type Rule struct {
	ID              string
	Summary         string
	Kinds           []string
	DefaultSeverity ir.Severity
	Check           func(n *sitter.Node, ctx *Context) []ir.Violation
}
