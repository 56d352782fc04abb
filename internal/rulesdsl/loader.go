package rulesdsl

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/jstyle/internal/ir"
	"github.com/codewithboateng/jstyle/internal/rules"
	"github.com/codewithboateng/jstyle/internal/syntax"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	ID       string `yaml:"id"`
	Summary  string `yaml:"summary"`
	Severity string `yaml:"severity"` // warning|error (default warning)
	Message  string `yaml:"message"`

	Where struct {
		Kind       string `yaml:"kind"`        // tree node kind, e.g. call_expression
		Pattern    string `yaml:"pattern"`     // regex on the node text
		NotPattern string `yaml:"not_pattern"` // regex that suppresses a match (optional)
	} `yaml:"where"`
}

type compiled struct {
	rule  dslRule
	sev   ir.Severity
	re    *regexp.Regexp
	reNot *regexp.Regexp
}

// LoadInto reads a YAML rule pack and registers every rule it defines
// into reg. Returns the number of rules added; a duplicate id is a
// registration error, same as for built-in rules.
func LoadInto(reg *rules.Registry, path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules pack: %w", err)
	}
	var pack dslPack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	var n int
	for _, r := range pack.Rules {
		cr, err := compile(r)
		if err != nil {
			return n, fmt.Errorf("compile rule %q: %w", r.ID, err)
		}
		if err := reg.Register(toRule(cr)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func compile(r dslRule) (*compiled, error) {
	if r.ID == "" || r.Message == "" || r.Where.Kind == "" || r.Where.Pattern == "" {
		return nil, fmt.Errorf("missing required fields (id/message/where.kind/where.pattern)")
	}
	c := &compiled{rule: r, sev: ir.SeverityWarning}
	if r.Severity != "" {
		sev, err := ir.ParseSeverity(r.Severity)
		if err != nil { return nil, err }
		c.sev = sev
	}
	// Patterns stay case-sensitive; the language is.
	re, err := regexp.Compile(r.Where.Pattern)
	if err != nil { return nil, fmt.Errorf("pattern: %w", err) }
	c.re = re
	if r.Where.NotPattern != "" {
		re, err := regexp.Compile(r.Where.NotPattern)
		if err != nil { return nil, fmt.Errorf("not_pattern: %w", err) }
		c.reNot = re
	}
	return c, nil
}

func toRule(c *compiled) rules.Rule {
	return rules.Rule{
		ID:              c.rule.ID,
		Summary:         c.rule.Summary,
		Kinds:           []string{strings.TrimSpace(c.rule.Where.Kind)},
		DefaultSeverity: c.sev,
		Check: func(n *sitter.Node, ctx *rules.Context) []ir.Violation {
			text := ctx.Text(n)
			if !c.re.MatchString(text) {
				return nil
			}
			if c.reNot != nil && c.reNot.MatchString(text) {
				return nil
			}
			return []ir.Violation{{
				Line:    syntax.Line(n),
				Col:     syntax.Col(n),
				Message: c.rule.Message,
			}}
		},
	}
}
