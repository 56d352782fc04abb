package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/codewithboateng/jstyle/internal/ir"
)

// RuleConfig is the per-rule block of the linter configuration: a rule
// can be switched off or have its severity overridden. A nil Enabled
// means "leave it on".
type RuleConfig struct {
	Enabled  *bool  `yaml:"enabled" json:"enabled,omitempty"`
	Severity string `yaml:"severity" json:"severity,omitempty"`
}

// Settings is the resolved rule selection for one run: which rules are
// on, and the effective severity for each. Both maps are keyed by
// lowercased rule id.
type Settings struct {
	Enabled  map[string]bool
	Severity map[string]ir.Severity
}

// ResolveSettings validates conf against the registry and produces the
// effective selection. Every rule starts enabled at its default
// severity; unknown rule ids and bad severity names are configuration
// errors.
func ResolveSettings(reg *Registry, conf map[string]RuleConfig) (Settings, error) {
	s := Settings{Enabled: map[string]bool{}, Severity: map[string]ir.Severity{}}
	for _, r := range reg.All() {
		id := strings.ToLower(r.ID)
		s.Enabled[id] = true
		s.Severity[id] = r.DefaultSeverity
	}

	ids := make([]string, 0, len(conf))
	for id := range conf {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		key := strings.ToLower(strings.TrimSpace(id))
		if _, ok := s.Enabled[key]; !ok {
			return Settings{}, fmt.Errorf("unknown rule id %q", id)
		}
		rc := conf[id]
		if rc.Enabled != nil && !*rc.Enabled {
			s.Enabled[key] = false
		}
		if rc.Severity != "" {
			sev, err := ir.ParseSeverity(rc.Severity)
			if err != nil {
				return Settings{}, fmt.Errorf("rule %q: %w", id, err)
			}
			s.Severity[key] = sev
		}
	}
	return s, nil
}

// EnabledIDs lists the enabled rule ids in sorted order, for the run
// context snapshot.
func (s Settings) EnabledIDs() []string {
	ids := make([]string, 0, len(s.Enabled))
	for id, on := range s.Enabled {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
