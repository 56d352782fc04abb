package rules

import (
	"fmt"
	"sort"
	"strings"
)

// DuplicateRuleError reports a second registration under an id that is
// already taken.
type DuplicateRuleError struct {
	ID string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule %q is already registered", e.ID)
}

// Registry is an explicit, immutable-once-built rule set. Build it,
// register everything, then hand it to an Evaluator; registries are
// safe to share across concurrent evaluations because nothing mutates
// them after construction.
type Registry struct {
	rules []Rule
	byID  map[string]int // lower(ruleID) -> index
}

func NewRegistry() *Registry {
	return &Registry{byID: map[string]int{}}
}

// Register adds r. Rule ids are case-insensitive and must be unique.
func (reg *Registry) Register(r Rule) error {
	id := strings.ToLower(strings.TrimSpace(r.ID))
	if id == "" {
		return fmt.Errorf("rule has an empty id")
	}
	if r.Check == nil {
		return fmt.Errorf("rule %q has no check function", r.ID)
	}
	if _, ok := reg.byID[id]; ok {
		return &DuplicateRuleError{ID: r.ID}
	}
	reg.byID[id] = len(reg.rules)
	reg.rules = append(reg.rules, r)
	return nil
}

// All returns the registered rules sorted by id. The slice is a copy;
// callers cannot reach back into the registry through it.
func (reg *Registry) All() []Rule {
	out := make([]Rule, len(reg.rules))
	copy(out, reg.rules)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a rule by id if registered.
func (reg *Registry) Get(id string) (Rule, bool) {
	idx, ok := reg.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Rule{}, false
	}
	return reg.rules[idx], true
}

// Len is the number of registered rules.
func (reg *Registry) Len() int { return len(reg.rules) }

// KindIndex maps each subscribed node kind to the rules that want it,
// in id order. The evaluator consults this once per node instead of
// scanning every rule.
func (reg *Registry) KindIndex() map[string][]Rule {
	index := map[string][]Rule{}
	for _, r := range reg.All() {
		for _, kind := range r.Kinds {
			index[kind] = append(index[kind], r)
		}
	}
	return index
}
