package lint

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sajari/fuzzy"
)

// Registry holds named rules.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
	model *fuzzy.Model
}

func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds r. Registering two rules with one name panics, like a
// duplicate flag definition.
func (r *Registry) Register(rule Rule) {
	name := rule.Meta().Name
	if name == "" {
		panic("lint: rule without a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.rules[name]; dup {
		panic(fmt.Sprintf("lint: rule %q registered twice", name))
	}
	r.rules[name] = rule
	r.model = nil
}

func (r *Registry) Lookup(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// Rules returns all rules sorted by name.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meta().Name < out[j].Meta().Name })
	return out
}

func (r *Registry) Names() []string {
	rules := r.Rules()
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Meta().Name
	}
	return names
}

// Suggest returns the closest registered name for a misspelled one, or
// "" when nothing is close.
func (r *Registry) Suggest(name string) string {
	r.mu.Lock()
	if r.model == nil {
		m := fuzzy.NewModel()
		m.SetDepth(2)
		m.SetThreshold(1)
		for n := range r.rules {
			m.TrainWord(n)
		}
		r.model = m
	}
	model := r.model
	r.mu.Unlock()

	if s := model.SpellCheck(name); s != "" && s != name {
		return s
	}
	return ""
}

// UnknownRuleError reports a rule name missing from the registry.
type UnknownRuleError struct {
	Name       string
	Suggestion string
}

func (e *UnknownRuleError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown rule %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown rule %q", e.Name)
}

// Resolve looks name up and builds an UnknownRuleError with a suggestion
// when it is missing.
func (r *Registry) Resolve(name string) (Rule, error) {
	if rule, ok := r.Lookup(name); ok {
		return rule, nil
	}
	return nil, &UnknownRuleError{Name: name, Suggestion: r.Suggest(name)}
}

var defaultRegistry = NewRegistry()

// Register adds rule to the process-wide registry. Rule packages call it
// from init.
func Register(rule Rule) { defaultRegistry.Register(rule) }

func Lookup(name string) (Rule, bool) { return defaultRegistry.Lookup(name) }

func Rules() []Rule { return defaultRegistry.Rules() }

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }
