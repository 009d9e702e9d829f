package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"valign/internal/diag"
	"valign/internal/lint"
)

var (
	// ErrUnknownRule marks rule names that are not registered.
	ErrUnknownRule = errors.New("unknown rule")
	// ErrRuleOptions marks rule tables rejected by the rule.
	ErrRuleOptions = errors.New("invalid rule options")
)

const severityOff = "off"

// RuleOverride is a command-line "name=severity" setting.
type RuleOverride struct {
	Name     string
	Severity string
}

// ParseRuleOverride parses "name=severity".
func ParseRuleOverride(s string) (RuleOverride, error) {
	name, sev, ok := strings.Cut(s, "=")
	name, sev = strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(sev))
	if !ok || name == "" || sev == "" {
		return RuleOverride{}, fmt.Errorf("invalid rule override %q (want name=severity)", s)
	}
	if err := checkSeverity(sev); err != nil {
		return RuleOverride{}, err
	}
	return RuleOverride{Name: name, Severity: sev}, nil
}

func checkSeverity(s string) error {
	if s == severityOff {
		return nil
	}
	_, err := diag.ParseSeverity(s)
	return err
}

// ResolveRules builds the rule set of a run. Recommended rules are on by
// default at their declared severity; configuration tables and overrides
// (applied last) change severity, switch rules off or pass options.
func (c *Config) ResolveRules(reg *lint.Registry, overrides []RuleOverride) ([]lint.Configured, error) {
	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	severities := make(map[string]string)
	options := make(map[string]map[string]any)
	for _, name := range names {
		rule, err := reg.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownRule, err)
		}
		rc := c.Rules[name]
		if raw, ok := rc["severity"]; ok {
			if _, isString := raw.(string); !isString {
				return nil, fmt.Errorf("rules.%s.severity must be a string, got %T", name, raw)
			}
		}
		if sev := rc.Severity(); sev != "" {
			if err := checkSeverity(sev); err != nil {
				return nil, fmt.Errorf("rules.%s: %w", name, err)
			}
			severities[name] = sev
		}
		opts := rc.Options()
		if v, ok := rule.(lint.OptionValidator); ok {
			if err := v.ValidateOptions(opts); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrRuleOptions, err)
			}
		} else if len(opts) > 0 {
			return nil, fmt.Errorf("%w: rule %s takes no options", ErrRuleOptions, name)
		}
		options[name] = opts
	}

	for _, o := range overrides {
		if _, err := reg.Resolve(o.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnknownRule, err)
		}
		severities[o.Name] = o.Severity
	}

	var out []lint.Configured
	for _, rule := range reg.Rules() {
		meta := rule.Meta()
		sevName, set := severities[meta.Name]
		switch {
		case sevName == severityOff:
			continue
		case !set && !meta.Recommended:
			continue
		}
		sev := meta.Severity
		if set {
			sev, _ = diag.ParseSeverity(sevName)
		}
		out = append(out, lint.Configured{Rule: rule, Severity: sev, Options: options[meta.Name]})
	}
	return out, nil
}

// Fingerprint is a stable textual form of the resolved rule set, used to
// key cached results.
func Fingerprint(rules []lint.Configured) string {
	var b strings.Builder
	for _, r := range rules {
		fmt.Fprintf(&b, "%s:%s", r.Rule.Meta().Name, r.Severity)
		keys := make([]string, 0, len(r.Options))
		for k := range r.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, ",%s=%v", k, r.Options[k])
		}
		b.WriteByte(';')
	}
	return b.String()
}
