package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultRules is used when no rule file is configured.
const defaultRules = `
- name: sustained-decline
  when: trend == "declining" && average < 60
  alert_type: cognitive_decline
  severity: high
  title: "Cognitive decline detected in {{data_type}}"
  description: "Recent {{data_type}} scores are falling and average {{average}}."
  cooldown: 6h
- name: early-decline
  when: trend == "declining" && average >= 60
  alert_type: cognitive_decline
  severity: medium
  title: "Declining {{data_type}} scores"
  cooldown: 12h
- name: very-low-scores
  when: data_points >= 3 && recent_average < 30.0
  alert_type: urgent
  severity: critical
  title: "Very low {{data_type}} scores"
  cooldown: 1h
- name: activity-drop
  when: data_type == "activity_level" && older_average - recent_average > 15.0
  alert_type: activity_change
  severity: medium
  title: "Activity level dropped"
  cooldown: 24h
`

// Parse decodes and compiles a YAML list of rules. Any invalid rule rejects the whole list.
func Parse(data []byte) ([]*Rule, error) {
	var rules []*Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %w", ErrInvalidRule, err)
	}
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r == nil {
			return nil, fmt.Errorf("%w: empty entry", ErrInvalidRule)
		}
		if err := r.Init(env); err != nil {
			return nil, err
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidRule, r.Name)
		}
		seen[r.Name] = true
	}
	return rules, nil
}

// LoadFile reads and compiles the rules in path.
func LoadFile(path string) ([]*Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %q: %w", path, err)
	}
	return Parse(data)
}

// Defaults returns the built-in rule set.
func Defaults() []*Rule {
	rules, err := Parse([]byte(defaultRules))
	if err != nil {
		panic(fmt.Sprintf("built-in rules: %v", err))
	}
	return rules
}
