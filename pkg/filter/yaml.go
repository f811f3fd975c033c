package filter

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// Rule files let operators author rule sets declaratively:
//
//	rules:
//	  - name: mute-system-noise
//	    priority: 10
//	    conditions:
//	      - field: channel
//	        operator: equals
//	        value: system
//	    actions:
//	      - type: block
//	  - name: slow-down-ideas
//	    priority: 5
//	    conditions:
//	      - field: channel
//	        operator: equals
//	        value: ideas
//	    actions:
//	      - type: delay
//	        delay: 15m
//
// Enabled defaults to true when omitted. Delays are Go duration strings.

type ruleFile struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Name       string          `yaml:"name"`
	Type       string          `yaml:"type"`
	Enabled    *bool           `yaml:"enabled"`
	Priority   int             `yaml:"priority"`
	Conditions []yamlCondition `yaml:"conditions"`
	Actions    []yamlAction    `yaml:"actions"`
}

type yamlCondition struct {
	Field         string `yaml:"field"`
	Operator      string `yaml:"operator"`
	Value         string `yaml:"value"`
	CaseSensitive bool   `yaml:"case_sensitive"`
}

type yamlAction struct {
	Type     string `yaml:"type"`
	Delay    string `yaml:"delay"`
	URL      string `yaml:"url"`
	Priority string `yaml:"priority"`
	Title    string `yaml:"title"`
	Body     string `yaml:"body"`
	Suffix   string `yaml:"suffix"`
}

// ParseRules decodes a YAML rule file into validated rules, preserving file
// order as insertion order.
func ParseRules(data []byte) ([]Rule, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, yr := range file.Rules {
		rule, err := yr.toRule()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i, yr.Name, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRulesFile reads and parses a YAML rule file from disk.
func LoadRulesFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %q: %w", path, err)
	}
	return ParseRules(data)
}

func (yr yamlRule) toRule() (Rule, error) {
	enabled := true
	if yr.Enabled != nil {
		enabled = *yr.Enabled
	}

	rule := Rule{
		Name:     yr.Name,
		Type:     yr.Type,
		Enabled:  enabled,
		Priority: yr.Priority,
	}

	for _, yc := range yr.Conditions {
		rule.Conditions = append(rule.Conditions, Condition{
			Field:         yc.Field,
			Operator:      Operator(yc.Operator),
			Value:         yc.Value,
			CaseSensitive: yc.CaseSensitive,
		})
	}

	for _, ya := range yr.Actions {
		action := Action{
			Type:     ActionType(ya.Type),
			URL:      ya.URL,
			Priority: notification.Priority(ya.Priority),
			Title:    ya.Title,
			Body:     ya.Body,
			Suffix:   ya.Suffix,
		}
		if ya.Delay != "" {
			d, err := time.ParseDuration(ya.Delay)
			if err != nil {
				return Rule{}, fmt.Errorf("invalid delay %q: %w", ya.Delay, err)
			}
			action.Delay = d
		}
		rule.Actions = append(rule.Actions, action)
	}

	if err := rule.validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}
