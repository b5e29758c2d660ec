// Package categorize implements the recipient-suggestion collaborator as a
// substring rule table loaded from YAML. Suggestions are informational;
// failures upstream simply leave rows without a suggestion.
package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps a description substring to a recipient name.
type Rule struct {
	Contains  string `yaml:"contains"`
	Recipient string `yaml:"recipient"`
}

// ruleFile is the on-disk shape of categorization-rules.yaml.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// RuleCategorizer suggests recipients via ordered, case-insensitive
// substring rules; first match wins.
type RuleCategorizer struct {
	rules []Rule
}

// New creates a RuleCategorizer from a rule slice.
func New(rules []Rule) *RuleCategorizer {
	return &RuleCategorizer{rules: rules}
}

// Load reads rules from a YAML file. A missing file yields an empty
// categorizer rather than an error.
func Load(path string) (*RuleCategorizer, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return New(rf.Rules), nil
}

// Suggest returns the recipient of the first rule whose substring appears
// in the description, or "" when nothing matches.
func (c *RuleCategorizer) Suggest(description string) (string, error) {
	lower := strings.ToLower(description)
	for _, r := range c.rules {
		if r.Contains == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(r.Contains)) {
			return r.Recipient, nil
		}
	}
	return "", nil
}
