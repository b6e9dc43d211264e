package rules

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yml
var defaultRules []byte

// Load reads a rules file from path, or the embedded defaults when path is
// empty. The returned Rules are validated and must not be mutated afterwards.
func Load(path string) (*Rules, error) {
	data := defaultRules
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules file: %w", err)
		}
		data = fileData
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	normalize(&rules)

	if err := validate(&rules); err != nil {
		if path != "" {
			return nil, fmt.Errorf("invalid rules file %s: %w", path, err)
		}
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	slog.Debug("Rules loaded",
		"skill_categories", len(rules.Skills),
		"role_rules", len(rules.Roles),
		"state_overrides", len(rules.StateOverrides))

	return &rules, nil
}

// normalize lowercases all keywords and match substrings so rule matching
// never depends on the casing used in the file.
func normalize(rules *Rules) {
	for i, category := range rules.Skills {
		for j, keyword := range category.Keywords {
			rules.Skills[i].Keywords[j] = strings.ToLower(strings.TrimSpace(keyword))
		}
	}
	for i, rule := range rules.Roles {
		for j, substr := range rule.Contains {
			rules.Roles[i].Contains[j] = strings.ToLower(strings.TrimSpace(substr))
		}
	}
	for i, keyword := range rules.Seniority.Senior {
		rules.Seniority.Senior[i] = strings.ToLower(strings.TrimSpace(keyword))
	}
	for i, keyword := range rules.Seniority.Junior {
		rules.Seniority.Junior[i] = strings.ToLower(strings.TrimSpace(keyword))
	}
}

func validate(rules *Rules) error {
	if len(rules.Skills) == 0 {
		return fmt.Errorf("at least one skill category is required")
	}

	seenCategories := make(map[string]bool)
	for i, category := range rules.Skills {
		if category.Category == "" {
			return fmt.Errorf("skill category at index %d has no name", i)
		}
		if seenCategories[category.Category] {
			return fmt.Errorf("duplicate skill category: %s", category.Category)
		}
		seenCategories[category.Category] = true

		if len(category.Keywords) == 0 {
			return fmt.Errorf("skill category %q has no keywords", category.Category)
		}
	}

	if len(rules.Roles) == 0 {
		return fmt.Errorf("at least one role rule is required")
	}
	for i, rule := range rules.Roles {
		if rule.Role == "" {
			return fmt.Errorf("role rule at index %d has no role", i)
		}
		if len(rule.Contains) == 0 {
			return fmt.Errorf("role rule %q has no match substrings", rule.Role)
		}
	}

	if len(rules.Seniority.Senior) == 0 {
		return fmt.Errorf("seniority rules must define at least one senior keyword")
	}

	return nil
}
