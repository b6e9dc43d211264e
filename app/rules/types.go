package rules

// Rules is the declarative configuration driving the posting pipeline:
// skill taxonomy, ordered job-title classification rules, seniority keyword
// tiers, state override table, and boilerplate stoplist sentences. Loaded
// once at startup and treated as read-only afterwards.

type Rules struct {
	Skills         []SkillCategory   `yaml:"skills"`
	Roles          []RoleRule        `yaml:"roles"`
	Seniority      SeniorityRules    `yaml:"seniority"`
	StateOverrides map[string]string `yaml:"state_overrides"`
	Boilerplate    []string          `yaml:"boilerplate"`
}

type SkillCategory struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// RoleRule maps title substrings to a role category. Rule order matters:
// more specific phrases must be listed before their substrings
// ("data scientist" before "scientist").
type RoleRule struct {
	Role     string   `yaml:"role"`
	Contains []string `yaml:"contains"`
}

type SeniorityRules struct {
	Senior []string `yaml:"senior"`
	Junior []string `yaml:"junior"`
}
