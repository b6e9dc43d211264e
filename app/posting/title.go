package posting

import (
	"strings"

	"github.com/lysyi3m/job-comb/app/rules"
)

// TitleClassifier maps free-text job titles to a role category and a
// seniority tier via ordered substring rules, first match wins.
type TitleClassifier struct {
	roles  []rules.RoleRule
	senior []string
	junior []string
}

func NewTitleClassifier(roleRules []rules.RoleRule, seniority rules.SeniorityRules) *TitleClassifier {
	return &TitleClassifier{
		roles:  roleRules,
		senior: seniority.Senior,
		junior: seniority.Junior,
	}
}

func (c *TitleClassifier) Role(title string) Role {
	lowered := strings.ToLower(title)

	for _, rule := range c.roles {
		for _, substr := range rule.Contains {
			if strings.Contains(lowered, substr) {
				return Role(rule.Role)
			}
		}
	}
	return RoleOther
}

func (c *TitleClassifier) Seniority(title string) Seniority {
	lowered := strings.ToLower(title)

	for _, keyword := range c.senior {
		if strings.Contains(lowered, keyword) {
			return SenioritySenior
		}
	}
	for _, keyword := range c.junior {
		if strings.Contains(lowered, keyword) {
			return SeniorityJunior
		}
	}
	return SeniorityUnspecified
}
