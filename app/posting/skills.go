package posting

import (
	"sort"
	"strings"

	"github.com/lysyi3m/job-comb/app/rules"
)

// SkillExtractor scans normalized description text against the skill
// taxonomy and emits the set of matched category labels. Categories keep
// their taxonomy order internally but output is sorted for determinism.
type SkillExtractor struct {
	categories []skillCategory
}

type skillCategory struct {
	label    string
	keywords map[string]bool
}

func NewSkillExtractor(skills []rules.SkillCategory) *SkillExtractor {
	categories := make([]skillCategory, 0, len(skills))
	for _, skill := range skills {
		keywords := make(map[string]bool, len(skill.Keywords))
		for _, keyword := range skill.Keywords {
			keywords[keyword] = true
		}
		categories = append(categories, skillCategory{label: skill.Category, keywords: keywords})
	}

	return &SkillExtractor{categories: categories}
}

// Run tokenizes the normalized text and tests every token against each
// category's keyword set, both as the single token and as the previous token
// concatenated with the current one. The pair concatenation catches compound
// keywords like "businessintelligence" that appear split by whitespace in
// source text. Each matched category contributes its label once.
func (e *SkillExtractor) Run(text string) []string {
	words := strings.Fields(text)

	matched := make(map[string]bool)
	pair := ""
	for _, word := range words {
		pair += word
		for _, category := range e.categories {
			if category.keywords[word] || category.keywords[pair] {
				matched[category.label] = true
			}
		}
		pair = word
	}

	tags := make([]string, 0, len(matched))
	for label := range matched {
		tags = append(tags, label)
	}
	sort.Strings(tags)
	return tags
}
