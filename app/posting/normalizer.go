package posting

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonLetterRe = regexp.MustCompile(`[^a-zA-Z']`)

// Normalizer reduces free-text descriptions to a canonical lowercase token
// stream and removes tokens from a stoplist built out of known boilerplate
// sentences. The stoplist sentences pass through the same character
// normalization as the descriptions so the tokens line up.
type Normalizer struct {
	stoplist map[string]bool
}

func NewNormalizer(boilerplate []string) *Normalizer {
	stoplist := make(map[string]bool)
	for _, sentence := range boilerplate {
		for _, token := range tokenize(sentence) {
			stoplist[token] = true
		}
	}

	return &Normalizer{stoplist: stoplist}
}

// Run normalizes a raw description. Empty input yields an empty string.
func (n *Normalizer) Run(text string) string {
	tokens := tokenize(text)

	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if n.stoplist[token] {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}

// tokenize lowercases text, folds diacritics to their ASCII base letters,
// replaces every character outside [a-zA-Z'] with a space, and splits on
// whitespace.
func tokenize(text string) []string {
	folded := foldDiacritics(text)
	cleaned := nonLetterRe.ReplaceAllString(folded, " ")
	return strings.Fields(strings.ToLower(cleaned))
}

func foldDiacritics(text string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, text)
	if err != nil {
		return text
	}
	return folded
}
