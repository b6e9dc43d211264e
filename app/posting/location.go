package posting

import "strings"

// LocationSplitter decomposes "City, State" strings. A small override table
// corrects known malformed entries where the state token carries an embedded
// city or country name.
type LocationSplitter struct {
	overrides map[string]string
}

func NewLocationSplitter(overrides map[string]string) *LocationSplitter {
	return &LocationSplitter{overrides: overrides}
}

// Run splits on the first ", ". Strings without a comma yield the whole
// string as city and a nil state. The override table is keyed by the raw
// state token and resolves it to a 2-letter code.
func (s *LocationSplitter) Run(text string) (string, *string) {
	city, state, found := strings.Cut(text, ", ")
	if !found {
		return text, nil
	}

	if corrected, ok := s.overrides[state]; ok {
		state = corrected
	}
	return city, &state
}
