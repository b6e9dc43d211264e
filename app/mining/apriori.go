package mining

import (
	"fmt"
	"sort"
	"strings"
)

// Itemset is a frequent combination of skill categories with its support,
// the fraction of postings whose tag set contains every item.
type Itemset struct {
	Items   []string
	Support float64
}

// Miner computes frequent itemsets over per-posting skill-tag sets with the
// Apriori level-wise search: candidates of size k are built from frequent
// itemsets of size k-1 and pruned by the support threshold.
type Miner struct {
	minSupport float64
}

func NewMiner(minSupport float64) *Miner {
	return &Miner{minSupport: minSupport}
}

// Run mines all itemsets meeting the support threshold. Results are ordered
// by itemset size, then by descending support, then lexicographically.
func (m *Miner) Run(transactions [][]string) ([]Itemset, error) {
	if m.minSupport <= 0 || m.minSupport > 1 {
		return nil, fmt.Errorf("min support must be in (0, 1], got %g", m.minSupport)
	}
	if len(transactions) == 0 {
		return nil, fmt.Errorf("cannot mine itemsets: no transactions")
	}

	sets := make([]map[string]bool, len(transactions))
	items := make(map[string]bool)
	for i, transaction := range transactions {
		sets[i] = make(map[string]bool, len(transaction))
		for _, item := range transaction {
			sets[i][item] = true
			items[item] = true
		}
	}

	total := float64(len(transactions))

	// Frequent 1-itemsets seed the level-wise search.
	frequent := make([][]string, 0)
	results := make([]Itemset, 0)
	for item := range items {
		support := m.support(sets, []string{item}) / total
		if support >= m.minSupport {
			frequent = append(frequent, []string{item})
			results = append(results, Itemset{Items: []string{item}, Support: support})
		}
	}

	for len(frequent) > 0 {
		candidates := m.candidates(frequent)

		next := make([][]string, 0)
		for _, candidate := range candidates {
			support := m.support(sets, candidate) / total
			if support >= m.minSupport {
				next = append(next, candidate)
				results = append(results, Itemset{Items: candidate, Support: support})
			}
		}
		frequent = next
	}

	sort.Slice(results, func(i, j int) bool {
		if len(results[i].Items) != len(results[j].Items) {
			return len(results[i].Items) < len(results[j].Items)
		}
		if results[i].Support != results[j].Support {
			return results[i].Support > results[j].Support
		}
		return strings.Join(results[i].Items, ",") < strings.Join(results[j].Items, ",")
	})

	return results, nil
}

// support counts transactions containing every item of the candidate.
func (m *Miner) support(sets []map[string]bool, candidate []string) float64 {
	count := 0
	for _, set := range sets {
		contains := true
		for _, item := range candidate {
			if !set[item] {
				contains = false
				break
			}
		}
		if contains {
			count++
		}
	}
	return float64(count)
}

// candidates joins frequent k-itemsets sharing their first k-1 items into
// k+1 candidates, the standard Apriori generation step. Itemsets are kept
// sorted so the prefix join stays valid.
func (m *Miner) candidates(frequent [][]string) [][]string {
	sorted := make([][]string, len(frequent))
	for i, itemset := range frequent {
		sorted[i] = append([]string(nil), itemset...)
		sort.Strings(sorted[i])
	}
	sort.Slice(sorted, func(i, j int) bool {
		return strings.Join(sorted[i], ",") < strings.Join(sorted[j], ",")
	})

	candidates := make([][]string, 0)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if !samePrefix(sorted[i], sorted[j]) {
				break
			}
			candidate := append(append([]string(nil), sorted[i]...), sorted[j][len(sorted[j])-1])
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

func samePrefix(a, b []string) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
