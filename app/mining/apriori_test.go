package mining

import (
	"reflect"
	"testing"
)

func TestMinerSingleItems(t *testing.T) {
	miner := NewMiner(0.5)

	transactions := [][]string{
		{"SQL", "Statistics"},
		{"SQL"},
		{"SQL", "Business"},
		{"Business"},
	}

	itemsets, err := miner.Run(transactions)
	if err != nil {
		t.Fatalf("Mining should not fail: %v", err)
	}

	supports := make(map[string]float64)
	for _, itemset := range itemsets {
		if len(itemset.Items) == 1 {
			supports[itemset.Items[0]] = itemset.Support
		}
	}

	if supports["SQL"] != 0.75 {
		t.Errorf("Expected SQL support 0.75, got %g", supports["SQL"])
	}
	if supports["Business"] != 0.5 {
		t.Errorf("Expected Business support 0.5, got %g", supports["Business"])
	}
	if _, ok := supports["Statistics"]; ok {
		t.Error("Statistics is below the threshold and should not appear")
	}
}

func TestMinerPairs(t *testing.T) {
	miner := NewMiner(0.5)

	transactions := [][]string{
		{"SQL", "Statistics"},
		{"SQL", "Statistics"},
		{"SQL", "Statistics", "Business"},
		{"Business"},
	}

	itemsets, err := miner.Run(transactions)
	if err != nil {
		t.Fatalf("Mining should not fail: %v", err)
	}

	found := false
	for _, itemset := range itemsets {
		if reflect.DeepEqual(itemset.Items, []string{"SQL", "Statistics"}) {
			found = true
			if itemset.Support != 0.75 {
				t.Errorf("Expected pair support 0.75, got %g", itemset.Support)
			}
		}
	}
	if !found {
		t.Errorf("Expected frequent pair {SQL, Statistics}, got %v", itemsets)
	}
}

func TestMinerOrdering(t *testing.T) {
	miner := NewMiner(0.4)

	transactions := [][]string{
		{"A", "B"},
		{"A", "B"},
		{"A", "C"},
		{"B", "C"},
		{"C"},
	}

	itemsets, err := miner.Run(transactions)
	if err != nil {
		t.Fatalf("Mining should not fail: %v", err)
	}

	for i := 1; i < len(itemsets); i++ {
		prev, curr := itemsets[i-1], itemsets[i]
		if len(prev.Items) > len(curr.Items) {
			t.Fatalf("Itemsets should be ordered by size, got %v before %v", prev.Items, curr.Items)
		}
		if len(prev.Items) == len(curr.Items) && prev.Support < curr.Support {
			t.Fatalf("Equal-size itemsets should be ordered by descending support, got %v", itemsets)
		}
	}
}

func TestMinerDeterminism(t *testing.T) {
	miner := NewMiner(0.2)

	transactions := [][]string{
		{"A", "B", "C"},
		{"A", "B"},
		{"B", "C"},
		{"A", "C"},
		{"A", "B", "C"},
	}

	first, err := miner.Run(transactions)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		next, err := miner.Run(transactions)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, next) {
			t.Fatalf("Mining output changed between runs: %v vs %v", first, next)
		}
	}
}

func TestMinerEmptyTransactions(t *testing.T) {
	_, err := NewMiner(0.1).Run(nil)
	if err == nil {
		t.Error("Mining with no transactions should fail")
	}
}

func TestMinerInvalidSupport(t *testing.T) {
	for _, support := range []float64{0, -0.1, 1.5} {
		if _, err := NewMiner(support).Run([][]string{{"A"}}); err == nil {
			t.Errorf("Support %g should be rejected", support)
		}
	}
}

func TestMinerEmptyTagSetsAllowed(t *testing.T) {
	itemsets, err := NewMiner(0.5).Run([][]string{{"A"}, {}})
	if err != nil {
		t.Fatalf("Postings without tags should still count toward support: %v", err)
	}

	if len(itemsets) != 1 || itemsets[0].Support != 0.5 {
		t.Errorf("Expected single itemset {A} with support 0.5, got %v", itemsets)
	}
}
