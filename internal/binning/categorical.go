package binning

import (
	"fmt"
	"sort"

	"scorebin/internal/data"
)

// Order fixes the initial position of each category. Merges only ever join
// positional neighbours in this order, never the statistically closest pair
// overall.
type Order int

const (
	SortedOrder Order = iota
	FirstSeenOrder
)

func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "sorted":
		return SortedOrder, nil
	case "first_seen":
		return FirstSeenOrder, nil
	}
	return SortedOrder, fmt.Errorf("binning: unknown category order %q", s)
}

// CategoricalBinner starts with one group per distinct label and merges the
// adjacent groups whose IV contributions are closest. A merged group takes
// the position of its left member and is named left + "__" + right.
type CategoricalBinner struct {
	labels   []string
	missing  []bool
	outcomes []data.Outcome
	groups   []Group
}

func NewCategoricalBinner(values []data.Value, outcomes []data.Outcome, order Order) (*CategoricalBinner, error) {
	if len(values) != len(outcomes) {
		return nil, fmt.Errorf("binning: %d values for %d outcomes", len(values), len(outcomes))
	}
	b := &CategoricalBinner{
		labels:   make([]string, len(values)),
		missing:  make([]bool, len(values)),
		outcomes: outcomes,
	}
	seen := map[string]bool{}
	var distinct []string
	for i, v := range values {
		if v.IsMissing() {
			b.missing[i] = true
			continue
		}
		b.labels[i] = v.String()
		if !seen[b.labels[i]] {
			seen[b.labels[i]] = true
			distinct = append(distinct, b.labels[i])
		}
	}
	if order == SortedOrder {
		sort.Strings(distinct)
	}
	b.groups = make([]Group, len(distinct))
	for i, l := range distinct {
		b.groups[i] = Group{Label: l, Members: []string{l}}
	}
	return b, nil
}

func (b *CategoricalBinner) Name() string { return "categorical" }

func (b *CategoricalBinner) Bins() int { return len(b.groups) }

// Limit never lets a run merge below a single group.
func (b *CategoricalBinner) Limit(max int) int {
	return min(len(b.groups)-1, max)
}

func (b *CategoricalBinner) Partition() Partition {
	return Partition{Groups: b.groups}.clone()
}

// Assign maps each row to its current group, -1 for missing values.
func (b *CategoricalBinner) Assign() []int {
	index := make(map[string]int, len(b.groups))
	for gi, g := range b.groups {
		for _, m := range g.Members {
			index[m] = gi
		}
	}
	out := make([]int, len(b.labels))
	for i, l := range b.labels {
		if b.missing[i] {
			out[i] = -1
			continue
		}
		out[i] = index[l]
	}
	return out
}

func (b *CategoricalBinner) Step(iteration int) (IterationRecord, error) {
	if len(b.groups) < 2 {
		return IterationRecord{}, fmt.Errorf("%w: iteration %d has %d group(s)", ErrExcessiveIterations, iteration, len(b.groups))
	}
	tab, err := Compute(b.Assign(), b.outcomes, len(b.groups), ByIV)
	if err != nil {
		return IterationRecord{}, fmt.Errorf("iteration %d: %w", iteration, err)
	}
	k, _ := tab.Anchor()
	rec := IterationRecord{
		Iteration: iteration,
		Partition: b.Partition(),
		Stats:     tab,
		IV:        tab.IV,
		WOE:       tab.WOE,
		Merged:    [2]int{k - 1, k},
	}
	left, right := b.groups[k-1], b.groups[k]
	members := make([]string, 0, len(left.Members)+len(right.Members))
	members = append(members, left.Members...)
	members = append(members, right.Members...)
	b.groups[k-1] = Group{Label: compositeLabel(left.Label, right.Label), Members: members}
	b.groups = append(b.groups[:k], b.groups[k+1:]...)
	return rec, nil
}
