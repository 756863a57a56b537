package model

import (
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// Counts holds the number of items per lifecycle state. Every state of the
// kind's lifecycle has an entry, zero included.
type Counts map[types.Status]int

// Total returns the sum of all per-state counts
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Tally counts the items per state of the kind's lifecycle.
// Items whose status is not part of the lifecycle are not counted.
func Tally(kind types.Kind, items []*GradedItem) Counts {
	counts := Counts{}
	lc := LifecycleOf(kind)
	if lc == nil {
		return counts
	}
	for _, s := range lc.States {
		counts[s] = 0
	}
	for _, item := range items {
		if _, ok := counts[item.Status]; ok {
			counts[item.Status]++
		}
	}
	return counts
}

// ComplianceScore computes the 0-100 compliance score:
//
//	applicable = total - not_applicable
//	score = applicable == 0 ? 100 : round(100 * (compliant + 0.5*partial) / applicable)
//
// Rounding is half-up and done in integer arithmetic so the result only depends on the counts.
func ComplianceScore(c Counts) int {
	applicable := c.Total() - c[types.StatusNotApplicable]
	if applicable <= 0 {
		return 100
	}
	// 100*(compliant + partial/2)/applicable, rounded half-up
	num := 200*c[types.StatusCompliant] + 100*c[types.StatusPartial]
	return (num + applicable) / (2 * applicable)
}

// OpenRatio returns the share of items that are not yet in a closed state of the
// kind's lifecycle. An empty group has an open ratio of 0.
func OpenRatio(kind types.Kind, c Counts) float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	lc := LifecycleOf(kind)
	if lc == nil {
		return 0
	}
	open := 0
	for status, n := range c {
		if !lc.IsClosed(status) {
			open += n
		}
	}
	return float64(open) / float64(total)
}

// Aggregate is the derived summary of a group exposed to presentation layers
type Aggregate struct {
	GroupID   types.GroupID `json:"groupId"`
	GroupName string        `json:"groupName"`
	Kind      types.Kind    `json:"kind"`
	Total     int           `json:"total"`
	Counts    Counts        `json:"counts"`

	// Score is set for kinds with a not-applicable notion (compliance)
	Score *int `json:"score,omitempty"`
	// OpenRatio is set for all other kinds
	OpenRatio *float64 `json:"openRatio,omitempty"`
	// AverageImplementation is set when at least one item tracks an implementation percentage
	AverageImplementation *int `json:"averageImplementation,omitempty"`

	// Revision of the group the aggregate was computed from
	Revision uint64 `json:"revision"`
}

// Summarize computes the aggregate of a group from its items
func Summarize(g *Group) Aggregate {
	counts := g.Counts()
	agg := Aggregate{
		GroupID:   g.ID,
		GroupName: g.Name,
		Kind:      g.Kind,
		Total:     counts.Total(),
		Counts:    counts,
		Revision:  g.Revision,
	}

	if g.Kind == types.KindCompliance {
		score := ComplianceScore(counts)
		agg.Score = &score
	} else {
		ratio := OpenRatio(g.Kind, counts)
		agg.OpenRatio = &ratio
	}

	agg.AverageImplementation = averageImplementation(g.Items)
	return agg
}

func averageImplementation(items []*GradedItem) *int {
	sum, n := 0, 0
	for _, item := range items {
		if item.ImplementationPercent != nil {
			sum += *item.ImplementationPercent
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := (2*sum + n) / (2 * n)
	return &avg
}

// Equal reports whether two aggregates carry the same derived values. Revision is ignored.
func (a Aggregate) Equal(b Aggregate) bool {
	if a.GroupID != b.GroupID || a.Kind != b.Kind || a.Total != b.Total || len(a.Counts) != len(b.Counts) {
		return false
	}
	for s, n := range a.Counts {
		if b.Counts[s] != n {
			return false
		}
	}
	return equalPtr(a.Score, b.Score) &&
		equalPtr(a.OpenRatio, b.OpenRatio) &&
		equalPtr(a.AverageImplementation, b.AverageImplementation)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
