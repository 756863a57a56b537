package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// Group is a named collection of graded items sharing a parent context,
// such as a regulation or a mitigation category
type Group struct {
	ID          types.GroupID `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        types.Kind    `json:"kind" yaml:"kind"`
	Items       []*GradedItem `json:"items" yaml:"items"` // insertion order is display order

	// Revision is assigned by the store and increases with every committed change
	Revision uint64 `json:"revision" yaml:"-"`
}

// Validate validates the group and every item in it. Items inherit the group's kind.
func (g *Group) Validate() error {
	if err := g.ID.Validate(); err != nil {
		return err
	}
	if g.Name == "" {
		return goerr.New("group name is required", goerr.V("id", g.ID))
	}
	if !g.Kind.IsValid() {
		return goerr.New("invalid group kind", goerr.V("id", g.ID), goerr.V("kind", g.Kind))
	}

	seen := make(map[types.ItemID]bool, len(g.Items))
	for idx, item := range g.Items {
		if item == nil {
			return goerr.New("item is nil", goerr.V("group", g.ID), goerr.V("index", idx))
		}
		if item.Kind != "" && item.Kind != g.Kind {
			return goerr.New("item kind does not match group kind",
				goerr.V("group", g.ID),
				goerr.V("item", item.ID),
				goerr.V("groupKind", g.Kind),
				goerr.V("itemKind", item.Kind))
		}
		item.Kind = g.Kind
		if err := item.Validate(); err != nil {
			return goerr.Wrap(err, "invalid item at index",
				goerr.V("group", g.ID),
				goerr.V("index", idx))
		}
		if seen[item.ID] {
			return goerr.New("duplicate item ID in group",
				goerr.V("group", g.ID),
				goerr.V("item", item.ID))
		}
		seen[item.ID] = true
	}

	return nil
}

// Counts derives the per-state counts from the group's items
func (g *Group) Counts() Counts {
	return Tally(g.Kind, g.Items)
}

// Clone returns a deep copy of the group
func (g *Group) Clone() *Group {
	c := *g
	c.Items = make([]*GradedItem, len(g.Items))
	for i, item := range g.Items {
		c.Items[i] = item.Clone()
	}
	return &c
}
