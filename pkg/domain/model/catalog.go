package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// Catalog is the seed data consumed at load time: groups of graded items
type Catalog struct {
	Groups []*Group `yaml:"groups"`
}

// Validate validates every group and the cross-group uniqueness of item IDs
func (c *Catalog) Validate() error {
	return ValidateGroups(c.Groups)
}

// ValidateGroups validates a set of groups as a whole catalog. Every item must
// belong to exactly one group.
func ValidateGroups(groups []*Group) error {
	groupIDs := make(map[types.GroupID]bool, len(groups))
	owner := make(map[types.ItemID]types.GroupID)

	for i, g := range groups {
		if g == nil {
			return goerr.Wrap(ErrInvalidCatalog, "group is nil", goerr.V("index", i))
		}
		if err := g.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidCatalog, "invalid group",
				goerr.V("index", i),
				goerr.V("id", g.ID),
				goerr.V("reason", err.Error()))
		}
		if groupIDs[g.ID] {
			return goerr.Wrap(ErrInvalidCatalog, "duplicate group ID", goerr.V("id", g.ID))
		}
		groupIDs[g.ID] = true

		for _, item := range g.Items {
			if prev, ok := owner[item.ID]; ok {
				return goerr.Wrap(ErrInvalidCatalog, "item belongs to more than one group",
					goerr.V("item", item.ID),
					goerr.V("group", g.ID),
					goerr.V("previousGroup", prev))
			}
			owner[item.ID] = g.ID
		}
	}

	return nil
}

// ItemCount returns the number of items across all groups
func (c *Catalog) ItemCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Items)
	}
	return n
}
