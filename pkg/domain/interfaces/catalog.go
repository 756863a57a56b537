package interfaces

import (
	"context"

	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// Catalog is the authoritative collection of groups and graded items
type Catalog interface {
	// Load validates and replaces the whole catalog. The previous catalog is kept on failure.
	Load(ctx context.Context, groups []*model.Group) error

	GetItem(ctx context.Context, id types.ItemID) (*model.GradedItem, error)
	GetGroup(ctx context.Context, id types.GroupID) (*model.Group, error)
	GroupOf(ctx context.Context, id types.ItemID) (types.GroupID, error)
	ListGroups(ctx context.Context) ([]*model.Group, error)
	AllItems(ctx context.Context) ([]*model.GradedItem, error)

	// UpdateItem runs fn against a copy of the item under the owning group's lock and
	// keeps the copy only if fn succeeds. fn receives the owning group's ID. The returned
	// group is a snapshot taken in the same critical section, with a revision higher
	// than any earlier snapshot of that group.
	UpdateItem(ctx context.Context, id types.ItemID, fn func(groupID types.GroupID, item *model.GradedItem) error) (*model.Group, error)
}
