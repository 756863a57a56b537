package repository

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/interfaces"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// groupEntry guards one group. Mutations of the group's items and the snapshots
// taken for aggregation happen under the same lock.
type groupEntry struct {
	mu    sync.Mutex
	group *model.Group
}

type itemRef struct {
	entry *groupEntry
	index int
}

// Memory implements the Catalog interface with in-memory storage
type Memory struct {
	mu      sync.RWMutex // guards the index, not the groups themselves
	groups  []*groupEntry
	byID    map[types.GroupID]*groupEntry
	itemRef map[types.ItemID]itemRef

	// shared by all groups and never reset across loads
	revision atomic.Uint64
}

var _ interfaces.Catalog = (*Memory)(nil)

// NewMemory creates an empty in-memory catalog
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[types.GroupID]*groupEntry),
		itemRef: make(map[types.ItemID]itemRef),
	}
}

// Load validates the groups and replaces the whole catalog with copies of them
func (m *Memory) Load(ctx context.Context, groups []*model.Group) error {
	cloned := make([]*model.Group, len(groups))
	for i, g := range groups {
		if g == nil {
			return goerr.Wrap(model.ErrInvalidCatalog, "group is nil", goerr.V("index", i))
		}
		cloned[i] = g.Clone()
	}

	if err := model.ValidateGroups(cloned); err != nil {
		return err
	}

	rev := m.revision.Add(1)
	entries := make([]*groupEntry, len(cloned))
	byID := make(map[types.GroupID]*groupEntry, len(cloned))
	refs := make(map[types.ItemID]itemRef)
	for i, g := range cloned {
		g.Revision = rev
		entry := &groupEntry{group: g}
		entries[i] = entry
		byID[g.ID] = entry
		for idx, item := range g.Items {
			refs[item.ID] = itemRef{entry: entry, index: idx}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.groups = entries
	m.byID = byID
	m.itemRef = refs
	return nil
}

// GetItem retrieves a copy of an item by ID
func (m *Memory) GetItem(ctx context.Context, id types.ItemID) (*model.GradedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ref, ok := m.itemRef[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "item not found", goerr.V("id", id))
	}

	ref.entry.mu.Lock()
	defer ref.entry.mu.Unlock()

	return ref.entry.group.Items[ref.index].Clone(), nil
}

// GetGroup retrieves a copy of a group by ID
func (m *Memory) GetGroup(ctx context.Context, id types.GroupID) (*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.byID[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "group not found", goerr.V("id", id))
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.group.Clone(), nil
}

// GroupOf returns the ID of the group owning the item
func (m *Memory) GroupOf(ctx context.Context, id types.ItemID) (types.GroupID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ref, ok := m.itemRef[id]
	if !ok {
		return "", goerr.Wrap(model.ErrNotFound, "item not found", goerr.V("id", id))
	}
	// group IDs never change after load
	return ref.entry.group.ID, nil
}

// ListGroups returns copies of all groups in load order
func (m *Memory) ListGroups(ctx context.Context) ([]*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]*model.Group, 0, len(m.groups))
	for _, entry := range m.groups {
		entry.mu.Lock()
		groups = append(groups, entry.group.Clone())
		entry.mu.Unlock()
	}
	return groups, nil
}

// AllItems returns copies of every item, in group order then item order
func (m *Memory) AllItems(ctx context.Context) ([]*model.GradedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []*model.GradedItem
	for _, entry := range m.groups {
		entry.mu.Lock()
		for _, item := range entry.group.Items {
			items = append(items, item.Clone())
		}
		entry.mu.Unlock()
	}
	return items, nil
}

// UpdateItem applies fn to a copy of the item and swaps the copy in when fn succeeds.
// Every commit bumps the group's revision.
func (m *Memory) UpdateItem(ctx context.Context, id types.ItemID, fn func(groupID types.GroupID, item *model.GradedItem) error) (*model.Group, error) {
	if fn == nil {
		return nil, goerr.New("update function is nil")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ref, ok := m.itemRef[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "item not found", goerr.V("id", id))
	}

	ref.entry.mu.Lock()
	defer ref.entry.mu.Unlock()

	current := ref.entry.group.Items[ref.index]
	updated := current.Clone()
	if err := fn(ref.entry.group.ID, updated); err != nil {
		return nil, err
	}
	if updated.ID != current.ID || updated.Kind != current.Kind {
		return nil, goerr.New("item identity cannot be changed",
			goerr.V("id", current.ID),
			goerr.V("newID", updated.ID),
			goerr.V("newKind", updated.Kind))
	}

	ref.entry.group.Items[ref.index] = updated
	ref.entry.group.Revision = m.revision.Add(1)
	return ref.entry.group.Clone(), nil
}
