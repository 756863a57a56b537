package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/interfaces"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// ChangeHandler receives a committed status change. The change is shared between
// handlers and must be treated as read-only. Concurrent changes of one group may be
// delivered out of commit order; After.Revision tells which one is newer.
type ChangeHandler func(ctx context.Context, change model.GroupChange)

type subscription struct {
	id types.SubscriptionID
	fn ChangeHandler
}

// RegistryOption is a functional option for configuring Registry
type RegistryOption func(*Registry)

// WithClock replaces the clock used to stamp transitions
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// WithObserver registers an observer notified of every accepted and rejected transition
func WithObserver(observer interfaces.TransitionObserver) RegistryOption {
	return func(r *Registry) {
		r.observer = observer
	}
}

// TransitionOption configures a single status transition
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	actor string
	note  string
}

// WithActor records who requested the transition
func WithActor(actor string) TransitionOption {
	return func(c *transitionConfig) {
		c.actor = actor
	}
}

// WithNote attaches a free-form note to the recorded transition
func WithNote(note string) TransitionOption {
	return func(c *transitionConfig) {
		c.note = note
	}
}

// Registry owns the catalog and exposes transitions, queries and aggregates
type Registry struct {
	catalog  interfaces.Catalog
	observer interfaces.TransitionObserver
	now      func() time.Time

	histMu  sync.Mutex
	history map[types.ItemID][]*model.StatusHistory

	subMu sync.RWMutex
	subs  []subscription
}

// NewRegistry creates a new Registry backed by the given catalog store
func NewRegistry(catalog interfaces.Catalog, opts ...RegistryOption) *Registry {
	r := &Registry{
		catalog: catalog,
		now:     time.Now,
		history: make(map[types.ItemID][]*model.StatusHistory),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load replaces the catalog with the given seed data and clears the recorded history
func (r *Registry) Load(ctx context.Context, catalog *model.Catalog) error {
	if catalog == nil {
		return goerr.New("catalog is nil")
	}

	if err := r.catalog.Load(ctx, catalog.Groups); err != nil {
		return goerr.Wrap(err, "failed to load catalog")
	}

	r.histMu.Lock()
	r.history = make(map[types.ItemID][]*model.StatusHistory)
	r.histMu.Unlock()

	ctxlog.From(ctx).Info("Catalog loaded",
		"groups", len(catalog.Groups),
		"items", catalog.ItemCount())
	return nil
}

// Transition moves an item to a new status. The item is left unchanged when the
// item does not exist or the kind's lifecycle does not allow the move.
func (r *Registry) Transition(ctx context.Context, itemID types.ItemID, to types.Status, opts ...TransitionOption) (*model.GradedItem, error) {
	cfg := &transitionConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var original, updated *model.GradedItem
	snapshot, err := r.catalog.UpdateItem(ctx, itemID, func(groupID types.GroupID, item *model.GradedItem) error {
		original = item.Clone()
		if err := item.ApplyTransition(to, r.now()); err != nil {
			return err
		}

		entry, err := model.NewStatusHistory(item.ID, groupID, original.Status, item.Status, cfg.actor, cfg.note, item.LastUpdated)
		if err != nil {
			return goerr.Wrap(err, "failed to create status history")
		}
		updated = item.Clone()

		// Recorded inside the group's critical section so per-item history keeps commit order
		r.histMu.Lock()
		r.history[item.ID] = append(r.history[item.ID], entry)
		r.histMu.Unlock()
		return nil
	})
	if err != nil {
		r.observeRejection(err)
		return nil, goerr.Wrap(err, "failed to transition item",
			goerr.V("itemID", itemID),
			goerr.V("to", to))
	}

	before := snapshot.Clone()
	for i, item := range before.Items {
		if item.ID == itemID {
			before.Items[i] = original
			break
		}
	}

	change := model.GroupChange{
		Group:  snapshot,
		ItemID: itemID,
		From:   original.Status,
		To:     updated.Status,
		Before: model.Summarize(before),
		After:  model.Summarize(snapshot),
	}

	if r.observer != nil {
		r.observer.ObserveTransition(updated.Kind, change.From, change.To)
	}

	ctxlog.From(ctx).Info("Item status changed",
		"item", itemID,
		"group", snapshot.ID,
		"from", change.From,
		"to", change.To,
		"actor", cfg.actor)

	r.publish(ctx, change)
	return updated, nil
}

func (r *Registry) observeRejection(err error) {
	if r.observer == nil {
		return
	}
	switch {
	case errors.Is(err, model.ErrNotFound):
		r.observer.ObserveRejection("not_found")
	case errors.Is(err, model.ErrIllegalTransition):
		r.observer.ObserveRejection("illegal_transition")
	default:
		r.observer.ObserveRejection("error")
	}
}

// Query returns the items matching the filter in the catalog's stable order
func (r *Registry) Query(ctx context.Context, spec model.FilterSpec) ([]*model.GradedItem, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var items []*model.GradedItem
	if spec.GroupID != nil {
		group, err := r.catalog.GetGroup(ctx, *spec.GroupID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get group")
		}
		items = group.Items
	} else {
		all, err := r.catalog.AllItems(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list items")
		}
		items = all
	}

	result := make([]*model.GradedItem, 0, len(items))
	for _, item := range items {
		if spec.Match(item) {
			result = append(result, item)
		}
	}
	return result, nil
}

// QueryGroups returns groups holding only their matching items. Groups without any
// match are omitted.
func (r *Registry) QueryGroups(ctx context.Context, spec model.FilterSpec) ([]*model.Group, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	groups, err := r.groups(ctx, spec.GroupID)
	if err != nil {
		return nil, err
	}

	var result []*model.Group
	for _, g := range groups {
		matched := slices.DeleteFunc(g.Items, func(item *model.GradedItem) bool {
			return !spec.Match(item)
		})
		if len(matched) == 0 {
			continue
		}
		g.Items = matched
		result = append(result, g)
	}
	return result, nil
}

// Categories returns the unique item categories in first-seen order, optionally
// restricted to one group
func (r *Registry) Categories(ctx context.Context, groupID *types.GroupID) ([]string, error) {
	groups, err := r.groups(ctx, groupID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var categories []string
	for _, g := range groups {
		for _, item := range g.Items {
			if item.Category == "" || seen[item.Category] {
				continue
			}
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories, nil
}

// History returns the recorded status changes of an item, oldest first
func (r *Registry) History(ctx context.Context, itemID types.ItemID) ([]*model.StatusHistory, error) {
	if _, err := r.catalog.GroupOf(ctx, itemID); err != nil {
		return nil, goerr.Wrap(err, "failed to get item")
	}

	r.histMu.Lock()
	defer r.histMu.Unlock()

	entries := r.history[itemID]
	result := make([]*model.StatusHistory, len(entries))
	for i, entry := range entries {
		c := *entry
		result[i] = &c
	}
	return result, nil
}

// GetItem returns a single item
func (r *Registry) GetItem(ctx context.Context, itemID types.ItemID) (*model.GradedItem, error) {
	item, err := r.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get item")
	}
	return item, nil
}

// GetGroup returns a single group with its items
func (r *Registry) GetGroup(ctx context.Context, groupID types.GroupID) (*model.Group, error) {
	group, err := r.catalog.GetGroup(ctx, groupID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get group")
	}
	return group, nil
}

// ListGroups returns every group in load order
func (r *Registry) ListGroups(ctx context.Context) ([]*model.Group, error) {
	return r.groups(ctx, nil)
}

// Score returns the derived aggregate of a group
func (r *Registry) Score(ctx context.Context, groupID types.GroupID) (*model.Aggregate, error) {
	group, err := r.catalog.GetGroup(ctx, groupID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get group")
	}
	agg := model.Summarize(group)
	return &agg, nil
}

// Overview returns the aggregates of every group in load order
func (r *Registry) Overview(ctx context.Context) ([]model.Aggregate, error) {
	groups, err := r.groups(ctx, nil)
	if err != nil {
		return nil, err
	}

	aggs := make([]model.Aggregate, len(groups))
	for i, g := range groups {
		aggs[i] = model.Summarize(g)
	}
	return aggs, nil
}

// Subscribe registers a handler invoked after every committed status change.
// Handlers run synchronously, in subscription order, outside any catalog lock.
func (r *Registry) Subscribe(fn ChangeHandler) types.SubscriptionID {
	id := types.NewSubscriptionID()

	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.subs = append(r.subs, subscription{id: id, fn: fn})
	return id
}

// Unsubscribe removes a handler. It reports whether the subscription existed.
func (r *Registry) Unsubscribe(id types.SubscriptionID) bool {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	before := len(r.subs)
	r.subs = slices.DeleteFunc(r.subs, func(s subscription) bool {
		return s.id == id
	})
	return len(r.subs) != before
}

func (r *Registry) publish(ctx context.Context, change model.GroupChange) {
	r.subMu.RLock()
	subs := slices.Clone(r.subs)
	r.subMu.RUnlock()

	for _, s := range subs {
		s.fn(ctx, change)
	}
}

func (r *Registry) groups(ctx context.Context, groupID *types.GroupID) ([]*model.Group, error) {
	if groupID == nil {
		groups, err := r.catalog.ListGroups(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list groups")
		}
		return groups, nil
	}

	group, err := r.catalog.GetGroup(ctx, *groupID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get group")
	}
	return []*model.Group{group}, nil
}
