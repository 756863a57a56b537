package model

import (
	"slices"

	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// Lifecycle is the closed set of states for one item kind together with its transition rule
type Lifecycle struct {
	Kind   types.Kind
	States []types.Status // ordered; position is the step index for ordered kinds

	closed   map[types.Status]struct{}
	terminal map[types.Status]struct{}
	allow    func(l *Lifecycle, from, to types.Status) bool
}

var lifecycles = map[types.Kind]*Lifecycle{
	types.KindCompliance: {
		Kind: types.KindCompliance,
		States: []types.Status{
			types.StatusCompliant,
			types.StatusPartial,
			types.StatusNonCompliant,
			types.StatusNotApplicable,
		},
		// Audit findings can be corrected freely.
		allow: func(_ *Lifecycle, _, _ types.Status) bool { return true },
	},
	types.KindMitigation: {
		Kind: types.KindMitigation,
		States: []types.Status{
			types.StatusPlanned,
			types.StatusInProgress,
			types.StatusImplemented,
			types.StatusVerified,
		},
		closed: toSet(types.StatusImplemented, types.StatusVerified),
		allow: func(l *Lifecycle, from, to types.Status) bool {
			step := l.step(to) - l.step(from)
			return step == 1 || step == -1
		},
	},
	types.KindRisk: {
		Kind: types.KindRisk,
		States: []types.Status{
			types.StatusOpen,
			types.StatusMitigating,
			types.StatusResolved,
		},
		closed:   toSet(types.StatusResolved),
		terminal: toSet(types.StatusResolved),
		allow: func(l *Lifecycle, from, to types.Status) bool {
			return l.step(to) > l.step(from)
		},
	},
	types.KindAssessment: {
		Kind: types.KindAssessment,
		States: []types.Status{
			types.StatusDraft,
			types.StatusInProgress,
			types.StatusCompleted,
			types.StatusApproved,
		},
		closed:   toSet(types.StatusApproved),
		terminal: toSet(types.StatusApproved),
		allow: func(l *Lifecycle, from, to types.Status) bool {
			if from == types.StatusCompleted && to == types.StatusInProgress {
				return true
			}
			return l.step(to)-l.step(from) == 1
		},
	},
}

func toSet(states ...types.Status) map[types.Status]struct{} {
	set := make(map[types.Status]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	return set
}

// LifecycleOf returns the lifecycle for the kind, or nil if the kind is unknown
func LifecycleOf(kind types.Kind) *Lifecycle {
	return lifecycles[kind]
}

// IsKnownStatus reports whether the status belongs to any lifecycle
func IsKnownStatus(status types.Status) bool {
	for _, l := range lifecycles {
		if l.Has(status) {
			return true
		}
	}
	return false
}

// Has reports whether the status is a member of this lifecycle
func (l *Lifecycle) Has(status types.Status) bool {
	return slices.Contains(l.States, status)
}

// IsTerminal reports whether no transition may leave the status
func (l *Lifecycle) IsTerminal(status types.Status) bool {
	_, ok := l.terminal[status]
	return ok
}

// IsClosed reports whether the status counts as done for open-ratio purposes
func (l *Lifecycle) IsClosed(status types.Status) bool {
	_, ok := l.closed[status]
	return ok
}

// CanTransition reports whether moving from one status to another is legal.
// Same-state moves and states outside the lifecycle are never legal.
func (l *Lifecycle) CanTransition(from, to types.Status) bool {
	if !l.Has(from) || !l.Has(to) || from == to {
		return false
	}
	if l.IsTerminal(from) {
		return false
	}
	return l.allow(l, from, to)
}

func (l *Lifecycle) step(status types.Status) int {
	return slices.Index(l.States, status)
}
