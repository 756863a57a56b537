package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// FilterAll disables a category, status or grade filter
const FilterAll = "all"

// FilterSpec holds the query options applied before display. All options compose with AND.
type FilterSpec struct {
	Search   string         `json:"search,omitempty"`
	Category string         `json:"category,omitempty"` // exact match, "all" or empty disables
	Status   string         `json:"status,omitempty"`   // exact match, "all" or empty disables
	Grade    string         `json:"grade,omitempty"`    // exact match, "all" or empty disables
	Kind     types.Kind     `json:"kind,omitempty"`     // restrict to one item kind
	GroupID  *types.GroupID `json:"groupId,omitempty"`  // nil means all groups
}

// Normalize returns a copy where whitespace-only search text is emptied and therefore
// matches everything. Any other search text is kept verbatim, spaces included.
func (f FilterSpec) Normalize() FilterSpec {
	if strings.TrimSpace(f.Search) == "" {
		f.Search = ""
	}
	return f
}

// Validate rejects filter values outside the enumerated sets
func (f FilterSpec) Validate() error {
	if f.Kind != "" && !f.Kind.IsValid() {
		return goerr.Wrap(ErrInvalidFilter, "unknown kind", goerr.V("kind", f.Kind))
	}

	if isActive(f.Status) {
		status := types.Status(f.Status)
		if f.Kind != "" {
			if !LifecycleOf(f.Kind).Has(status) {
				return goerr.Wrap(ErrInvalidFilter, "status is not part of the kind's lifecycle",
					goerr.V("kind", f.Kind),
					goerr.V("status", f.Status))
			}
		} else if !IsKnownStatus(status) {
			return goerr.Wrap(ErrInvalidFilter, "unknown status", goerr.V("status", f.Status))
		}
	}

	if isActive(f.Grade) && !types.Grade(f.Grade).IsValid() {
		return goerr.Wrap(ErrInvalidFilter, "unknown grade", goerr.V("grade", f.Grade))
	}

	if f.GroupID != nil {
		if err := f.GroupID.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidFilter, "invalid group ID")
		}
	}

	return nil
}

// Match reports whether the item passes every predicate. The group restriction is
// applied by the caller, which knows the item's membership.
func (f FilterSpec) Match(item *GradedItem) bool {
	if f.Kind != "" && item.Kind != f.Kind {
		return false
	}
	if isActive(f.Category) && item.Category != f.Category {
		return false
	}
	if isActive(f.Status) && string(item.Status) != f.Status {
		return false
	}
	if isActive(f.Grade) && string(item.Grade) != f.Grade {
		return false
	}

	if strings.TrimSpace(f.Search) == "" {
		return true
	}
	search := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(string(item.ID)), search) ||
		strings.Contains(strings.ToLower(item.Name), search) ||
		strings.Contains(strings.ToLower(item.Description), search)
}

func isActive(v string) bool {
	return v != "" && v != FilterAll
}
