package model

import (
	"maps"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// GradedItem is a single tracked unit of risk or compliance state
type GradedItem struct {
	ID          types.ItemID `json:"id" yaml:"id"`
	Kind        types.Kind   `json:"kind" yaml:"-"` // inherited from the owning group at load
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Category    string       `json:"category" yaml:"category"`
	Status      types.Status `json:"status" yaml:"status"`
	Grade       types.Grade  `json:"grade,omitempty" yaml:"grade,omitempty"`
	LastUpdated time.Time    `json:"lastUpdated" yaml:"last_updated,omitempty"`

	// Kind-specific fields carried opaquely
	AffectedData          []string          `json:"affectedData,omitempty" yaml:"affected_data,omitempty"`
	ImplementationPercent *int              `json:"implementationPercent,omitempty" yaml:"implementation,omitempty"`
	Confidence            *int              `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Owner                 string            `json:"owner,omitempty" yaml:"owner,omitempty"`
	DueDate               string            `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
	NextReview            string            `json:"nextReview,omitempty" yaml:"next_review,omitempty"`
	DetectedAt            string            `json:"detectedAt,omitempty" yaml:"detected_at,omitempty"`
	Notes                 string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	ResolutionSteps       []string          `json:"resolutionSteps,omitempty" yaml:"resolution_steps,omitempty"`
	Attributes            map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Validate validates the item against its kind's lifecycle
func (i *GradedItem) Validate() error {
	if err := i.ID.Validate(); err != nil {
		return err
	}
	if i.Name == "" {
		return goerr.New("item name is required", goerr.V("id", i.ID))
	}

	lc := LifecycleOf(i.Kind)
	if lc == nil {
		return goerr.New("invalid item kind", goerr.V("id", i.ID), goerr.V("kind", i.Kind))
	}
	if !lc.Has(i.Status) {
		return goerr.New("status is not part of the kind's lifecycle",
			goerr.V("id", i.ID),
			goerr.V("kind", i.Kind),
			goerr.V("status", i.Status))
	}

	// Grade is optional
	if i.Grade != "" && !i.Grade.IsValid() {
		return goerr.New("invalid grade", goerr.V("id", i.ID), goerr.V("grade", i.Grade))
	}

	if err := validatePercent("implementation", i.ImplementationPercent); err != nil {
		return goerr.Wrap(err, "invalid item", goerr.V("id", i.ID))
	}
	if err := validatePercent("confidence", i.Confidence); err != nil {
		return goerr.Wrap(err, "invalid item", goerr.V("id", i.ID))
	}

	return nil
}

func validatePercent(field string, v *int) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 100 {
		return goerr.New("percentage must be between 0 and 100",
			goerr.V("field", field),
			goerr.V("value", *v))
	}
	return nil
}

// TracksImplementation reports whether the item carries an implementation percentage
func (i *GradedItem) TracksImplementation() bool {
	return i.ImplementationPercent != nil
}

// Clone returns a deep copy of the item
func (i *GradedItem) Clone() *GradedItem {
	c := *i
	c.AffectedData = slices.Clone(i.AffectedData)
	c.ResolutionSteps = slices.Clone(i.ResolutionSteps)
	c.Attributes = maps.Clone(i.Attributes)
	if i.ImplementationPercent != nil {
		v := *i.ImplementationPercent
		c.ImplementationPercent = &v
	}
	if i.Confidence != nil {
		v := *i.Confidence
		c.Confidence = &v
	}
	return &c
}

// ApplyTransition moves the item to the given status if the kind's lifecycle allows it.
// On failure the item is left untouched.
func (i *GradedItem) ApplyTransition(to types.Status, now time.Time) error {
	lc := LifecycleOf(i.Kind)
	if lc == nil {
		return goerr.Wrap(ErrIllegalTransition, "unknown item kind",
			goerr.V("id", i.ID),
			goerr.V("kind", i.Kind))
	}
	if !lc.Has(to) {
		return goerr.Wrap(ErrIllegalTransition, "status is not part of the kind's lifecycle",
			goerr.V("id", i.ID),
			goerr.V("kind", i.Kind),
			goerr.V("status", to))
	}
	if !lc.CanTransition(i.Status, to) {
		return goerr.Wrap(ErrIllegalTransition, "transition not allowed",
			goerr.V("id", i.ID),
			goerr.V("kind", i.Kind),
			goerr.V("from", i.Status),
			goerr.V("to", to))
	}

	i.Status = to
	// LastUpdated never moves backwards even if the clock does
	if now.After(i.LastUpdated) {
		i.LastUpdated = now
	}

	if i.Kind == types.KindMitigation && i.TracksImplementation() &&
		(to == types.StatusImplemented || to == types.StatusVerified) {
		full := 100
		i.ImplementationPercent = &full
	}

	return nil
}
