package types

// Status represents the lifecycle state of a graded item. A status value is only
// meaningful together with the item's Kind; membership is checked by the kind's lifecycle.
type Status string

// Compliance requirement states
const (
	StatusCompliant     Status = "compliant"
	StatusPartial       Status = "partial"
	StatusNonCompliant  Status = "non_compliant"
	StatusNotApplicable Status = "not_applicable"
)

// Mitigation strategy states
const (
	StatusPlanned     Status = "planned"
	StatusInProgress  Status = "in_progress"
	StatusImplemented Status = "implemented"
	StatusVerified    Status = "verified"
)

// Risk issue states
const (
	StatusOpen       Status = "open"
	StatusMitigating Status = "mitigating"
	StatusResolved   Status = "resolved"
)

// Impact assessment states. StatusInProgress is shared with mitigation strategies.
const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusApproved  Status = "approved"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}
