package types

// Kind represents the kind of a graded item. Each kind owns its own status lifecycle.
type Kind string

const (
	KindCompliance Kind = "compliance"
	KindMitigation Kind = "mitigation"
	KindRisk       Kind = "risk"
	KindAssessment Kind = "assessment"
)

// AllKinds returns every known kind in declaration order
func AllKinds() []Kind {
	return []Kind{KindCompliance, KindMitigation, KindRisk, KindAssessment}
}

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindCompliance, KindMitigation, KindRisk, KindAssessment:
		return true
	default:
		return false
	}
}
