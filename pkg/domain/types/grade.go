package types

// Grade represents the ordinal severity or priority of an item, independent of its status
type Grade string

const (
	GradeLow      Grade = "low"
	GradeMedium   Grade = "medium"
	GradeHigh     Grade = "high"
	GradeCritical Grade = "critical"
)

// String returns the string representation of the grade
func (g Grade) String() string {
	return string(g)
}

// IsValid checks if the grade is valid
func (g Grade) IsValid() bool {
	return g.Rank() > 0
}

// Rank returns the ordinal position of the grade (low=1 .. critical=4), 0 if unknown
func (g Grade) Rank() int {
	switch g {
	case GradeLow:
		return 1
	case GradeMedium:
		return 2
	case GradeHigh:
		return 3
	case GradeCritical:
		return 4
	default:
		return 0
	}
}
