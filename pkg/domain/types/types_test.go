package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

func TestKindValidation(t *testing.T) {
	tests := []struct {
		name     string
		kind     types.Kind
		expected bool
	}{
		{"Valid compliance", types.KindCompliance, true},
		{"Valid mitigation", types.KindMitigation, true},
		{"Valid risk", types.KindRisk, true},
		{"Valid assessment", types.KindAssessment, true},
		{"Invalid empty", types.Kind(""), false},
		{"Invalid mixed case", types.Kind("Risk"), false},
		{"Invalid unknown", types.Kind("regulation"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.kind.IsValid(); result != tt.expected {
				t.Errorf("Kind(%q).IsValid() = %v, want %v", tt.kind, result, tt.expected)
			}
		})
	}
}

func TestGradeRank(t *testing.T) {
	tests := []struct {
		grade types.Grade
		rank  int
		valid bool
	}{
		{types.GradeLow, 1, true},
		{types.GradeMedium, 2, true},
		{types.GradeHigh, 3, true},
		{types.GradeCritical, 4, true},
		{types.Grade(""), 0, false},
		{types.Grade("severe"), 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.grade), func(t *testing.T) {
			gt.Equal(t, tt.grade.Rank(), tt.rank)
			gt.Equal(t, tt.grade.IsValid(), tt.valid)
		})
	}
}

func TestIDValidate(t *testing.T) {
	gt.NoError(t, types.ItemID("GDPR-001").Validate())
	gt.Error(t, types.ItemID("").Validate())
	gt.NoError(t, types.GroupID("gdpr").Validate())
	gt.Error(t, types.GroupID("").Validate())
}

func TestNewStatusHistoryID(t *testing.T) {
	a := types.NewStatusHistoryID()
	b := types.NewStatusHistoryID()
	gt.NotEqual(t, a, b)
	gt.Equal(t, len(a.String()), 36)
}
