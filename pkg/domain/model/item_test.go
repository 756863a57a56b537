package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

func intPtr(v int) *int { return &v }

func TestGradedItemValidate(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		item := &model.GradedItem{ID: "MIT-001", Kind: types.KindMitigation, Name: "Privacy by Design",
			Status: types.StatusInProgress, Grade: types.GradeHigh, ImplementationPercent: intPtr(65)}
		gt.NoError(t, item.Validate())
	})

	t.Run("error when ID is empty", func(t *testing.T) {
		item := &model.GradedItem{Kind: types.KindRisk, Name: "x", Status: types.StatusOpen}
		gt.Error(t, item.Validate())
	})

	t.Run("error when name is empty", func(t *testing.T) {
		item := &model.GradedItem{ID: "R", Kind: types.KindRisk, Status: types.StatusOpen}
		gt.Error(t, item.Validate())
	})

	t.Run("error when status belongs to another kind", func(t *testing.T) {
		item := &model.GradedItem{ID: "R", Kind: types.KindRisk, Name: "x", Status: types.StatusVerified}
		gt.Error(t, item.Validate())
	})

	t.Run("error when grade is unknown", func(t *testing.T) {
		item := &model.GradedItem{ID: "R", Kind: types.KindRisk, Name: "x", Status: types.StatusOpen, Grade: "urgent"}
		gt.Error(t, item.Validate())
	})

	t.Run("error when implementation is out of range", func(t *testing.T) {
		item := &model.GradedItem{ID: "M", Kind: types.KindMitigation, Name: "x",
			Status: types.StatusPlanned, ImplementationPercent: intPtr(101)}
		gt.Error(t, item.Validate())
	})
}

func TestApplyTransition(t *testing.T) {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("implementation snaps to 100", func(t *testing.T) {
		item := &model.GradedItem{ID: "MIT-001", Kind: types.KindMitigation, Name: "x",
			Status: types.StatusInProgress, ImplementationPercent: intPtr(65), LastUpdated: base}

		gt.NoError(t, item.ApplyTransition(types.StatusImplemented, base.Add(time.Hour)))
		gt.Equal(t, item.Status, types.StatusImplemented)
		gt.Equal(t, *item.ImplementationPercent, 100)
		gt.Equal(t, item.LastUpdated, base.Add(time.Hour))
	})

	t.Run("demotion keeps implementation", func(t *testing.T) {
		item := &model.GradedItem{ID: "MIT-002", Kind: types.KindMitigation, Name: "x",
			Status: types.StatusImplemented, ImplementationPercent: intPtr(100)}

		gt.NoError(t, item.ApplyTransition(types.StatusInProgress, base))
		gt.Equal(t, *item.ImplementationPercent, 100)
	})

	t.Run("untracked implementation stays unset", func(t *testing.T) {
		item := &model.GradedItem{ID: "MIT-010", Kind: types.KindMitigation, Name: "x", Status: types.StatusInProgress}
		gt.NoError(t, item.ApplyTransition(types.StatusImplemented, base))
		gt.Nil(t, item.ImplementationPercent)
	})

	t.Run("last updated never goes backwards", func(t *testing.T) {
		item := &model.GradedItem{ID: "GDPR-001", Kind: types.KindCompliance, Name: "x",
			Status: types.StatusPartial, LastUpdated: base}

		gt.NoError(t, item.ApplyTransition(types.StatusCompliant, base.Add(-time.Hour)))
		gt.Equal(t, item.LastUpdated, base)
	})

	t.Run("illegal transition leaves item unchanged", func(t *testing.T) {
		item := &model.GradedItem{ID: "RISK-006", Kind: types.KindRisk, Name: "x",
			Status: types.StatusResolved, LastUpdated: base}
		before := item.Clone()

		err := item.ApplyTransition(types.StatusOpen, base.Add(time.Hour))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrIllegalTransition))
		gt.Equal(t, item.Status, before.Status)
		gt.Equal(t, item.LastUpdated, before.LastUpdated)
	})

	t.Run("unknown state is illegal", func(t *testing.T) {
		item := &model.GradedItem{ID: "GDPR-001", Kind: types.KindCompliance, Name: "x", Status: types.StatusPartial}
		err := item.ApplyTransition(types.Status("waived"), base)
		gt.True(t, errors.Is(err, model.ErrIllegalTransition))
		gt.Equal(t, item.Status, types.StatusPartial)
	})
}

func TestGradedItemClone(t *testing.T) {
	item := &model.GradedItem{
		ID: "RISK-001", Kind: types.KindRisk, Name: "x", Status: types.StatusOpen,
		AffectedData: []string{"Location Data"}, Confidence: intPtr(92),
		Attributes: map[string]string{"source": "scan"},
	}
	c := item.Clone()
	c.AffectedData[0] = "changed"
	*c.Confidence = 1
	c.Attributes["source"] = "changed"

	gt.Equal(t, item.AffectedData[0], "Location Data")
	gt.Equal(t, *item.Confidence, 92)
	gt.Equal(t, item.Attributes["source"], "scan")
}

func TestGroupValidate(t *testing.T) {
	t.Run("items inherit group kind", func(t *testing.T) {
		g := &model.Group{ID: "risks", Name: "Risks", Kind: types.KindRisk, Items: []*model.GradedItem{
			{ID: "R1", Name: "x", Status: types.StatusOpen},
		}}
		gt.NoError(t, g.Validate())
		gt.Equal(t, g.Items[0].Kind, types.KindRisk)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		g := &model.Group{ID: "risks", Name: "Risks", Kind: types.KindRisk, Items: []*model.GradedItem{
			{ID: "R1", Kind: types.KindCompliance, Name: "x", Status: types.StatusCompliant},
		}}
		gt.Error(t, g.Validate())
	})

	t.Run("duplicate item", func(t *testing.T) {
		g := &model.Group{ID: "risks", Name: "Risks", Kind: types.KindRisk, Items: []*model.GradedItem{
			{ID: "R1", Name: "x", Status: types.StatusOpen},
			{ID: "R1", Name: "y", Status: types.StatusOpen},
		}}
		gt.Error(t, g.Validate())
	})

	t.Run("invalid kind", func(t *testing.T) {
		g := &model.Group{ID: "misc", Name: "Misc", Kind: "misc"}
		gt.Error(t, g.Validate())
	})
}
