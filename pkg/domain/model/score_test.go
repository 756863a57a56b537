package model_test

import (
	"math/rand"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

func complianceGroup(statuses ...types.Status) *model.Group {
	g := &model.Group{ID: "reg", Name: "Regulation", Kind: types.KindCompliance}
	for i, s := range statuses {
		g.Items = append(g.Items, &model.GradedItem{
			ID:     types.ItemID("REQ-" + string(rune('A'+i))),
			Kind:   types.KindCompliance,
			Name:   "Requirement",
			Status: s,
		})
	}
	return g
}

func repeat(s types.Status, n int) []types.Status {
	out := make([]types.Status, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestComplianceScore(t *testing.T) {
	t.Run("8 compliant, 2 partial, 1 non compliant, 1 not applicable", func(t *testing.T) {
		var statuses []types.Status
		statuses = append(statuses, repeat(types.StatusCompliant, 8)...)
		statuses = append(statuses, repeat(types.StatusPartial, 2)...)
		statuses = append(statuses, types.StatusNonCompliant, types.StatusNotApplicable)

		g := complianceGroup(statuses...)
		agg := model.Summarize(g)
		gt.Equal(t, agg.Total, 12)
		gt.V(t, agg.Score).NotNil()
		gt.Equal(t, *agg.Score, 82)
		gt.Nil(t, agg.OpenRatio)
	})

	t.Run("everything not applicable scores 100", func(t *testing.T) {
		g := complianceGroup(types.StatusNotApplicable, types.StatusNotApplicable)
		gt.Equal(t, model.ComplianceScore(g.Counts()), 100)
	})

	t.Run("empty group scores 100", func(t *testing.T) {
		gt.Equal(t, model.ComplianceScore(complianceGroup().Counts()), 100)
	})

	t.Run("half rounds up", func(t *testing.T) {
		// 100 * 0.5 / 4 = 12.5
		g := complianceGroup(types.StatusPartial, types.StatusNonCompliant, types.StatusNonCompliant, types.StatusNonCompliant)
		gt.Equal(t, model.ComplianceScore(g.Counts()), 13)
	})

	t.Run("hipaa seed scores 25", func(t *testing.T) {
		g := complianceGroup(types.StatusPartial, types.StatusNonCompliant, types.StatusPartial, types.StatusNonCompliant, types.StatusNotApplicable)
		gt.Equal(t, model.ComplianceScore(g.Counts()), 25)
	})
}

func TestTallyCoversLifecycle(t *testing.T) {
	g := complianceGroup(types.StatusCompliant)
	counts := g.Counts()
	gt.Equal(t, len(counts), 4)
	gt.Equal(t, counts[types.StatusCompliant], 1)
	gt.Equal(t, counts[types.StatusPartial], 0)
	gt.Equal(t, counts.Total(), 1)
}

func TestOpenRatio(t *testing.T) {
	items := []*model.GradedItem{
		{ID: "R1", Kind: types.KindRisk, Name: "a", Status: types.StatusOpen},
		{ID: "R2", Kind: types.KindRisk, Name: "b", Status: types.StatusMitigating},
		{ID: "R3", Kind: types.KindRisk, Name: "c", Status: types.StatusResolved},
		{ID: "R4", Kind: types.KindRisk, Name: "d", Status: types.StatusResolved},
	}
	g := &model.Group{ID: "risks", Name: "Risks", Kind: types.KindRisk, Items: items}

	agg := model.Summarize(g)
	gt.Nil(t, agg.Score)
	gt.V(t, agg.OpenRatio).NotNil()
	gt.Equal(t, *agg.OpenRatio, 0.5)

	empty := &model.Group{ID: "none", Name: "None", Kind: types.KindRisk}
	gt.Equal(t, *model.Summarize(empty).OpenRatio, 0.0)
}

func TestAverageImplementation(t *testing.T) {
	pct := func(v int) *int { return &v }
	g := &model.Group{ID: "privacy", Name: "Data Privacy", Kind: types.KindMitigation, Items: []*model.GradedItem{
		{ID: "M1", Kind: types.KindMitigation, Name: "a", Status: types.StatusInProgress, ImplementationPercent: pct(65)},
		{ID: "M2", Kind: types.KindMitigation, Name: "b", Status: types.StatusImplemented, ImplementationPercent: pct(100)},
		{ID: "M3", Kind: types.KindMitigation, Name: "c", Status: types.StatusPlanned, ImplementationPercent: pct(20)},
		{ID: "M4", Kind: types.KindMitigation, Name: "d", Status: types.StatusPlanned},
	}}

	agg := model.Summarize(g)
	gt.V(t, agg.AverageImplementation).NotNil()
	// (65 + 100 + 20) / 3 = 61.67
	gt.Equal(t, *agg.AverageImplementation, 62)
	// 2 planned + 1 in_progress open out of 4
	gt.Equal(t, *agg.OpenRatio, 0.75)
}

// Applying the same set of transitions in different orders must end in the same
// aggregate, and that aggregate must equal a from-scratch summary of the final items.
func TestAggregationOrderIndependent(t *testing.T) {
	start := []types.Status{
		types.StatusCompliant, types.StatusPartial, types.StatusNonCompliant,
		types.StatusNotApplicable, types.StatusPartial, types.StatusNonCompliant,
	}
	targets := []types.Status{
		types.StatusPartial, types.StatusCompliant, types.StatusCompliant,
		types.StatusCompliant, types.StatusNotApplicable, types.StatusPartial,
	}

	var reference *model.Aggregate
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		g := complianceGroup(start...)
		order := rng.Perm(len(start))

		var incremental model.Aggregate
		for _, idx := range order {
			gt.NoError(t, g.Items[idx].ApplyTransition(targets[idx], g.Items[idx].LastUpdated))
			incremental = model.Summarize(g)
			gt.Equal(t, incremental.Counts.Total(), len(g.Items))
		}

		fresh := complianceGroup(targets...)
		scratch := model.Summarize(fresh)
		gt.True(t, incremental.Equal(scratch))

		if reference == nil {
			reference = &incremental
		}
		gt.True(t, reference.Equal(incremental))
	}
}
