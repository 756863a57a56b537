package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

func TestLifecycleOf(t *testing.T) {
	for _, kind := range types.AllKinds() {
		lc := model.LifecycleOf(kind)
		gt.NotNil(t, lc)
		gt.Equal(t, lc.Kind, kind)
	}
	gt.Nil(t, model.LifecycleOf(types.Kind("unknown")))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		kind types.Kind
		from types.Status
		to   types.Status
		want bool
	}{
		// compliance: any state to any other
		{"compliance partial to compliant", types.KindCompliance, types.StatusPartial, types.StatusCompliant, true},
		{"compliance compliant to non_compliant", types.KindCompliance, types.StatusCompliant, types.StatusNonCompliant, true},
		{"compliance not_applicable to partial", types.KindCompliance, types.StatusNotApplicable, types.StatusPartial, true},
		{"compliance same state", types.KindCompliance, types.StatusCompliant, types.StatusCompliant, false},
		{"compliance foreign state", types.KindCompliance, types.StatusCompliant, types.StatusResolved, false},

		// mitigation: one step either way
		{"mitigation planned to in_progress", types.KindMitigation, types.StatusPlanned, types.StatusInProgress, true},
		{"mitigation in_progress to implemented", types.KindMitigation, types.StatusInProgress, types.StatusImplemented, true},
		{"mitigation implemented to verified", types.KindMitigation, types.StatusImplemented, types.StatusVerified, true},
		{"mitigation implemented back to in_progress", types.KindMitigation, types.StatusImplemented, types.StatusInProgress, true},
		{"mitigation verified back to implemented", types.KindMitigation, types.StatusVerified, types.StatusImplemented, true},
		{"mitigation planned to implemented", types.KindMitigation, types.StatusPlanned, types.StatusImplemented, false},
		{"mitigation planned to verified", types.KindMitigation, types.StatusPlanned, types.StatusVerified, false},
		{"mitigation in_progress to verified", types.KindMitigation, types.StatusInProgress, types.StatusVerified, false},
		{"mitigation verified to planned", types.KindMitigation, types.StatusVerified, types.StatusPlanned, false},

		// risk: forward only, resolved is terminal
		{"risk open to mitigating", types.KindRisk, types.StatusOpen, types.StatusMitigating, true},
		{"risk mitigating to resolved", types.KindRisk, types.StatusMitigating, types.StatusResolved, true},
		{"risk open to resolved", types.KindRisk, types.StatusOpen, types.StatusResolved, true},
		{"risk resolved to open", types.KindRisk, types.StatusResolved, types.StatusOpen, false},
		{"risk resolved to mitigating", types.KindRisk, types.StatusResolved, types.StatusMitigating, false},
		{"risk mitigating to open", types.KindRisk, types.StatusMitigating, types.StatusOpen, false},

		// assessment: forward one step, completed may reopen, approved is terminal
		{"assessment draft to in_progress", types.KindAssessment, types.StatusDraft, types.StatusInProgress, true},
		{"assessment completed to approved", types.KindAssessment, types.StatusCompleted, types.StatusApproved, true},
		{"assessment completed to in_progress", types.KindAssessment, types.StatusCompleted, types.StatusInProgress, true},
		{"assessment draft to approved", types.KindAssessment, types.StatusDraft, types.StatusApproved, false},
		{"assessment in_progress to approved", types.KindAssessment, types.StatusInProgress, types.StatusApproved, false},
		{"assessment approved to completed", types.KindAssessment, types.StatusApproved, types.StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.LifecycleOf(tt.kind).CanTransition(tt.from, tt.to)
			if got != tt.want {
				t.Errorf("CanTransition(%s, %s -> %s) = %v, want %v", tt.kind, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestLifecycleStates(t *testing.T) {
	risk := model.LifecycleOf(types.KindRisk)
	gt.True(t, risk.IsTerminal(types.StatusResolved))
	gt.True(t, risk.IsClosed(types.StatusResolved))
	gt.False(t, risk.IsTerminal(types.StatusOpen))

	mitigation := model.LifecycleOf(types.KindMitigation)
	gt.False(t, mitigation.IsTerminal(types.StatusVerified))
	gt.True(t, mitigation.IsClosed(types.StatusImplemented))
	gt.True(t, mitigation.Has(types.StatusInProgress))
	gt.False(t, mitigation.Has(types.StatusDraft))

	gt.True(t, model.IsKnownStatus(types.StatusDraft))
	gt.False(t, model.IsKnownStatus(types.Status("archived")))
}
