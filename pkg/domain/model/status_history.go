package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/types"
)

// StatusHistory represents a status change history entry
type StatusHistory struct {
	ID        types.StatusHistoryID `json:"id"`
	ItemID    types.ItemID          `json:"itemId"`
	GroupID   types.GroupID         `json:"groupId"`
	From      types.Status          `json:"from"`
	To        types.Status          `json:"to"`
	ChangedBy string                `json:"changedBy,omitempty"`
	ChangedAt time.Time             `json:"changedAt"`
	Note      string                `json:"note,omitempty"`
}

// NewStatusHistory creates a new status history entry
func NewStatusHistory(itemID types.ItemID, groupID types.GroupID, from, to types.Status, changedBy, note string, changedAt time.Time) (*StatusHistory, error) {
	if err := itemID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid item ID")
	}
	if from == to {
		return nil, goerr.New("status history requires a change",
			goerr.V("itemID", itemID),
			goerr.V("status", to))
	}

	return &StatusHistory{
		ID:        types.NewStatusHistoryID(),
		ItemID:    itemID,
		GroupID:   groupID,
		From:      from,
		To:        to,
		ChangedBy: changedBy,
		ChangedAt: changedAt,
		Note:      note,
	}, nil
}

// GroupChange describes a committed status change and its effect on the owning group
type GroupChange struct {
	Group  *Group       `json:"group"`
	ItemID types.ItemID `json:"itemId"`
	From   types.Status `json:"from"`
	To     types.Status `json:"to"`
	Before Aggregate    `json:"before"`
	After  Aggregate    `json:"after"`
}
