package slack

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ethiq/pkg/domain/interfaces"
	"github.com/secmon-lab/ethiq/pkg/domain/model"
	"github.com/secmon-lab/ethiq/pkg/utils/async"
	"github.com/slack-go/slack"
)

// Notifier posts aggregate changes to a Slack channel
type Notifier struct {
	client    interfaces.SlackClient
	channelID string
}

// NewNotifier creates a Notifier posting to channelID
func NewNotifier(client interfaces.SlackClient, channelID string) (*Notifier, error) {
	if client == nil {
		return nil, goerr.New("slack client is required")
	}
	if channelID == "" {
		return nil, goerr.New("slack channel ID is required")
	}
	return &Notifier{
		client:    client,
		channelID: channelID,
	}, nil
}

// HandleChange posts the change in the background so the caller never waits on Slack.
// It is meant to be registered as a Registry subscriber.
func (n *Notifier) HandleChange(ctx context.Context, change model.GroupChange) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		return n.Notify(ctx, change)
	})
}

// Notify posts the change synchronously
func (n *Notifier) Notify(ctx context.Context, change model.GroupChange) error {
	_, ts, err := n.client.PostMessage(ctx, n.channelID,
		slack.MsgOptionText(buildChangeText(change), false),
		slack.MsgOptionBlocks(BuildChangeBlocks(change)...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post change notification",
			goerr.V("group", change.After.GroupID),
			goerr.V("item", change.ItemID))
	}

	ctxlog.From(ctx).Debug("Change notification posted",
		"channel", n.channelID,
		"ts", ts,
		"group", change.After.GroupID)
	return nil
}
