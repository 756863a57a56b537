package interfaces

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackClient is the subset of Slack operations used to publish notifications
type SlackClient interface {
	PostMessage(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}
