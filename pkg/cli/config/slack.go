package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	slackSvc "github.com/secmon-lab/ethiq/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds Slack notification configuration
type Slack struct {
	OAuthToken string
	ChannelID  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for posting change notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("ETHIQ_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID receiving change notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("ETHIQ_SLACK_CHANNEL"),
			Destination: &s.ChannelID,
		},
	}
}

// IsConfigured checks if Slack notifications are enabled
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.ChannelID != ""
}

// Validate rejects a half-configured Slack setup
func (s *Slack) Validate() error {
	if (s.OAuthToken == "") != (s.ChannelID == "") {
		return goerr.New("both slack-oauth-token and slack-channel are required for notifications")
	}
	return nil
}

// ConfigureOptional creates a Notifier if Slack is configured, returns nil if not
func (s *Slack) ConfigureOptional(ctx context.Context) (*slackSvc.Notifier, error) {
	logger := ctxlog.From(ctx)
	if !s.IsConfigured() {
		logger.Info("Slack not configured - change notifications are disabled")
		return nil, nil
	}

	client := slackSvc.New(s.OAuthToken)
	resp, err := client.AuthTestContext(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Slack notifications enabled",
		"team", resp.Team,
		"bot_user", resp.UserID,
		"channel", s.ChannelID)

	return slackSvc.NewNotifier(client, s.ChannelID)
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel", s.ChannelID),
	)
}
