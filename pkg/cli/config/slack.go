package config

import (
	"github.com/mopc-lab/expropia/pkg/service/slack"
	"github.com/mopc-lab/expropia/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for Slack notification configuration
type Slack struct {
	oauthToken string
	channelID  string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack Bot User OAuth Token for notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("EXPROPIA_SLACK_OAUTH_TOKEN"),
			Destination: &x.oauthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID for case notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("EXPROPIA_SLACK_CHANNEL_ID"),
			Destination: &x.channelID,
		},
	}
}

// IsConfigured reports whether both token and channel are set.
func (x *Slack) IsConfigured() bool {
	return x.oauthToken != "" && x.channelID != ""
}

// Configure builds the Slack service, or returns nil when not configured.
func (x *Slack) Configure() (slack.Service, error) {
	if !x.IsConfigured() {
		logging.Default().Info("Slack not configured, notifications to Slack are disabled")
		return nil, nil
	}

	svc, err := slack.New(x.oauthToken, x.channelID)
	if err != nil {
		return nil, err
	}
	logging.Default().Info("Slack notifications enabled", "channel_id", x.channelID)
	return svc, nil
}
