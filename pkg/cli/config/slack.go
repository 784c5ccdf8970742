package config

import "github.com/urfave/cli/v3"

// Slack holds Slack transport configuration
type Slack struct {
	Token string `masq:"secret"`
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-token",
			Usage:       "Slack bot token. Delivery targets are channel IDs",
			Destination: &c.Token,
			Sources:     cli.EnvVars("LABPUSH_SLACK_TOKEN"),
		},
	}
}
