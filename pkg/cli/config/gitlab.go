package config

import "github.com/urfave/cli/v3"

// GitLab holds GitLab webhook configuration
type GitLab struct {
	WebhookSecret string `masq:"secret"`
}

// Flags returns CLI flags for GitLab configuration
func (c *GitLab) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gitlab-webhook-secret",
			Usage:       "Secret token expected in X-Gitlab-Token. Empty disables the check",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("LABPUSH_GITLAB_WEBHOOK_SECRET"),
		},
	}
}
