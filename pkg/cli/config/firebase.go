package config

import (
	"github.com/m-mizutani/labpush/pkg/infra/fcm"
	"github.com/urfave/cli/v3"
)

// Firebase holds Firebase Cloud Messaging configuration
type Firebase struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string `masq:"secret"`
	ChannelID       string
}

// Flags returns CLI flags for Firebase configuration
func (c *Firebase) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firebase-project-id",
			Usage:       "Firebase project ID",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("LABPUSH_FIREBASE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firebase-credentials-file",
			Usage:       "Path to a service account JSON file. Application default credentials are used when neither file nor JSON is set",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("LABPUSH_FIREBASE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS"),
		},
		&cli.StringFlag{
			Name:        "firebase-credentials-json",
			Usage:       "Service account JSON",
			Destination: &c.CredentialsJSON,
			Sources:     cli.EnvVars("LABPUSH_FIREBASE_CREDENTIALS_JSON"),
		},
		&cli.StringFlag{
			Name:        "firebase-channel-id",
			Usage:       "Android notification channel ID",
			Value:       fcm.DefaultAndroidChannelID,
			Destination: &c.ChannelID,
			Sources:     cli.EnvVars("LABPUSH_FIREBASE_CHANNEL_ID"),
		},
	}
}

// FCMConfig converts the flags into the FCM client configuration
func (c *Firebase) FCMConfig() fcm.Config {
	cfg := fcm.Config{
		ProjectID:       c.ProjectID,
		CredentialsFile: c.CredentialsFile,
		ChannelID:       c.ChannelID,
	}
	if c.CredentialsJSON != "" {
		cfg.CredentialsJSON = []byte(c.CredentialsJSON)
	}
	return cfg
}
