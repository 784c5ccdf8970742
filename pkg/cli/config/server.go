package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr          string
	AsyncDispatch bool
	Metrics       bool
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:3000",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("LABPUSH_ADDR"),
		},
		&cli.BoolFlag{
			Name:        "async-dispatch",
			Usage:       "Respond 202 before notifications are delivered",
			Destination: &c.AsyncDispatch,
			Sources:     cli.EnvVars("LABPUSH_ASYNC_DISPATCH"),
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics at /metrics",
			Value:       true,
			Destination: &c.Metrics,
			Sources:     cli.EnvVars("LABPUSH_METRICS"),
		},
	}
}
