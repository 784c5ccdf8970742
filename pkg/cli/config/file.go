package config

import (
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// File is an optional TOML file whose top-level keys are flag names.
// A value from the file is used only when the flag was not given on the
// command line or through its environment variable.
//
//	transport = "slack"
//	slack-token = "xoxb-..."
//	async-dispatch = true
type File struct {
	Path string
}

// Flags returns CLI flags for the config file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML config file",
			Destination: &c.Path,
			Sources:     cli.EnvVars("LABPUSH_CONFIG"),
		},
	}
}

// Apply loads the file and sets every flag of cmd that is still unset
func (c *File) Apply(cmd *cli.Command) error {
	if c.Path == "" {
		return nil
	}

	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", c.Path))
	}

	values, err := ParseFile(raw)
	if err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", c.Path))
	}

	for _, flag := range cmd.Flags {
		names := flag.Names()
		if len(names) == 0 || cmd.IsSet(names[0]) {
			continue
		}
		v, ok := values[names[0]]
		if !ok {
			continue
		}
		if err := cmd.Set(names[0], v); err != nil {
			return goerr.Wrap(err, "invalid config value", goerr.V("key", names[0]))
		}
	}

	return nil
}

// ParseFile decodes a flat TOML document into flag values
func ParseFile(raw []byte) (map[string]string, error) {
	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return nil, goerr.Wrap(err, "invalid TOML")
	}

	values := make(map[string]string, len(doc))
	for key, v := range doc {
		switch v := v.(type) {
		case map[string]any, []any:
			return nil, goerr.New("config value must be a scalar", goerr.V("key", key))
		default:
			values[key] = fmt.Sprint(v)
		}
	}
	return values, nil
}
