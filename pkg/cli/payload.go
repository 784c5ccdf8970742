package cli

import (
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/controller/gitlab"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func payloadFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "GitLab webhook payload JSON file (- for stdin)",
		Required:    true,
		Destination: dst,
	}
}

// loadEvent reads a webhook payload from path and decodes it
func loadEvent(path string) (model.SourceEvent, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read payload", goerr.V("path", path))
	}

	event, err := gitlab.DecodeEvent(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode payload", goerr.V("path", path))
	}
	return event, nil
}
