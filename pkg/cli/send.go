package cli

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/cli/config"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/m-mizutani/labpush/pkg/infra/push"
	"github.com/m-mizutani/labpush/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdSend() *cli.Command {
	var (
		path         string
		tokens       []string
		fileCfg      config.File
		transportCfg config.Transport
	)

	flags := []cli.Flag{
		payloadFlag(&path),
		&cli.StringSliceFlag{
			Name:        "token",
			Aliases:     []string{"t"},
			Usage:       "Delivery target token (repeatable)",
			Required:    true,
			Destination: &tokens,
		},
	}
	flags = append(flags, fileCfg.Flags()...)
	flags = append(flags, transportCfg.Flags()...)

	return &cli.Command{
		Name:  "send",
		Usage: "Parse a webhook payload and deliver the notification once",
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, fileCfg.Apply(c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			event, err := loadEvent(path)
			if err != nil {
				return err
			}

			factory, err := transportCfg.Factory()
			if err != nil {
				return err
			}
			handle := push.NewHandle(factory)
			if err := handle.Init(ctx); err != nil {
				return err
			}

			notification := usecase.Parse(event)
			if notification == nil {
				logger.Warn("No notification for event", slog.Any("kind", event.Kind()))
				return nil
			}

			targets := make([]model.DeliveryTarget, 0, len(tokens))
			for _, token := range tokens {
				targets = append(targets, model.DeliveryTarget{Token: token})
			}

			results := usecase.NewNotifier(handle).DispatchMany(ctx, notification, targets)

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return goerr.Wrap(err, "failed to encode results")
			}

			for i, r := range results {
				if !r.Success {
					return goerr.New("notification not delivered",
						goerr.V("target_index", i),
						goerr.V("error_kind", r.ErrorKind),
					)
				}
			}
			return nil
		},
	}
}
