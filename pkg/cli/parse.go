package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/m-mizutani/labpush/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdParse() *cli.Command {
	var (
		path    string
		useJSON bool
	)

	return &cli.Command{
		Name:  "parse",
		Usage: "Print the notification a webhook payload would produce without sending it",
		Flags: []cli.Flag{
			payloadFlag(&path),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the notification as JSON",
				Destination: &useJSON,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			event, err := loadEvent(path)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			notification := usecase.Parse(event)

			if useJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(notification); err != nil {
					return goerr.Wrap(err, "failed to encode notification")
				}
				return nil
			}

			printNotification(w, event, notification)
			return nil
		},
	}
}

func printNotification(w io.Writer, event model.SourceEvent, n *model.Notification) {
	label := color.New(color.FgCyan)
	title := color.New(color.Bold)

	if n == nil {
		color.New(color.FgYellow).Fprintf(w, "No notification for event kind %q\n", event.Kind())
		return
	}

	label.Fprint(w, "event:      ")
	fmt.Fprintln(w, n.EventType)
	label.Fprint(w, "title:      ")
	title.Fprintln(w, n.Title)
	label.Fprint(w, "message:    ")
	fmt.Fprintln(w, n.Message)
	label.Fprint(w, "repository: ")
	fmt.Fprintf(w, "%s (%s)\n", n.RepositoryName, n.RepositoryURL)

	link := n.DeepLink
	printLink := func(name string, v *int64) {
		if v != nil {
			label.Fprintf(w, "  %-18s", name+":")
			fmt.Fprintln(w, *v)
		}
	}
	label.Fprintln(w, "deep link:")
	printLink("project_id", link.ProjectID)
	printLink("issue_iid", link.IssueIID)
	printLink("merge_request_iid", link.MergeRequestIID)
	printLink("pipeline_id", link.PipelineID)
	if link.CommitSHA != nil {
		label.Fprintf(w, "  %-18s", "commit_sha:")
		fmt.Fprintln(w, *link.CommitSHA)
	}
}
