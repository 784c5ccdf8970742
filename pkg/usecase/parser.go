package usecase

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/labpush/pkg/domain/model"
)

const (
	branchRefPrefix = "refs/heads/"
	tagRefPrefix    = "refs/tags/"
)

// Parse converts a source event into a notification. It returns nil for event
// kinds that do not produce a notification and for nil variants. Parse has no
// side effects and never panics on missing sub-fields; they are rendered as
// empty values.
func Parse(event model.SourceEvent) *model.Notification {
	if event == nil {
		return nil
	}

	var p parser
	event.Accept(&p)
	return p.result
}

// parser is the EventVisitor that renders each variant
type parser struct {
	result *model.Notification
}

func (p *parser) VisitPush(e *model.PushEvent) {
	if e == nil {
		return
	}

	branch := strings.TrimPrefix(e.Ref, branchRefPrefix)

	p.result = &model.Notification{
		EventType: model.EventKindPush,
		Title:     fmt.Sprintf("New push to %s", branch),
		Message: fmt.Sprintf("%s pushed %s to %s in %s",
			e.Actor, pluralize(e.CommitCount, "commit"), branch, e.Project.Name),
		RepositoryName: e.Project.Name,
		RepositoryURL:  e.Project.WebURL,
		DeepLink: model.DeepLink{
			EventType: model.EventKindPush,
			ProjectID: ptr(e.ProjectID),
			CommitSHA: ptr(e.CheckoutSHA),
		},
	}
}

func (p *parser) VisitMergeRequest(e *model.MergeRequestEvent) {
	if e == nil {
		return
	}

	var title, message string

	switch e.Action {
	case "open":
		title = "New merge request"
		message = fmt.Sprintf("%s opened merge request \"%s\" from %s to %s",
			e.Actor, e.Title, e.SourceBranch, e.TargetBranch)
	case "close":
		title = "Merge request closed"
		message = fmt.Sprintf("%s closed merge request \"%s\"", e.Actor, e.Title)
	case "merge":
		title = "Merge request merged"
		message = fmt.Sprintf("%s merged \"%s\" into %s", e.Actor, e.Title, e.TargetBranch)
	case "update":
		title = "Merge request updated"
		message = fmt.Sprintf("%s updated merge request \"%s\"", e.Actor, e.Title)
	default:
		title = "Merge request activity"
		message = fmt.Sprintf("%s %s merge request \"%s\"", e.Actor, e.Action, e.Title)
	}

	p.result = &model.Notification{
		EventType:      model.EventKindMergeRequest,
		Title:          title,
		Message:        message,
		RepositoryName: e.Project.Name,
		RepositoryURL:  e.Project.WebURL,
		DeepLink: model.DeepLink{
			EventType:       model.EventKindMergeRequest,
			ProjectID:       ptr(e.Project.ID),
			MergeRequestIID: ptr(e.IID),
		},
	}
}

func (p *parser) VisitIssue(e *model.IssueEvent) {
	if e == nil {
		return
	}

	var title, message string

	switch e.Action {
	case "open":
		title = "New issue created"
		message = fmt.Sprintf("%s created issue \"%s\"", e.Actor, e.Title)
	case "close":
		title = "Issue closed"
		message = fmt.Sprintf("%s closed issue \"%s\"", e.Actor, e.Title)
	case "reopen":
		title = "Issue reopened"
		message = fmt.Sprintf("%s reopened issue \"%s\"", e.Actor, e.Title)
	case "update":
		title = "Issue updated"
		message = fmt.Sprintf("%s updated issue \"%s\"", e.Actor, e.Title)
	default:
		title = "Issue activity"
		message = fmt.Sprintf("%s %s issue \"%s\"", e.Actor, e.Action, e.Title)
	}

	p.result = &model.Notification{
		EventType:      model.EventKindIssue,
		Title:          title,
		Message:        message,
		RepositoryName: e.Project.Name,
		RepositoryURL:  e.Project.WebURL,
		DeepLink: model.DeepLink{
			EventType: model.EventKindIssue,
			ProjectID: ptr(e.Project.ID),
			IssueIID:  ptr(e.IID),
		},
	}
}

func (p *parser) VisitPipeline(e *model.PipelineEvent) {
	if e == nil {
		return
	}

	var title, message string

	switch e.Status {
	case "success":
		title = "Pipeline succeeded"
		message = fmt.Sprintf("Pipeline for %s completed successfully", e.Ref)
	case "failed":
		title = "Pipeline failed"
		message = fmt.Sprintf("Pipeline for %s failed", e.Ref)
	case "canceled":
		title = "Pipeline canceled"
		message = fmt.Sprintf("Pipeline for %s was canceled", e.Ref)
	case "running":
		title = "Pipeline started"
		message = fmt.Sprintf("Pipeline for %s is now running", e.Ref)
	default:
		title = "Pipeline update"
		message = fmt.Sprintf("Pipeline for %s is %s", e.Ref, e.Status)
	}

	p.result = &model.Notification{
		EventType:      model.EventKindPipeline,
		Title:          title,
		Message:        message,
		RepositoryName: e.Project.Name,
		RepositoryURL:  e.Project.WebURL,
		DeepLink: model.DeepLink{
			EventType:  model.EventKindPipeline,
			ProjectID:  ptr(e.Project.ID),
			PipelineID: ptr(e.ID),
		},
	}
}

func (p *parser) VisitTagPush(e *model.TagPushEvent) {
	if e == nil {
		return
	}

	tag := strings.TrimPrefix(e.Ref, tagRefPrefix)

	p.result = &model.Notification{
		EventType:      model.EventKindTagPush,
		Title:          "New tag created",
		Message:        fmt.Sprintf("%s created tag %s in %s", e.Actor, tag, e.Project.Name),
		RepositoryName: e.Project.Name,
		RepositoryURL:  e.Project.WebURL,
		DeepLink: model.DeepLink{
			EventType: model.EventKindTagPush,
			ProjectID: ptr(e.ProjectID),
		},
	}
}

func (p *parser) VisitUnsupported(_ *model.UnsupportedEvent) {
	p.result = nil
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func ptr[T any](v T) *T {
	return &v
}
