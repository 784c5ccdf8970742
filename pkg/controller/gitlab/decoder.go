package gitlab

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	gl "gitlab.com/gitlab-org/api/client-go"
)

// DecodeEvent decodes a GitLab webhook payload into a SourceEvent using the
// payload's object_kind as discriminant. Unknown or missing kinds decode to
// *model.UnsupportedEvent without error; only malformed JSON is an error.
func DecodeEvent(payload []byte) (model.SourceEvent, error) {
	var head struct {
		ObjectKind string `json:"object_kind"`
	}
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, goerr.Wrap(err, "invalid JSON payload")
	}

	switch model.EventKind(head.ObjectKind) {
	case model.EventKindPush:
		var e gl.PushEvent
		if err := unmarshal(payload, &e, head.ObjectKind); err != nil {
			return nil, err
		}
		return fromPushEvent(&e), nil

	case model.EventKindMergeRequest:
		var e gl.MergeEvent
		if err := unmarshal(payload, &e, head.ObjectKind); err != nil {
			return nil, err
		}
		return fromMergeEvent(&e), nil

	case model.EventKindIssue:
		var e gl.IssueEvent
		if err := unmarshal(payload, &e, head.ObjectKind); err != nil {
			return nil, err
		}
		return fromIssueEvent(&e), nil

	case model.EventKindPipeline:
		var e gl.PipelineEvent
		if err := unmarshal(payload, &e, head.ObjectKind); err != nil {
			return nil, err
		}
		return fromPipelineEvent(&e), nil

	case model.EventKindTagPush:
		var e gl.TagEvent
		if err := unmarshal(payload, &e, head.ObjectKind); err != nil {
			return nil, err
		}
		return fromTagEvent(&e), nil

	default:
		return &model.UnsupportedEvent{RawKind: head.ObjectKind}, nil
	}
}

func unmarshal(payload []byte, v any, kind string) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return goerr.Wrap(err, "invalid GitLab event payload", goerr.V("object_kind", kind))
	}
	return nil
}

func fromPushEvent(e *gl.PushEvent) *model.PushEvent {
	return &model.PushEvent{
		Actor:     e.UserName,
		ProjectID: int64(e.ProjectID),
		Project: model.Project{
			ID:     int64(e.Project.ID),
			Name:   e.Project.Name,
			WebURL: e.Project.WebURL,
		},
		Ref:         e.Ref,
		CommitCount: int(e.TotalCommitsCount),
		CheckoutSHA: e.CheckoutSHA,
	}
}

func fromMergeEvent(e *gl.MergeEvent) *model.MergeRequestEvent {
	var actor string
	if e.User != nil {
		actor = e.User.Name
	}

	return &model.MergeRequestEvent{
		Actor: actor,
		Project: model.Project{
			ID:     int64(e.Project.ID),
			Name:   e.Project.Name,
			WebURL: e.Project.WebURL,
		},
		IID:          int64(e.ObjectAttributes.IID),
		Title:        e.ObjectAttributes.Title,
		Action:       e.ObjectAttributes.Action,
		SourceBranch: e.ObjectAttributes.SourceBranch,
		TargetBranch: e.ObjectAttributes.TargetBranch,
	}
}

func fromIssueEvent(e *gl.IssueEvent) *model.IssueEvent {
	var actor string
	if e.User != nil {
		actor = e.User.Name
	}

	return &model.IssueEvent{
		Actor: actor,
		Project: model.Project{
			ID:     int64(e.Project.ID),
			Name:   e.Project.Name,
			WebURL: e.Project.WebURL,
		},
		IID:    int64(e.ObjectAttributes.IID),
		Title:  e.ObjectAttributes.Title,
		Action: e.ObjectAttributes.Action,
	}
}

func fromPipelineEvent(e *gl.PipelineEvent) *model.PipelineEvent {
	var actor string
	if e.User != nil {
		actor = e.User.Name
	}

	return &model.PipelineEvent{
		Actor: actor,
		Project: model.Project{
			ID:     int64(e.Project.ID),
			Name:   e.Project.Name,
			WebURL: e.Project.WebURL,
		},
		ID:     int64(e.ObjectAttributes.ID),
		Ref:    e.ObjectAttributes.Ref,
		Status: e.ObjectAttributes.Status,
	}
}

func fromTagEvent(e *gl.TagEvent) *model.TagPushEvent {
	return &model.TagPushEvent{
		Actor:     e.UserName,
		ProjectID: int64(e.ProjectID),
		Project: model.Project{
			ID:     int64(e.Project.ID),
			Name:   e.Project.Name,
			WebURL: e.Project.WebURL,
		},
		Ref: e.Ref,
	}
}
