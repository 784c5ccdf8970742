package model

// EventKind is the discriminant of a SourceEvent, taken from the payload's object_kind
type EventKind string

const (
	EventKindPush         EventKind = "push"
	EventKindMergeRequest EventKind = "merge_request"
	EventKindIssue        EventKind = "issue"
	EventKindPipeline     EventKind = "pipeline"
	EventKindTagPush      EventKind = "tag_push"
)

// SupportedEventKinds lists every kind that has a dedicated SourceEvent variant
var SupportedEventKinds = []EventKind{
	EventKindPush,
	EventKindMergeRequest,
	EventKindIssue,
	EventKindPipeline,
	EventKindTagPush,
}

// Project describes the project embedded in every GitLab event
type Project struct {
	ID     int64
	Name   string
	WebURL string
}

// SourceEvent is a decoded webhook payload. The set of implementations is closed:
// PushEvent, MergeRequestEvent, IssueEvent, PipelineEvent, TagPushEvent and UnsupportedEvent.
type SourceEvent interface {
	Kind() EventKind
	Accept(v EventVisitor)
}

// EventVisitor has one method per SourceEvent variant. Adding a variant adds a
// method here, so every visitor fails to build until it handles the new variant.
type EventVisitor interface {
	VisitPush(e *PushEvent)
	VisitMergeRequest(e *MergeRequestEvent)
	VisitIssue(e *IssueEvent)
	VisitPipeline(e *PipelineEvent)
	VisitTagPush(e *TagPushEvent)
	VisitUnsupported(e *UnsupportedEvent)
}

// PushEvent is a branch push
type PushEvent struct {
	Actor       string
	ProjectID   int64 // top-level project_id of the payload
	Project     Project
	Ref         string // e.g. refs/heads/main
	CommitCount int
	CheckoutSHA string
}

func (e *PushEvent) Kind() EventKind { return EventKindPush }
func (e *PushEvent) Accept(v EventVisitor) { v.VisitPush(e) }

// MergeRequestEvent is any merge request activity
type MergeRequestEvent struct {
	Actor        string
	Project      Project
	IID          int64
	Title        string
	Action       string
	SourceBranch string
	TargetBranch string
}

func (e *MergeRequestEvent) Kind() EventKind { return EventKindMergeRequest }
func (e *MergeRequestEvent) Accept(v EventVisitor) { v.VisitMergeRequest(e) }

// IssueEvent is any issue activity
type IssueEvent struct {
	Actor   string
	Project Project
	IID     int64
	Title   string
	Action  string
}

func (e *IssueEvent) Kind() EventKind { return EventKindIssue }
func (e *IssueEvent) Accept(v EventVisitor) { v.VisitIssue(e) }

// PipelineEvent is a pipeline status change
type PipelineEvent struct {
	Actor   string
	Project Project
	ID      int64
	Ref     string
	Status  string
}

func (e *PipelineEvent) Kind() EventKind { return EventKindPipeline }
func (e *PipelineEvent) Accept(v EventVisitor) { v.VisitPipeline(e) }

// TagPushEvent is a tag creation
type TagPushEvent struct {
	Actor     string
	ProjectID int64 // top-level project_id of the payload
	Project   Project
	Ref       string // e.g. refs/tags/v1.0.0
}

func (e *TagPushEvent) Kind() EventKind { return EventKindTagPush }
func (e *TagPushEvent) Accept(v EventVisitor) { v.VisitTagPush(e) }

// UnsupportedEvent carries any object_kind without a dedicated variant,
// including an empty one. It is a valid event that produces no notification.
type UnsupportedEvent struct {
	RawKind string
}

func (e *UnsupportedEvent) Kind() EventKind {
	if e == nil {
		return ""
	}
	return EventKind(e.RawKind)
}

func (e *UnsupportedEvent) Accept(v EventVisitor) { v.VisitUnsupported(e) }
