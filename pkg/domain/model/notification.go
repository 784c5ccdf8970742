package model

// Notification is the normalized record every SourceEvent variant is converted into
type Notification struct {
	EventType      EventKind
	Title          string
	Message        string
	RepositoryName string
	RepositoryURL  string
	DeepLink       DeepLink
}

// DeepLink is sparse routing metadata for the receiving app. Nil fields are
// absent and must not be sent.
type DeepLink struct {
	EventType       EventKind
	ProjectID       *int64
	CommitSHA       *string
	IssueIID        *int64
	MergeRequestIID *int64
	PipelineID      *int64
}
