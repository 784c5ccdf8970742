package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/m-mizutani/labpush/pkg/usecase"
)

var testProject = model.Project{
	ID:     15,
	Name:   "example-project",
	WebURL: "https://gitlab.example.com/group/project",
}

func TestParse_Push(t *testing.T) {
	tests := []struct {
		name        string
		ref         string
		count       int
		wantTitle   string
		wantMessage string
	}{
		{
			name:        "single commit",
			ref:         "refs/heads/master",
			count:       1,
			wantTitle:   "New push to master",
			wantMessage: "John Doe pushed 1 commit to master in example-project",
		},
		{
			name:        "multiple commits",
			ref:         "refs/heads/master",
			count:       2,
			wantTitle:   "New push to master",
			wantMessage: "John Doe pushed 2 commits to master in example-project",
		},
		{
			name:        "zero commits",
			ref:         "refs/heads/feature/login",
			count:       0,
			wantTitle:   "New push to feature/login",
			wantMessage: "John Doe pushed 0 commits to feature/login in example-project",
		},
		{
			name:        "ref without prefix",
			ref:         "main",
			count:       3,
			wantTitle:   "New push to main",
			wantMessage: "John Doe pushed 3 commits to main in example-project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := usecase.Parse(&model.PushEvent{
				Actor:       "John Doe",
				ProjectID:   15,
				Project:     testProject,
				Ref:         tt.ref,
				CommitCount: tt.count,
				CheckoutSHA: "da1560886d4f094c3e6c9ef40349f7d38b5d27d7",
			})
			gt.NotNil(t, n)
			gt.Value(t, n.EventType).Equal(model.EventKindPush)
			gt.Value(t, n.Title).Equal(tt.wantTitle)
			gt.Value(t, n.Message).Equal(tt.wantMessage)
			gt.Value(t, n.RepositoryName).Equal("example-project")
			gt.Value(t, n.RepositoryURL).Equal("https://gitlab.example.com/group/project")

			gt.Value(t, n.DeepLink.EventType).Equal(model.EventKindPush)
			gt.Value(t, *n.DeepLink.ProjectID).Equal(int64(15))
			gt.Value(t, *n.DeepLink.CommitSHA).Equal("da1560886d4f094c3e6c9ef40349f7d38b5d27d7")
			gt.Nil(t, n.DeepLink.IssueIID)
			gt.Nil(t, n.DeepLink.MergeRequestIID)
			gt.Nil(t, n.DeepLink.PipelineID)
		})
	}
}

func TestParse_MergeRequest(t *testing.T) {
	tests := []struct {
		action      string
		wantTitle   string
		wantMessage string
	}{
		{
			action:      "open",
			wantTitle:   "New merge request",
			wantMessage: `John Doe opened merge request "MS-Viewport" from ms-viewport to master`,
		},
		{
			action:      "close",
			wantTitle:   "Merge request closed",
			wantMessage: `John Doe closed merge request "MS-Viewport"`,
		},
		{
			action:      "merge",
			wantTitle:   "Merge request merged",
			wantMessage: `John Doe merged "MS-Viewport" into master`,
		},
		{
			action:      "update",
			wantTitle:   "Merge request updated",
			wantMessage: `John Doe updated merge request "MS-Viewport"`,
		},
		{
			action:      "approved",
			wantTitle:   "Merge request activity",
			wantMessage: `John Doe approved merge request "MS-Viewport"`,
		},
		{
			action:      "",
			wantTitle:   "Merge request activity",
			wantMessage: `John Doe  merge request "MS-Viewport"`,
		},
	}

	for _, tt := range tests {
		t.Run("action="+tt.action, func(t *testing.T) {
			n := usecase.Parse(&model.MergeRequestEvent{
				Actor:        "John Doe",
				Project:      testProject,
				IID:          7,
				Title:        "MS-Viewport",
				Action:       tt.action,
				SourceBranch: "ms-viewport",
				TargetBranch: "master",
			})
			gt.NotNil(t, n)
			gt.Value(t, n.EventType).Equal(model.EventKindMergeRequest)
			gt.Value(t, n.Title).Equal(tt.wantTitle)
			gt.Value(t, n.Message).Equal(tt.wantMessage)

			gt.Value(t, *n.DeepLink.ProjectID).Equal(int64(15))
			gt.Value(t, *n.DeepLink.MergeRequestIID).Equal(int64(7))
			gt.Nil(t, n.DeepLink.CommitSHA)
			gt.Nil(t, n.DeepLink.IssueIID)
		})
	}
}

func TestParse_Issue(t *testing.T) {
	tests := []struct {
		action      string
		wantTitle   string
		wantMessage string
	}{
		{action: "open", wantTitle: "New issue created", wantMessage: `Jane created issue "Crash on start"`},
		{action: "close", wantTitle: "Issue closed", wantMessage: `Jane closed issue "Crash on start"`},
		{action: "reopen", wantTitle: "Issue reopened", wantMessage: `Jane reopened issue "Crash on start"`},
		{action: "update", wantTitle: "Issue updated", wantMessage: `Jane updated issue "Crash on start"`},
		{action: "moved", wantTitle: "Issue activity", wantMessage: `Jane moved issue "Crash on start"`},
	}

	for _, tt := range tests {
		t.Run("action="+tt.action, func(t *testing.T) {
			n := usecase.Parse(&model.IssueEvent{
				Actor:   "Jane",
				Project: testProject,
				IID:     23,
				Title:   "Crash on start",
				Action:  tt.action,
			})
			gt.NotNil(t, n)
			gt.Value(t, n.EventType).Equal(model.EventKindIssue)
			gt.Value(t, n.Title).Equal(tt.wantTitle)
			gt.Value(t, n.Message).Equal(tt.wantMessage)
			gt.Value(t, *n.DeepLink.IssueIID).Equal(int64(23))
			gt.Nil(t, n.DeepLink.MergeRequestIID)
		})
	}
}

func TestParse_Pipeline(t *testing.T) {
	tests := []struct {
		status      string
		wantTitle   string
		wantMessage string
	}{
		{status: "success", wantTitle: "Pipeline succeeded", wantMessage: "Pipeline for main completed successfully"},
		{status: "failed", wantTitle: "Pipeline failed", wantMessage: "Pipeline for main failed"},
		{status: "canceled", wantTitle: "Pipeline canceled", wantMessage: "Pipeline for main was canceled"},
		{status: "running", wantTitle: "Pipeline started", wantMessage: "Pipeline for main is now running"},
		{status: "pending", wantTitle: "Pipeline update", wantMessage: "Pipeline for main is pending"},
	}

	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			n := usecase.Parse(&model.PipelineEvent{
				Actor:   "Administrator",
				Project: testProject,
				ID:      31,
				Ref:     "main",
				Status:  tt.status,
			})
			gt.NotNil(t, n)
			gt.Value(t, n.EventType).Equal(model.EventKindPipeline)
			gt.Value(t, n.Title).Equal(tt.wantTitle)
			gt.Value(t, n.Message).Equal(tt.wantMessage)
			gt.Value(t, *n.DeepLink.PipelineID).Equal(int64(31))
			gt.Value(t, *n.DeepLink.ProjectID).Equal(int64(15))
		})
	}
}

func TestParse_TagPush(t *testing.T) {
	n := usecase.Parse(&model.TagPushEvent{
		Actor:     "John Doe",
		ProjectID: 15,
		Project:   testProject,
		Ref:       "refs/tags/v1.2.0",
	})
	gt.NotNil(t, n)
	gt.Value(t, n.EventType).Equal(model.EventKindTagPush)
	gt.Value(t, n.Title).Equal("New tag created")
	gt.Value(t, n.Message).Equal("John Doe created tag v1.2.0 in example-project")
	gt.Value(t, *n.DeepLink.ProjectID).Equal(int64(15))
	gt.Nil(t, n.DeepLink.CommitSHA)
	gt.Nil(t, n.DeepLink.PipelineID)
}

func TestParse_ProjectIDSource(t *testing.T) {
	// push and tag_push use the top-level project_id, the others use project.id
	project := model.Project{ID: 2, Name: "p", WebURL: "u"}

	push := usecase.Parse(&model.PushEvent{ProjectID: 1, Project: project})
	gt.Value(t, *push.DeepLink.ProjectID).Equal(int64(1))

	tag := usecase.Parse(&model.TagPushEvent{ProjectID: 1, Project: project})
	gt.Value(t, *tag.DeepLink.ProjectID).Equal(int64(1))

	issue := usecase.Parse(&model.IssueEvent{Project: project})
	gt.Value(t, *issue.DeepLink.ProjectID).Equal(int64(2))
}

func TestParse_Unsupported(t *testing.T) {
	gt.Nil(t, usecase.Parse(&model.UnsupportedEvent{RawKind: "wiki_page"}))
	gt.Nil(t, usecase.Parse(&model.UnsupportedEvent{}))
	gt.Nil(t, usecase.Parse(nil))
}

func TestParse_TotalOnEmptyVariants(t *testing.T) {
	events := []model.SourceEvent{
		&model.PushEvent{},
		&model.MergeRequestEvent{},
		&model.IssueEvent{},
		&model.PipelineEvent{},
		&model.TagPushEvent{},
	}

	for _, ev := range events {
		t.Run(string(ev.Kind()), func(t *testing.T) {
			n := usecase.Parse(ev)
			gt.NotNil(t, n)
			gt.Value(t, n.EventType).Equal(ev.Kind())
			gt.Value(t, n.DeepLink.EventType).Equal(ev.Kind())
			gt.True(t, n.Title != "")
			gt.True(t, n.Message != "")
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	events := []model.SourceEvent{
		&model.PushEvent{Actor: "a", Ref: "refs/heads/x", CommitCount: 2, Project: testProject},
		&model.MergeRequestEvent{Actor: "a", Action: "merge", Title: "t", Project: testProject},
		&model.IssueEvent{Actor: "a", Action: "reopen", Title: "t", Project: testProject},
		&model.PipelineEvent{Ref: "main", Status: "failed", Project: testProject},
		&model.TagPushEvent{Actor: "a", Ref: "refs/tags/v1", Project: testProject},
	}

	for _, ev := range events {
		gt.Value(t, usecase.Parse(ev)).Equal(usecase.Parse(ev))
	}
}

func TestParse_NilVariants(t *testing.T) {
	events := []model.SourceEvent{
		(*model.PushEvent)(nil),
		(*model.MergeRequestEvent)(nil),
		(*model.IssueEvent)(nil),
		(*model.PipelineEvent)(nil),
		(*model.TagPushEvent)(nil),
		(*model.UnsupportedEvent)(nil),
	}

	for _, ev := range events {
		gt.Nil(t, usecase.Parse(ev))
	}
}
