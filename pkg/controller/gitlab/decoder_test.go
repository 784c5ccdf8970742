package gitlab_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	gitlabcontroller "github.com/m-mizutani/labpush/pkg/controller/gitlab"
	"github.com/m-mizutani/labpush/pkg/domain/model"
)

func loadPayload(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	gt.NoError(t, err)
	return data
}

func TestDecodeEvent_Push(t *testing.T) {
	ev, err := gitlabcontroller.DecodeEvent(loadPayload(t, "push.json"))
	gt.NoError(t, err)

	push, ok := ev.(*model.PushEvent)
	gt.True(t, ok)
	gt.Value(t, push.Actor).Equal("John Smith")
	gt.Value(t, push.ProjectID).Equal(int64(15))
	gt.Value(t, push.Ref).Equal("refs/heads/master")
	gt.Value(t, push.CommitCount).Equal(4)
	gt.Value(t, push.CheckoutSHA).Equal("da1560886d4f094c3e6c9ef40349f7d38b5d27d7")
	// project descriptor, not the repository field
	gt.Value(t, push.Project.Name).Equal("Diaspora")
	gt.Value(t, push.Project.WebURL).Equal("http://example.com/mike/diaspora")
}

func TestDecodeEvent_MergeRequest(t *testing.T) {
	ev, err := gitlabcontroller.DecodeEvent(loadPayload(t, "merge_request.json"))
	gt.NoError(t, err)

	mr, ok := ev.(*model.MergeRequestEvent)
	gt.True(t, ok)
	gt.Value(t, mr.Actor).Equal("Administrator")
	gt.Value(t, mr.Project.ID).Equal(int64(1))
	gt.Value(t, mr.IID).Equal(int64(1))
	gt.Value(t, mr.Title).Equal("MS-Viewport")
	gt.Value(t, mr.Action).Equal("open")
	gt.Value(t, mr.SourceBranch).Equal("ms-viewport")
	gt.Value(t, mr.TargetBranch).Equal("master")
}

func TestDecodeEvent_Issue(t *testing.T) {
	ev, err := gitlabcontroller.DecodeEvent(loadPayload(t, "issue.json"))
	gt.NoError(t, err)

	issue, ok := ev.(*model.IssueEvent)
	gt.True(t, ok)
	gt.Value(t, issue.Actor).Equal("Administrator")
	gt.Value(t, issue.IID).Equal(int64(23))
	gt.Value(t, issue.Action).Equal("open")
}

func TestDecodeEvent_Pipeline(t *testing.T) {
	ev, err := gitlabcontroller.DecodeEvent(loadPayload(t, "pipeline.json"))
	gt.NoError(t, err)

	pipeline, ok := ev.(*model.PipelineEvent)
	gt.True(t, ok)
	gt.Value(t, pipeline.ID).Equal(int64(31))
	gt.Value(t, pipeline.Ref).Equal("main")
	gt.Value(t, pipeline.Status).Equal("success")
	gt.Value(t, pipeline.Project.Name).Equal("Gitlab Test")
}

func TestDecodeEvent_TagPush(t *testing.T) {
	ev, err := gitlabcontroller.DecodeEvent(loadPayload(t, "tag_push.json"))
	gt.NoError(t, err)

	tag, ok := ev.(*model.TagPushEvent)
	gt.True(t, ok)
	gt.Value(t, tag.Actor).Equal("John Smith")
	gt.Value(t, tag.ProjectID).Equal(int64(1))
	gt.Value(t, tag.Ref).Equal("refs/tags/v1.0.0")
}

func TestDecodeEvent_Unsupported(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		rawKind string
	}{
		{name: "wiki page", payload: loadPayload(t, "wiki_page.json"), rawKind: "wiki_page"},
		{name: "missing object_kind", payload: []byte(`{"user_name":"someone"}`), rawKind: ""},
		{name: "empty object", payload: []byte(`{}`), rawKind: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := gitlabcontroller.DecodeEvent(tt.payload)
			gt.NoError(t, err)

			unsupported, ok := ev.(*model.UnsupportedEvent)
			gt.True(t, ok)
			gt.Value(t, unsupported.RawKind).Equal(tt.rawKind)
		})
	}
}

func TestDecodeEvent_MissingSubFields(t *testing.T) {
	ev, err := gitlabcontroller.DecodeEvent([]byte(`{"object_kind":"merge_request"}`))
	gt.NoError(t, err)

	mr, ok := ev.(*model.MergeRequestEvent)
	gt.True(t, ok)
	gt.Value(t, mr.Actor).Equal("")
	gt.Value(t, mr.Title).Equal("")
}

func TestDecodeEvent_InvalidJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not JSON", payload: `object_kind=push`},
		{name: "array", payload: `[]`},
		{name: "wrong field type", payload: `{"object_kind":"push","total_commits_count":"four"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gitlabcontroller.DecodeEvent([]byte(tt.payload))
			gt.Error(t, err)
		})
	}
}
