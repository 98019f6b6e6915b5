package prcomment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-github/github"
	"github.com/stretchr/testify/require"

	"github.com/temirov/filediff/internal/prcomment"
)

const (
	testRepositoryConstant  = "octo/reports"
	testPullRequestConstant = 17
	testFirstConstant       = "s3://reports/a.txt"
	testSecondConstant      = "s3://reports/b.txt"
	testDiffConstant        = "--- a\n+++ b\n@@ -1 +1 @@\n-a\n+b"
)

type fakeIssueCommentsService struct {
	pages        [][]*github.IssueComment
	created      []string
	edited       map[int64]string
	listRequests int
}

func (service *fakeIssueCommentsService) ListComments(_ context.Context, owner string, repo string, number int, opt *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error) {
	service.listRequests++
	pageIndex := 0
	if opt != nil && opt.Page > 0 {
		pageIndex = opt.Page - 1
	}
	response := &github.Response{}
	if pageIndex+1 < len(service.pages) {
		response.NextPage = pageIndex + 2
	}
	if pageIndex >= len(service.pages) {
		return nil, response, nil
	}
	return service.pages[pageIndex], response, nil
}

func (service *fakeIssueCommentsService) CreateComment(_ context.Context, owner string, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error) {
	service.created = append(service.created, comment.GetBody())
	return comment, &github.Response{}, nil
}

func (service *fakeIssueCommentsService) EditComment(_ context.Context, owner string, repo string, commentID int64, comment *github.IssueComment) (*github.IssueComment, *github.Response, error) {
	if service.edited == nil {
		service.edited = map[int64]string{}
	}
	service.edited[commentID] = comment.GetBody()
	return comment, &github.Response{}, nil
}

func sampleComment() prcomment.Comment {
	return prcomment.Comment{
		Repository:        testRepositoryConstant,
		PullRequestNumber: testPullRequestConstant,
		First:             testFirstConstant,
		Second:            testSecondConstant,
		Format:            "text",
		Diff:              testDiffConstant,
		Added:             1,
		Removed:           1,
	}
}

func TestRenderBodyIncludesMarkersAndDiff(testInstance *testing.T) {
	body, renderError := prcomment.RenderBody(sampleComment())
	require.NoError(testInstance, renderError)
	require.Contains(testInstance, body, "## filediff report")
	require.Contains(testInstance, body, "<!-- filediff pair: "+testFirstConstant+" -> "+testSecondConstant+" -->")
	require.Contains(testInstance, body, "(TEXT): 1 added, 1 removed.")
	require.Contains(testInstance, body, "```diff\n"+testDiffConstant+"\n```")
	require.Contains(testInstance, body, "<!-- comment hash: ")

	identicalComment := sampleComment()
	identicalComment.Diff = ""
	identicalBody, identicalError := prcomment.RenderBody(identicalComment)
	require.NoError(testInstance, identicalError)
	require.Contains(testInstance, identicalBody, "are identical.")
	require.NotContains(testInstance, identicalBody, "```diff")
}

func TestPublishCreatesCommentWhenNoneExists(testInstance *testing.T) {
	service := &fakeIssueCommentsService{pages: [][]*github.IssueComment{{{ID: github.Int64(1), Body: github.String("unrelated")}}}}
	publisher := prcomment.NewPublisher(service, nil)

	outcome, publishError := publisher.Publish(context.Background(), sampleComment())
	require.NoError(testInstance, publishError)
	require.Equal(testInstance, prcomment.OutcomeCreated, outcome)
	require.Len(testInstance, service.created, 1)
	require.Empty(testInstance, service.edited)
}

func TestPublishUpdatesMatchingCommentOnLaterPage(testInstance *testing.T) {
	staleBody := "## filediff report\n<!-- filediff pair: " + testFirstConstant + " -> " + testSecondConstant + " -->\nold"
	service := &fakeIssueCommentsService{pages: [][]*github.IssueComment{
		{{ID: github.Int64(1), Body: github.String("unrelated")}},
		{{ID: github.Int64(99), Body: github.String(staleBody)}},
	}}
	publisher := prcomment.NewPublisher(service, nil)

	outcome, publishError := publisher.Publish(context.Background(), sampleComment())
	require.NoError(testInstance, publishError)
	require.Equal(testInstance, prcomment.OutcomeUpdated, outcome)
	require.Equal(testInstance, 2, service.listRequests)
	require.Contains(testInstance, service.edited, int64(99))
	require.Empty(testInstance, service.created)
}

func TestPublishSkipsUnchangedComment(testInstance *testing.T) {
	currentBody, renderError := prcomment.RenderBody(sampleComment())
	require.NoError(testInstance, renderError)

	service := &fakeIssueCommentsService{pages: [][]*github.IssueComment{{{ID: github.Int64(5), Body: github.String(currentBody)}}}}
	publisher := prcomment.NewPublisher(service, nil)

	outcome, publishError := publisher.Publish(context.Background(), sampleComment())
	require.NoError(testInstance, publishError)
	require.Equal(testInstance, prcomment.OutcomeUnchanged, outcome)
	require.Empty(testInstance, service.created)
	require.Empty(testInstance, service.edited)
}

func TestPublishValidatesTarget(testInstance *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(comment *prcomment.Comment)
		expectedError error
	}{
		{name: "missing_owner", mutate: func(comment *prcomment.Comment) { comment.Repository = "/reports" }, expectedError: prcomment.ErrInvalidRepository},
		{name: "too_many_segments", mutate: func(comment *prcomment.Comment) { comment.Repository = "a/b/c" }, expectedError: prcomment.ErrInvalidRepository},
		{name: "missing_pull_request", mutate: func(comment *prcomment.Comment) { comment.PullRequestNumber = 0 }, expectedError: prcomment.ErrInvalidPullRequest},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			comment := sampleComment()
			testCase.mutate(&comment)
			service := &fakeIssueCommentsService{}

			_, publishError := prcomment.NewPublisher(service, nil).Publish(context.Background(), comment)
			require.ErrorIs(testInstance, publishError, testCase.expectedError)
			require.Zero(testInstance, service.listRequests)
		})
	}
}

func TestRenderBodyTruncatesLongDiffs(testInstance *testing.T) {
	comment := sampleComment()
	comment.Diff = strings.Repeat("x", 70000)

	body, renderError := prcomment.RenderBody(comment)
	require.NoError(testInstance, renderError)
	require.Less(testInstance, len(body), 61000)
}
