package prcomment

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/Masterminds/sprig/v3"
	"github.com/google/go-github/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	commentTemplateNameConstant            = "comment"
	commentHeadingConstant                 = "## filediff report"
	pairMarkerTemplateConstant             = "<!-- filediff pair: %s -> %s -->"
	hashMarkerTemplateConstant             = "<!-- comment hash: %s -->"
	repositorySeparatorConstant            = "/"
	maximumDiffCharactersConstant          = 60000
	commentsPageSizeConstant               = 100
	invalidRepositoryMessageConstant       = "repository must be in owner/name form"
	invalidRepositoryErrorTemplateConstant = "%w: %q"
	invalidPullRequestMessageConstant      = "pull request number must be positive"
	listCommentsErrorTemplateConstant      = "unable to list pull request comments: %w"
	createCommentErrorTemplateConstant     = "unable to create pull request comment: %w"
	editCommentErrorTemplateConstant       = "unable to update pull request comment: %w"
	renderCommentErrorTemplateConstant     = "unable to render pull request comment: %w"
	commentUnchangedMessageConstant        = "pull request comment unchanged"
	commentCreatedMessageConstant          = "pull request comment created"
	commentUpdatedMessageConstant          = "pull request comment updated"
	outcomeCreatedNameConstant             = "created"
	outcomeUpdatedNameConstant             = "updated"
	outcomeUnchangedNameConstant           = "unchanged"
	logFieldRepositoryConstant             = "repository"
	logFieldPullRequestConstant            = "pull_request"
	logFieldCommentIdentifierConstant      = "comment_id"
)

const commentBodyTemplate = `{{ .Heading }}
{{ .PairMarker }}
{{ if .Identical -}}
:white_check_mark: ` + "`{{ .First }}`" + ` and ` + "`{{ .Second }}`" + ` are identical.
{{- else -}}
:warning: ` + "`{{ .First }}`" + ` and ` + "`{{ .Second }}`" + ` differ ({{ .Format | upper }}){{ if or .Added .Removed }}: {{ .Added }} added, {{ .Removed }} removed{{ end }}.

<details><summary>Differences</summary>

` + "```diff" + `
{{ .Diff | trunc .DiffLimit }}
` + "```" + `

</details>
{{- end }}`

// ErrInvalidRepository indicates a repository slug that is not owner/name.
var ErrInvalidRepository = errors.New(invalidRepositoryMessageConstant)

// ErrInvalidPullRequest indicates a missing or non-positive pull request number.
var ErrInvalidPullRequest = errors.New(invalidPullRequestMessageConstant)

var commentTemplate = template.Must(template.New(commentTemplateNameConstant).Funcs(sprig.TxtFuncMap()).Parse(commentBodyTemplate))

// IssueCommentsService is the subset of the GitHub issues API used to manage comments.
type IssueCommentsService interface {
	ListComments(ctx context.Context, owner string, repo string, number int, opt *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error)
	CreateComment(ctx context.Context, owner string, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
	EditComment(ctx context.Context, owner string, repo string, commentID int64, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

var _ IssueCommentsService = (*github.IssuesService)(nil)

// Comment describes the comparison to publish.
type Comment struct {
	Repository        string
	PullRequestNumber int
	First             string
	Second            string
	Format            string
	Diff              string
	Added             int
	Removed           int
}

// Outcome reports what Publish did.
type Outcome int

// Publish outcomes.
const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeUnchanged
)

// String returns the outcome name used in logs.
func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeCreated:
		return outcomeCreatedNameConstant
	case OutcomeUpdated:
		return outcomeUpdatedNameConstant
	default:
		return outcomeUnchangedNameConstant
	}
}

// Publisher creates or updates the filediff comment on a pull request.
type Publisher struct {
	comments IssueCommentsService
	logger   *zap.Logger
}

// NewGitHubIssuesService builds an authenticated GitHub issues client for the token.
func NewGitHubIssuesService(executionContext context.Context, token string) IssueCommentsService {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(executionContext, tokenSource)).Issues
}

// NewPublisher constructs a Publisher.
func NewPublisher(comments IssueCommentsService, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{comments: comments, logger: logger}
}

// Publish renders the comment and posts it, editing an earlier comment for the same pair when one exists.
func (publisher *Publisher) Publish(executionContext context.Context, comment Comment) (Outcome, error) {
	owner, repositoryName, repositoryError := splitRepository(comment.Repository)
	if repositoryError != nil {
		return OutcomeUnchanged, repositoryError
	}
	if comment.PullRequestNumber <= 0 {
		return OutcomeUnchanged, ErrInvalidPullRequest
	}

	body, hashMarker, renderError := renderBody(comment)
	if renderError != nil {
		return OutcomeUnchanged, renderError
	}
	pairMarker := fmt.Sprintf(pairMarkerTemplateConstant, comment.First, comment.Second)

	existingComment, findError := publisher.findExistingComment(executionContext, owner, repositoryName, comment.PullRequestNumber, pairMarker)
	if findError != nil {
		return OutcomeUnchanged, findError
	}

	logFields := []zap.Field{
		zap.String(logFieldRepositoryConstant, comment.Repository),
		zap.Int(logFieldPullRequestConstant, comment.PullRequestNumber),
	}

	if existingComment == nil {
		if _, _, createError := publisher.comments.CreateComment(executionContext, owner, repositoryName, comment.PullRequestNumber, &github.IssueComment{Body: github.String(body)}); createError != nil {
			return OutcomeUnchanged, fmt.Errorf(createCommentErrorTemplateConstant, createError)
		}
		publisher.logger.Info(commentCreatedMessageConstant, logFields...)
		return OutcomeCreated, nil
	}

	logFields = append(logFields, zap.Int64(logFieldCommentIdentifierConstant, existingComment.GetID()))
	if strings.Contains(existingComment.GetBody(), hashMarker) {
		publisher.logger.Info(commentUnchangedMessageConstant, logFields...)
		return OutcomeUnchanged, nil
	}

	if _, _, editError := publisher.comments.EditComment(executionContext, owner, repositoryName, existingComment.GetID(), &github.IssueComment{Body: github.String(body)}); editError != nil {
		return OutcomeUnchanged, fmt.Errorf(editCommentErrorTemplateConstant, editError)
	}
	publisher.logger.Info(commentUpdatedMessageConstant, logFields...)
	return OutcomeUpdated, nil
}

// RenderBody renders the comment markdown, ending with a hash of the rendered content.
func RenderBody(comment Comment) (string, error) {
	body, _, renderError := renderBody(comment)
	return body, renderError
}

func renderBody(comment Comment) (string, string, error) {
	var buffer bytes.Buffer
	templateData := struct {
		Comment
		Heading    string
		PairMarker string
		Identical  bool
		DiffLimit  int
	}{
		Comment:    comment,
		Heading:    commentHeadingConstant,
		PairMarker: fmt.Sprintf(pairMarkerTemplateConstant, comment.First, comment.Second),
		Identical:  len(comment.Diff) == 0,
		DiffLimit:  maximumDiffCharactersConstant,
	}
	if executeError := commentTemplate.Execute(&buffer, templateData); executeError != nil {
		return "", "", fmt.Errorf(renderCommentErrorTemplateConstant, executeError)
	}

	renderedBody := buffer.String()
	hash := md5.Sum([]byte(renderedBody))
	hashMarker := fmt.Sprintf(hashMarkerTemplateConstant, hex.EncodeToString(hash[:]))
	return renderedBody + "\n" + hashMarker, hashMarker, nil
}

func (publisher *Publisher) findExistingComment(executionContext context.Context, owner string, repositoryName string, number int, pairMarker string) (*github.IssueComment, error) {
	listOptions := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: commentsPageSizeConstant}}
	for {
		comments, response, listError := publisher.comments.ListComments(executionContext, owner, repositoryName, number, listOptions)
		if listError != nil {
			return nil, fmt.Errorf(listCommentsErrorTemplateConstant, listError)
		}
		for _, existingComment := range comments {
			if strings.Contains(existingComment.GetBody(), pairMarker) {
				return existingComment, nil
			}
		}
		if response == nil || response.NextPage == 0 {
			return nil, nil
		}
		listOptions.Page = response.NextPage
	}
}

func splitRepository(repository string) (string, string, error) {
	segments := strings.Split(strings.TrimSpace(repository), repositorySeparatorConstant)
	if len(segments) != 2 || len(segments[0]) == 0 || len(segments[1]) == 0 {
		return "", "", fmt.Errorf(invalidRepositoryErrorTemplateConstant, ErrInvalidRepository, repository)
	}
	return segments[0], segments[1], nil
}
