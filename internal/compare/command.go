package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/filediff/internal/fetch"
	"github.com/temirov/filediff/internal/githubactions"
	"github.com/temirov/filediff/internal/githubauth"
	"github.com/temirov/filediff/internal/prcomment"
	"github.com/temirov/filediff/internal/utils/flags"
)

const (
	commandUseConstant                      = "compare <first> <second>"
	commandShortDescriptionConstant         = "Compare two files and print their differences"
	commandLongDescriptionConstant          = "compare detects the format of two files from their extensions (.txt, .log, .csv, .xls, .xlsx, .json, .pdf) and prints a format-aware diff followed by a GitHub Actions output marker. Each location is a local path, s3://<bucket>/<key>, or azure://<connection-string>/<container>/<blob>."
	commandExecutionErrorTemplateConstant   = "comparison failed: %w"
	commentPublishErrorTemplateConstant     = "unable to publish pull request comment: %w"
	argumentCountMessageConstant            = "compare requires exactly two file locations"
	missingGitHubTokenMessageConstant       = "pull request comments require GH_TOKEN, GITHUB_TOKEN, or GITHUB_API_TOKEN"
	expectedArgumentCountConstant           = 2
	flagFailOnDifferenceNameConstant        = "fail-on-difference"
	flagFailOnDifferenceUsageConstant       = "Exit with an error when the files differ"
	flagGitHubOutputNameConstant            = "github-output"
	flagGitHubOutputUsageConstant           = "Append step outputs to the file named by GITHUB_OUTPUT"
	flagPullRequestCommentNameConstant      = "pr-comment"
	flagPullRequestCommentUsageConstant     = "Publish the result as a pull request comment"
	flagRepositoryNameConstant              = "repository"
	flagRepositoryUsageConstant             = "Repository (owner/name) receiving the comment; defaults to GITHUB_REPOSITORY"
	flagPullRequestNameConstant             = "pull-request"
	flagPullRequestUsageConstant            = "Pull request number receiving the comment; defaults to the number in GITHUB_REF"
	flagObjectStorageRegionNameConstant     = "s3-region"
	flagObjectStorageRegionUsageConstant    = "Region used for s3:// locations"
	flagObjectStorageEndpointNameConstant   = "s3-endpoint"
	flagObjectStorageEndpointUsageConstant  = "Custom endpoint for S3 compatible storage"
	flagObjectStoragePathStyleNameConstant  = "s3-path-style"
	flagObjectStoragePathStyleUsageConstant = "Address buckets with path-style URLs"
	commentPublishedMessageConstant         = "pull request comment processed"
	logFieldOutcomeConstant                 = "outcome"
)

var (
	errInvalidArgumentCount = errors.New(argumentCountMessageConstant)
	errMissingGitHubToken   = errors.New(missingGitHubTokenMessageConstant)
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the compare configuration loaded by the application.
type ConfigurationProvider func() Configuration

// CommentPublisher posts a comparison result to a pull request.
type CommentPublisher interface {
	Publish(executionContext context.Context, comment prcomment.Comment) (prcomment.Outcome, error)
}

// CommentPublisherFactory builds a CommentPublisher authenticated with token.
type CommentPublisherFactory func(executionContext context.Context, token string, logger *zap.Logger) CommentPublisher

// Options are the resolved inputs of a single compare invocation.
type Options struct {
	FirstLocation    string
	SecondLocation   string
	FailOnDifference bool
	GitHubOutput     bool
	ObjectStorage    fetch.ObjectStorageConfiguration
	PullRequest      PullRequestConfiguration
}

// CommandBuilder assembles the compare cobra command.
type CommandBuilder struct {
	LoggerProvider          LoggerProvider
	ConfigurationProvider   ConfigurationProvider
	Fetcher                 ContentFetcher
	EnvironmentLookup       func(key string) (string, bool)
	CommentPublisherFactory CommentPublisherFactory
}

// Build constructs the compare command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultConfiguration()
	var failOnDifference, githubOutput, pullRequestComment, usePathStyle bool
	flags.AddToggleFlag(command.Flags(), &failOnDifference, flagFailOnDifferenceNameConstant, defaults.FailOnDifference, flagFailOnDifferenceUsageConstant)
	flags.AddToggleFlag(command.Flags(), &githubOutput, flagGitHubOutputNameConstant, defaults.GitHubOutput, flagGitHubOutputUsageConstant)
	flags.AddToggleFlag(command.Flags(), &pullRequestComment, flagPullRequestCommentNameConstant, defaults.PullRequest.Comment, flagPullRequestCommentUsageConstant)
	flags.AddToggleFlag(command.Flags(), &usePathStyle, flagObjectStoragePathStyleNameConstant, defaults.ObjectStorage.UsePathStyle, flagObjectStoragePathStyleUsageConstant)
	command.Flags().String(flagRepositoryNameConstant, "", flagRepositoryUsageConstant)
	command.Flags().Int(flagPullRequestNameConstant, 0, flagPullRequestUsageConstant)
	command.Flags().String(flagObjectStorageRegionNameConstant, "", flagObjectStorageRegionUsageConstant)
	command.Flags().String(flagObjectStorageEndpointNameConstant, "", flagObjectStorageEndpointUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) != expectedArgumentCountConstant {
		return errInvalidArgumentCount
	}

	options := builder.parseOptions(command, arguments)
	logger := builder.resolveLogger()
	environment := githubactions.NewEnvironment(builder.EnvironmentLookup)

	service, serviceError := NewService(builder.resolveFetcher(options, logger), logger)
	if serviceError != nil {
		return serviceError
	}
	reporter := NewReporter(command.OutOrStdout(), builder.resolveOutputRecorder(options, environment), logger)

	result, compareError := service.Compare(command.Context(), options.FirstLocation, options.SecondLocation)
	if compareError != nil {
		rejected, reportError := reporter.ReportRejection(compareError)
		if rejected {
			return reportError
		}
		return fmt.Errorf(commandExecutionErrorTemplateConstant, compareError)
	}

	if reportError := reporter.Report(result); reportError != nil {
		return reportError
	}

	if options.PullRequest.Comment {
		if publishError := builder.publishComment(command.Context(), options, environment, result, logger); publishError != nil {
			return fmt.Errorf(commentPublishErrorTemplateConstant, publishError)
		}
	}

	if options.FailOnDifference && !result.Identical() {
		return ErrDifferencesFound
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) Options {
	configuration := builder.resolveConfiguration()
	commandFlags := command.Flags()

	options := Options{
		FirstLocation:    arguments[0],
		SecondLocation:   arguments[1],
		FailOnDifference: configuration.FailOnDifference,
		GitHubOutput:     configuration.GitHubOutput,
		ObjectStorage:    configuration.ObjectStorage,
		PullRequest:      configuration.PullRequest,
	}

	if commandFlags.Changed(flagFailOnDifferenceNameConstant) {
		options.FailOnDifference, _ = commandFlags.GetBool(flagFailOnDifferenceNameConstant)
	}
	if commandFlags.Changed(flagGitHubOutputNameConstant) {
		options.GitHubOutput, _ = commandFlags.GetBool(flagGitHubOutputNameConstant)
	}
	if commandFlags.Changed(flagPullRequestCommentNameConstant) {
		options.PullRequest.Comment, _ = commandFlags.GetBool(flagPullRequestCommentNameConstant)
	}
	if commandFlags.Changed(flagObjectStoragePathStyleNameConstant) {
		options.ObjectStorage.UsePathStyle, _ = commandFlags.GetBool(flagObjectStoragePathStyleNameConstant)
	}
	if commandFlags.Changed(flagRepositoryNameConstant) {
		repository, _ := commandFlags.GetString(flagRepositoryNameConstant)
		options.PullRequest.Repository = strings.TrimSpace(repository)
	}
	if commandFlags.Changed(flagPullRequestNameConstant) {
		options.PullRequest.Number, _ = commandFlags.GetInt(flagPullRequestNameConstant)
	}
	if commandFlags.Changed(flagObjectStorageRegionNameConstant) {
		region, _ := commandFlags.GetString(flagObjectStorageRegionNameConstant)
		options.ObjectStorage.Region = strings.TrimSpace(region)
	}
	if commandFlags.Changed(flagObjectStorageEndpointNameConstant) {
		endpoint, _ := commandFlags.GetString(flagObjectStorageEndpointNameConstant)
		options.ObjectStorage.Endpoint = strings.TrimSpace(endpoint)
	}

	return options
}

func (builder *CommandBuilder) publishComment(executionContext context.Context, options Options, environment githubactions.Environment, result Result, logger *zap.Logger) error {
	repository := options.PullRequest.Repository
	if len(repository) == 0 {
		repository, _ = environment.Repository()
	}
	pullRequestNumber := options.PullRequest.Number
	if pullRequestNumber == 0 {
		pullRequestNumber, _ = environment.PullRequestNumber()
	}

	token, tokenFound := githubauth.ResolveToken(builder.EnvironmentLookup)
	if !tokenFound {
		return errMissingGitHubToken
	}

	publisher := builder.resolveCommentPublisherFactory()(executionContext, token, logger)
	outcome, publishError := publisher.Publish(executionContext, prcomment.Comment{
		Repository:        repository,
		PullRequestNumber: pullRequestNumber,
		First:             result.First,
		Second:            result.Second,
		Format:            result.Format.String(),
		Diff:              result.Diff,
		Added:             result.Statistics.Added,
		Removed:           result.Statistics.Removed,
	})
	if publishError != nil {
		return publishError
	}

	logger.Debug(commentPublishedMessageConstant, zap.Stringer(logFieldOutcomeConstant, outcome))
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveFetcher(options Options, logger *zap.Logger) ContentFetcher {
	if builder.Fetcher != nil {
		return builder.Fetcher
	}
	return fetch.NewFetcher(
		fetch.NewObjectStorageClientFactory(options.ObjectStorage),
		fetch.NewAzureBlobStorageClient,
		nil,
		logger,
	)
}

func (builder *CommandBuilder) resolveOutputRecorder(options Options, environment githubactions.Environment) OutputRecorder {
	if !options.GitHubOutput {
		return nil
	}
	outputFilePath, available := environment.OutputFilePath()
	if !available {
		return nil
	}
	return githubactions.NewOutputFile(outputFilePath, nil)
}

func (builder *CommandBuilder) resolveCommentPublisherFactory() CommentPublisherFactory {
	if builder.CommentPublisherFactory != nil {
		return builder.CommentPublisherFactory
	}
	return func(executionContext context.Context, token string, logger *zap.Logger) CommentPublisher {
		return prcomment.NewPublisher(prcomment.NewGitHubIssuesService(executionContext, token), logger)
	}
}
