package compare

import (
	"strings"

	"github.com/temirov/filediff/internal/fetch"
)

// Configuration captures configuration values for the compare command.
type Configuration struct {
	FailOnDifference bool                             `mapstructure:"fail_on_difference" yaml:"fail_on_difference"`
	GitHubOutput     bool                             `mapstructure:"github_output" yaml:"github_output"`
	ObjectStorage    fetch.ObjectStorageConfiguration `mapstructure:"s3" yaml:"s3"`
	PullRequest      PullRequestConfiguration         `mapstructure:"pull_request" yaml:"pull_request"`
}

// PullRequestConfiguration controls publishing results as a pull request comment.
type PullRequestConfiguration struct {
	Comment    bool   `mapstructure:"comment" yaml:"comment"`
	Repository string `mapstructure:"repository" yaml:"repository"`
	Number     int    `mapstructure:"number" yaml:"number"`
}

// DefaultConfiguration provides baseline configuration values for the compare command.
func DefaultConfiguration() Configuration {
	return Configuration{
		FailOnDifference: false,
		GitHubOutput:     true,
		ObjectStorage:    fetch.ObjectStorageConfiguration{},
		PullRequest:      PullRequestConfiguration{},
	}
}

// DefaultConfigurationValues returns the defaults keyed for the configuration loader under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + ".fail_on_difference":      defaults.FailOnDifference,
		prefix + ".github_output":           defaults.GitHubOutput,
		prefix + ".s3.region":               defaults.ObjectStorage.Region,
		prefix + ".s3.endpoint":             defaults.ObjectStorage.Endpoint,
		prefix + ".s3.use_path_style":       defaults.ObjectStorage.UsePathStyle,
		prefix + ".pull_request.comment":    defaults.PullRequest.Comment,
		prefix + ".pull_request.repository": defaults.PullRequest.Repository,
		prefix + ".pull_request.number":     defaults.PullRequest.Number,
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	sanitized.ObjectStorage.Region = strings.TrimSpace(configuration.ObjectStorage.Region)
	sanitized.ObjectStorage.Endpoint = strings.TrimSpace(configuration.ObjectStorage.Endpoint)
	sanitized.PullRequest.Repository = strings.TrimSpace(configuration.PullRequest.Repository)
	if sanitized.PullRequest.Number < 0 {
		sanitized.PullRequest.Number = 0
	}
	return sanitized
}
