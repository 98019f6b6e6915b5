// Package githubactions publishes step outputs for GitHub Actions workflows.
//
// Outputs are written both as the legacy ::set-output workflow command on
// stdout and, when the runner provides one, to the file named by
// GITHUB_OUTPUT using the multiline delimiter syntax.
package githubactions
