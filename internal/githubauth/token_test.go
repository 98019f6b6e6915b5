package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/filediff/internal/githubauth"
)

func TestResolveTokenHonorsPreferenceOrder(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedToken string
		expectedFound bool
	}{
		{
			name:          "cli_token_wins",
			environment:   map[string]string{githubauth.EnvGitHubCLIToken: "cli", githubauth.EnvGitHubToken: "actions"},
			expectedToken: "cli",
			expectedFound: true,
		},
		{
			name:          "blank_values_skipped",
			environment:   map[string]string{githubauth.EnvGitHubCLIToken: "  ", githubauth.EnvGitHubAPIToken: " api "},
			expectedToken: "api",
			expectedFound: true,
		},
		{
			name:          "nothing_configured",
			environment:   map[string]string{},
			expectedFound: false,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			token, found := githubauth.ResolveToken(func(key string) (string, bool) {
				value, exists := testCase.environment[key]
				return value, exists
			})
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedToken, token)
		})
	}
}

func TestResolveTokenReadsProcessEnvironment(testInstance *testing.T) {
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, "")
	testInstance.Setenv(githubauth.EnvGitHubToken, "from-env")

	token, found := githubauth.ResolveToken(nil)
	require.True(testInstance, found)
	require.Equal(testInstance, "from-env", token)
}
