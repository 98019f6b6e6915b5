package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/filediff/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "FILEDIFFTEST"
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testConfigurationFileNameConstant = "config.yaml"
	testLogLevelKeyConstant           = "common.log_level"
	testFailOnDifferenceKeyConstant   = "compare.fail_on_difference"
	testLogLevelEnvironmentConstant   = "FILEDIFFTEST_COMMON_LOG_LEVEL"
	testFailEnvironmentConstant       = "FILEDIFFTEST_COMPARE_FAIL_ON_DIFFERENCE"
)

type configurationFixture struct {
	Common  commonFixture  `mapstructure:"common"`
	Compare compareFixture `mapstructure:"compare"`
}

type commonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type compareFixture struct {
	FailOnDifference bool `mapstructure:"fail_on_difference"`
}

func TestConfigurationLoaderLayering(testInstance *testing.T) {
	testCases := []struct {
		name                     string
		embeddedContent          string
		fileContent              string
		environment              map[string]string
		expectedLogLevel         string
		expectedFailOnDifference bool
	}{
		{
			name:             "defaults_only",
			expectedLogLevel: "info",
		},
		{
			name:             "embedded_overrides_defaults",
			embeddedContent:  "common:\n  log_level: debug\n",
			expectedLogLevel: "debug",
		},
		{
			name:                     "file_overrides_embedded",
			embeddedContent:          "common:\n  log_level: debug\n",
			fileContent:              "common:\n  log_level: warn\ncompare:\n  fail_on_difference: true\n",
			expectedLogLevel:         "warn",
			expectedFailOnDifference: true,
		},
		{
			name:                     "environment_overrides_file",
			fileContent:              "common:\n  log_level: warn\n",
			environment:              map[string]string{testLogLevelEnvironmentConstant: "error", testFailEnvironmentConstant: "yes"},
			expectedLogLevel:         "error",
			expectedFailOnDifference: true,
		},
		{
			name:                     "toggle_literals_in_file",
			fileContent:              "compare:\n  fail_on_difference: \"on\"\n",
			expectedLogLevel:         "info",
			expectedFailOnDifference: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			temporaryDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				configurationFilePath = filepath.Join(temporaryDirectory, testConfigurationFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testCase.fileContent), 0o600))
			}
			for environmentKey, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentKey, environmentValue)
			}

			loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
			loader.SetEmbeddedConfiguration([]byte(testCase.embeddedContent), testConfigurationTypeConstant)

			defaultValues := map[string]any{
				testLogLevelKeyConstant:         "info",
				testFailOnDifferenceKeyConstant: false,
			}

			var configuration configurationFixture
			metadata, loadError := loader.LoadConfiguration(configurationFilePath, defaultValues, &configuration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, configuration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedFailOnDifference, configuration.Compare.FailOnDifference)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderSearchesPaths(testInstance *testing.T) {
	emptyDirectory := testInstance.TempDir()
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte("common:\n  log_level: debug\n"), 0o600))

	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{emptyDirectory, configurationDirectory})

	var configuration configurationFixture
	metadata, loadError := loader.LoadConfiguration("", map[string]any{testLogLevelKeyConstant: "info"}, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderReportsProblems(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	invalidTogglePath := filepath.Join(temporaryDirectory, "toggle.yaml")
	require.NoError(testInstance, os.WriteFile(invalidTogglePath, []byte("compare:\n  fail_on_difference: maybe\n"), 0o600))

	testCases := []struct {
		name                  string
		embeddedContent       string
		configurationFilePath string
	}{
		{name: "missing_explicit_file", configurationFilePath: filepath.Join(temporaryDirectory, "absent.yaml")},
		{name: "invalid_embedded_yaml", embeddedContent: "common: [unterminated"},
		{name: "invalid_toggle_literal", configurationFilePath: invalidTogglePath},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
			loader.SetEmbeddedConfiguration([]byte(testCase.embeddedContent), "")

			var configuration configurationFixture
			_, loadError := loader.LoadConfiguration(testCase.configurationFilePath, nil, &configuration)
			require.Error(testInstance, loadError)
		})
	}
}
