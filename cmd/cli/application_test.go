package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdigest/cmd/cli"
	"github.com/temirov/gitdigest/internal/summarize"
)

const (
	testConfigurationFileNameConstant          = "config.yaml"
	testConfigurationSearchPathEnvironmentName = "GITDIGEST_CONFIG_SEARCH_PATH"
	testSummarizeCommandNameConstant           = "summarize"
	testConfigurationFilePermissionsConstant   = 0o600
	testConfiguredRootConstant                 = "/tmp/config-root"
	testConfiguredDateConstant                 = "last-3-days"
	testConfigurationContentConstant           = "common:\n  log_level: info\n  log_format: console\ntools:\n  summarize:\n    root: " + testConfiguredRootConstant + "\n    date: " + testConfiguredDateConstant + "\n    exclude:\n      - archive-*\n    summary:\n      endpoint: https://example.openai.azure.com/\n"
)

func writeConfigurationFile(testInstance *testing.T, directory string, content string) {
	testInstance.Helper()
	configurationPath := filepath.Join(directory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(content), testConfigurationFilePermissionsConstant))
}

func TestApplicationInitializeForCommandLoadsConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		configurationContent string
		expectedRoot         string
		expectedDate         string
		expectedLogFormat    string
		expectedExcludes     []string
		expectedEndpoint     string
	}{
		{
			name:                 "configuration_file_overrides_defaults",
			configurationContent: testConfigurationContentConstant,
			expectedRoot:         testConfiguredRootConstant,
			expectedDate:         testConfiguredDateConstant,
			expectedLogFormat:    "console",
			expectedExcludes:     []string{"archive-*"},
			expectedEndpoint:     "https://example.openai.azure.com/",
		},
		{
			name:              "embedded_defaults_apply_without_file",
			expectedRoot:      "~/proj",
			expectedDate:      "today",
			expectedLogFormat: "structured",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			temporaryDirectory := testInstance.TempDir()
			if len(testCase.configurationContent) > 0 {
				writeConfigurationFile(testInstance, temporaryDirectory, testCase.configurationContent)
			}
			testInstance.Setenv(testConfigurationSearchPathEnvironmentName, temporaryDirectory)

			application := cli.NewApplication()
			require.NoError(testInstance, application.InitializeForCommand(testSummarizeCommandNameConstant))

			configuration := application.Configuration()
			require.Equal(testInstance, testCase.expectedLogFormat, configuration.Common.LogFormat)
			require.Equal(testInstance, testCase.expectedRoot, configuration.Tools.Summarize.RootFolder)
			require.Equal(testInstance, testCase.expectedDate, configuration.Tools.Summarize.DateSelection)
			require.Equal(testInstance, testCase.expectedEndpoint, configuration.Tools.Summarize.Summary.Endpoint)
			if len(testCase.expectedExcludes) > 0 {
				require.Equal(testInstance, testCase.expectedExcludes, configuration.Tools.Summarize.ExcludePatterns)
			} else {
				require.Empty(testInstance, configuration.Tools.Summarize.ExcludePatterns)
			}
		})
	}
}

func TestApplicationInitializeForCommandReadsEnvironment(testInstance *testing.T) {
	testCases := []struct {
		name             string
		environment      map[string]string
		expectedAPIKey   string
		expectedAuthors  string
		expectedMaxToken int
	}{
		{
			name:             "legacy_variable_names",
			environment:      map[string]string{"AZURE_OPENAI_KEY": "legacy-key", "AUTHOR_FILTER": "Alice,Bob", "MAX_TOKENS": "256"},
			expectedAPIKey:   "legacy-key",
			expectedAuthors:  "Alice,Bob",
			expectedMaxToken: 256,
		},
		{
			name: "prefixed_variable_wins",
			environment: map[string]string{
				"AZURE_OPENAI_KEY":                          "legacy-key",
				"GITDIGEST_TOOLS_SUMMARIZE_SUMMARY_API_KEY": "prefixed-key",
			},
			expectedAPIKey:   "prefixed-key",
			expectedMaxToken: 1000,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Setenv(testConfigurationSearchPathEnvironmentName, testInstance.TempDir())
			for environmentName, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentName, environmentValue)
			}

			application := cli.NewApplication()
			require.NoError(testInstance, application.InitializeForCommand(testSummarizeCommandNameConstant))

			summarizeConfiguration := application.Configuration().Tools.Summarize
			require.Equal(testInstance, testCase.expectedAPIKey, summarizeConfiguration.Summary.APIKey)
			require.Equal(testInstance, testCase.expectedAuthors, summarizeConfiguration.Authors)
			require.Equal(testInstance, testCase.expectedMaxToken, summarizeConfiguration.Summary.MaxTokens)
		})
	}
}

func TestApplicationInitializeForCommandRejectsUnknownCommand(testInstance *testing.T) {
	testInstance.Setenv(testConfigurationSearchPathEnvironmentName, testInstance.TempDir())

	application := cli.NewApplication()
	require.Error(testInstance, application.InitializeForCommand("audit"))
}

func TestApplicationInitializeForCommandRejectsInvalidLogLevel(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	writeConfigurationFile(testInstance, temporaryDirectory, "common:\n  log_level: verbose\n")
	testInstance.Setenv(testConfigurationSearchPathEnvironmentName, temporaryDirectory)

	application := cli.NewApplication()
	require.ErrorContains(testInstance, application.InitializeForCommand(testSummarizeCommandNameConstant), "unsupported log level")
}

func TestEmbeddedDefaultConfigurationMatchesSummarizeDefaults(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, configurationData)

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var decoded summarize.Configuration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &decoded,
	})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(viperInstance.Get("tools.summarize")))

	expected := summarize.DefaultConfiguration()
	require.Equal(testInstance, expected.RootFolder, decoded.RootFolder)
	require.Equal(testInstance, expected.DateSelection, decoded.DateSelection)
	require.Equal(testInstance, expected.HistoryBackend, decoded.HistoryBackend)
	require.Equal(testInstance, expected.OutputFormat, decoded.OutputFormat)
	require.Equal(testInstance, expected.Summary.Deployment, decoded.Summary.Deployment)
	require.Equal(testInstance, expected.Summary.APIVersion, decoded.Summary.APIVersion)
	require.Equal(testInstance, expected.Summary.Model, decoded.Summary.Model)
	require.Equal(testInstance, expected.Summary.MaxTokens, decoded.Summary.MaxTokens)
	require.InDelta(testInstance, expected.Summary.Temperature, decoded.Summary.Temperature, 1e-9)
	require.Equal(testInstance, 60*time.Second, decoded.Summary.Timeout)
}
