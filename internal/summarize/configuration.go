package summarize

import (
	"strings"

	"github.com/temirov/gitdigest/internal/history"
	"github.com/temirov/gitdigest/internal/summary"
)

const (
	defaultRootFolderConstant    = "~/proj"
	defaultDateSelectionConstant = dateSelectionTodayConstant

	configurationRootKeyConstant         = "root"
	configurationDateKeyConstant         = "date"
	configurationAuthorsKeyConstant      = "authors"
	configurationExcludeKeyConstant      = "exclude"
	configurationBackendKeyConstant      = "history_backend"
	configurationAllBranchesKeyConstant  = "all_branches"
	configurationOutputFormatKeyConstant = "output_format"
	configurationDryRunKeyConstant       = "dry_run"
	configurationSummaryKeyConstant      = "summary"
	configurationEndpointKeyConstant     = "endpoint"
	configurationAPIKeyKeyConstant       = "api_key"
	configurationDeploymentKeyConstant   = "deployment"
	configurationAPIVersionKeyConstant   = "api_version"
	configurationModelKeyConstant        = "model"
	configurationMaxTokensKeyConstant    = "max_tokens"
	configurationTemperatureKeyConstant  = "temperature"
	configurationTimeoutKeyConstant      = "timeout"
	configurationSystemPromptKeyConstant = "system_prompt"
	configurationKeySeparatorConstant    = "."
)

// Configuration captures persisted settings for the summarize command.
type Configuration struct {
	RootFolder      string         `mapstructure:"root"`
	DateSelection   string         `mapstructure:"date"`
	Authors         string         `mapstructure:"authors"`
	ExcludePatterns []string       `mapstructure:"exclude"`
	HistoryBackend  string         `mapstructure:"history_backend"`
	AllBranches     bool           `mapstructure:"all_branches"`
	OutputFormat    string         `mapstructure:"output_format"`
	DryRun          bool           `mapstructure:"dry_run"`
	Summary         summary.Config `mapstructure:"summary"`
}

// DefaultConfiguration returns baseline settings for the summarize command.
func DefaultConfiguration() Configuration {
	return Configuration{
		RootFolder:     defaultRootFolderConstant,
		DateSelection:  defaultDateSelectionConstant,
		HistoryBackend: string(history.BackendGitCLI),
		OutputFormat:   string(OutputFormatText),
		Summary:        summary.DefaultConfig(),
	}
}

// DefaultConfigurationValues flattens DefaultConfiguration under rootKey for the configuration loader.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultConfiguration()
	summaryKey := joinConfigurationKey(rootKey, configurationSummaryKeyConstant)
	return map[string]any{
		joinConfigurationKey(rootKey, configurationRootKeyConstant):            defaults.RootFolder,
		joinConfigurationKey(rootKey, configurationDateKeyConstant):            defaults.DateSelection,
		joinConfigurationKey(rootKey, configurationAuthorsKeyConstant):         defaults.Authors,
		joinConfigurationKey(rootKey, configurationExcludeKeyConstant):         defaults.ExcludePatterns,
		joinConfigurationKey(rootKey, configurationBackendKeyConstant):         defaults.HistoryBackend,
		joinConfigurationKey(rootKey, configurationAllBranchesKeyConstant):     defaults.AllBranches,
		joinConfigurationKey(rootKey, configurationOutputFormatKeyConstant):    defaults.OutputFormat,
		joinConfigurationKey(rootKey, configurationDryRunKeyConstant):          defaults.DryRun,
		joinConfigurationKey(summaryKey, configurationEndpointKeyConstant):     defaults.Summary.Endpoint,
		joinConfigurationKey(summaryKey, configurationAPIKeyKeyConstant):       defaults.Summary.APIKey,
		joinConfigurationKey(summaryKey, configurationDeploymentKeyConstant):   defaults.Summary.Deployment,
		joinConfigurationKey(summaryKey, configurationAPIVersionKeyConstant):   defaults.Summary.APIVersion,
		joinConfigurationKey(summaryKey, configurationModelKeyConstant):        defaults.Summary.Model,
		joinConfigurationKey(summaryKey, configurationMaxTokensKeyConstant):    defaults.Summary.MaxTokens,
		joinConfigurationKey(summaryKey, configurationTemperatureKeyConstant):  defaults.Summary.Temperature,
		joinConfigurationKey(summaryKey, configurationTimeoutKeyConstant):      defaults.Summary.Timeout,
		joinConfigurationKey(summaryKey, configurationSystemPromptKeyConstant): defaults.Summary.SystemPrompt,
	}
}

// EnvironmentBindings maps configuration keys under rootKey to the additional environment
// variable names they accept.
func EnvironmentBindings(rootKey string) map[string][]string {
	summaryKey := joinConfigurationKey(rootKey, configurationSummaryKeyConstant)
	return map[string][]string{
		joinConfigurationKey(rootKey, configurationAuthorsKeyConstant):        {"AUTHOR_FILTER"},
		joinConfigurationKey(summaryKey, configurationEndpointKeyConstant):    {"AZURE_ENDPOINT"},
		joinConfigurationKey(summaryKey, configurationAPIKeyKeyConstant):      {"AZURE_OPENAI_KEY"},
		joinConfigurationKey(summaryKey, configurationAPIVersionKeyConstant):  {"AZURE_API_VERSION"},
		joinConfigurationKey(summaryKey, configurationModelKeyConstant):       {"AZURE_MODEL"},
		joinConfigurationKey(summaryKey, configurationMaxTokensKeyConstant):   {"MAX_TOKENS"},
		joinConfigurationKey(summaryKey, configurationTemperatureKeyConstant): {"TEMPERATURE"},
	}
}

// Sanitize trims configuration values and restores defaults for empty selections.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.RootFolder = strings.TrimSpace(configuration.RootFolder)
	if len(sanitized.RootFolder) == 0 {
		sanitized.RootFolder = defaults.RootFolder
	}
	sanitized.DateSelection = strings.TrimSpace(configuration.DateSelection)
	if len(sanitized.DateSelection) == 0 {
		sanitized.DateSelection = defaults.DateSelection
	}
	sanitized.Authors = strings.TrimSpace(configuration.Authors)
	sanitized.ExcludePatterns = sanitizePatterns(configuration.ExcludePatterns)
	sanitized.HistoryBackend = strings.TrimSpace(configuration.HistoryBackend)
	sanitized.OutputFormat = strings.TrimSpace(configuration.OutputFormat)
	sanitized.Summary = configuration.Summary.Sanitize()

	return sanitized
}

func sanitizePatterns(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}

func joinConfigurationKey(prefix string, key string) string {
	if len(prefix) == 0 {
		return key
	}
	return prefix + configurationKeySeparatorConstant + key
}
