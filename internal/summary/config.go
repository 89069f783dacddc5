package summary

import (
	"strings"
	"time"
)

const (
	// DefaultSystemPrompt instructs the model how to summarize commit digests.
	DefaultSystemPrompt = "You are a helpful assistant that summarizes git commit history. " +
		"This is the commitment message by one person on different projects. " +
		"Analyze the commits and provide a concise summary in no more than 4 sentences. " +
		"Don't need to be too detailed. Just give a high level overview. " +
		"Talk more about features and products than technical details. " +
		"Keep the summary professional and informative."

	defaultAPIVersionConstant  = "2024-02-15-preview"
	defaultModelConstant       = "gpt-4"
	defaultDeploymentConstant  = "gpt-4o-2"
	defaultMaxTokensConstant   = 1000
	defaultTemperatureConstant = 0.3
	defaultTimeoutConstant     = 60 * time.Second
	endpointTrailingSeparator  = "/"
)

// Config describes the remote summarization endpoint. Credentials are passed through unvalidated.
type Config struct {
	Endpoint     string        `mapstructure:"endpoint"`
	APIKey       string        `mapstructure:"api_key"`
	Deployment   string        `mapstructure:"deployment"`
	APIVersion   string        `mapstructure:"api_version"`
	Model        string        `mapstructure:"model"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Temperature  float64       `mapstructure:"temperature"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SystemPrompt string        `mapstructure:"system_prompt"`
}

// DefaultConfig returns the built-in endpoint settings.
func DefaultConfig() Config {
	return Config{
		Deployment:   defaultDeploymentConstant,
		APIVersion:   defaultAPIVersionConstant,
		Model:        defaultModelConstant,
		MaxTokens:    defaultMaxTokensConstant,
		Temperature:  defaultTemperatureConstant,
		Timeout:      defaultTimeoutConstant,
		SystemPrompt: DefaultSystemPrompt,
	}
}

// Sanitize trims string values and fills unset numeric and prompt settings with defaults.
func (config Config) Sanitize() Config {
	defaults := DefaultConfig()
	sanitized := Config{
		Endpoint:     strings.TrimRight(strings.TrimSpace(config.Endpoint), endpointTrailingSeparator),
		APIKey:       strings.TrimSpace(config.APIKey),
		Deployment:   strings.TrimSpace(config.Deployment),
		APIVersion:   strings.TrimSpace(config.APIVersion),
		Model:        strings.TrimSpace(config.Model),
		MaxTokens:    config.MaxTokens,
		Temperature:  config.Temperature,
		Timeout:      config.Timeout,
		SystemPrompt: strings.TrimSpace(config.SystemPrompt),
	}

	if len(sanitized.APIVersion) == 0 {
		sanitized.APIVersion = defaults.APIVersion
	}
	if len(sanitized.Model) == 0 {
		sanitized.Model = defaults.Model
	}
	if sanitized.MaxTokens <= 0 {
		sanitized.MaxTokens = defaults.MaxTokens
	}
	if sanitized.Temperature < 0 {
		sanitized.Temperature = defaults.Temperature
	}
	if sanitized.Timeout <= 0 {
		sanitized.Timeout = defaults.Timeout
	}
	if len(sanitized.SystemPrompt) == 0 {
		sanitized.SystemPrompt = defaults.SystemPrompt
	}
	return sanitized
}

// UsesAzureDeployment reports whether requests target an Azure OpenAI deployment.
func (config Config) UsesAzureDeployment() bool {
	return len(config.Deployment) > 0
}
