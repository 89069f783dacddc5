package utils

import "context"

type commandContextKey string

const configurationFileContextKeyConstant = commandContextKey("configurationFile")

// CommandContextAccessor stores and retrieves CLI metadata on command contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFile records the configuration file that was loaded for the command.
func (accessor CommandContextAccessor) WithConfigurationFile(parentContext context.Context, configurationFile string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFileContextKeyConstant, configurationFile)
}

// ConfigurationFile returns the recorded configuration file and whether one was recorded.
func (accessor CommandContextAccessor) ConfigurationFile(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFile, recorded := executionContext.Value(configurationFileContextKeyConstant).(string)
	return configurationFile, recorded
}
