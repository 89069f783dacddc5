// Package utils exposes reusable helpers consumed by the CLI and the digest pipeline.
//
// It houses ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging.
package utils
