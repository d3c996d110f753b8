// Package utils exposes reusable helpers consumed by the CLI and its commands.
//
// It houses the ConfigurationLoader, which layers embedded defaults, an
// optional configuration file, and environment variables through Viper, and
// the LoggerFactory, which builds zap loggers writing to standard error.
package utils
