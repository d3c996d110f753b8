package ghosts

import (
	"strings"

	"github.com/temirov/ghostbuster/internal/report"
)

const (
	workersConfigurationKeyConstant = "workers"
	formatConfigurationKeyConstant  = "format"
	strictConfigurationKeyConstant  = "strict"
	defaultWorkerCountConstant      = 1
)

// CommandConfiguration captures persistent settings for the scan command.
type CommandConfiguration struct {
	Workers int    `mapstructure:"workers"`
	Format  string `mapstructure:"format"`
	Strict  bool   `mapstructure:"strict"`
}

// DefaultCommandConfiguration returns baseline configuration values for the scan command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Workers: defaultWorkerCountConstant,
		Format:  string(report.FormatText),
		Strict:  false,
	}
}

// DefaultConfigurationValues returns viper defaults keyed beneath prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + "." + workersConfigurationKeyConstant: defaults.Workers,
		prefix + "." + formatConfigurationKeyConstant:  defaults.Format,
		prefix + "." + strictConfigurationKeyConstant:  defaults.Strict,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	if sanitized.Workers < defaultWorkerCountConstant {
		sanitized.Workers = defaultWorkerCountConstant
	}
	sanitized.Format = strings.TrimSpace(sanitized.Format)
	if len(sanitized.Format) == 0 {
		sanitized.Format = string(report.FormatText)
	}
	return sanitized
}
