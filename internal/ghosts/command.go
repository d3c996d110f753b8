package ghosts

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ghostbuster/internal/exclusion"
	"github.com/temirov/ghostbuster/internal/report"
	"github.com/temirov/ghostbuster/internal/scanner"
	"github.com/temirov/ghostbuster/internal/utils/flags"
)

const (
	commandUseConstant                 = "scan <repository>"
	commandShortDescriptionConstant    = "Report submodules declared in .gitmodules that nothing references"
	commandLongDescriptionConstant     = "scan reads .gitmodules (or .submodules) at the repository root and searches every non-excluded file for each declared submodule path. Submodules that no file mentions are reported as ghosts."
	flagFormatNameConstant             = "format"
	flagFormatDescriptionConstant      = "Report format."
	flagWorkersNameConstant            = "workers"
	flagWorkersDescriptionConstant     = "Number of files read concurrently (1 scans sequentially)."
	flagStrictNameConstant             = "strict"
	flagStrictDescriptionConstant      = "Exit with an error when ghost submodules are found."
	flagIgnoreFileNameConstant         = "ignore-file"
	flagIgnoreFileDescriptionConstant  = "Additional file name to skip (repeatable)."
	flagIgnoreDirNameConstant          = "ignore-dir"
	flagIgnoreDirDescriptionConstant   = "Additional directory name to skip (repeatable)."
	argumentCountErrorTemplateConstant = "%w: expected exactly one repository directory, received %d"
	invalidFormatTemplateConstant      = "%w: %v"
	expectedArgumentCountConstant      = 1
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current scan command configuration.
type ConfigurationProvider func() CommandConfiguration

// ExclusionsProvider returns exclusions loaded from external configuration.
type ExclusionsProvider func() exclusion.Configuration

// CommandBuilder assembles the scan cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ExclusionsProvider    ExclusionsProvider
	ScanOptions           []scanner.Option
}

// Build constructs the cobra command for ghost submodule scans.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(flagFormatNameConstant, defaults.Format, flags.FormatChoiceUsage(defaults.Format, report.SupportedFormats(), flagFormatDescriptionConstant))
	command.Flags().Int(flagWorkersNameConstant, defaults.Workers, flagWorkersDescriptionConstant)
	command.Flags().Bool(flagStrictNameConstant, defaults.Strict, flagStrictDescriptionConstant)
	command.Flags().StringSlice(flagIgnoreFileNameConstant, nil, flagIgnoreFileDescriptionConstant)
	command.Flags().StringSlice(flagIgnoreDirNameConstant, nil, flagIgnoreDirDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	service := NewService(builder.resolveLogger(), command.OutOrStdout(), builder.ScanOptions...)
	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (CommandOptions, error) {
	if len(arguments) != expectedArgumentCountConstant {
		if helpError := command.Help(); helpError != nil {
			return CommandOptions{}, helpError
		}
		return CommandOptions{}, fmt.Errorf(argumentCountErrorTemplateConstant, ErrInvalidArgument, len(arguments))
	}

	configuration := builder.resolveConfiguration()

	if command.Flags().Changed(flagFormatNameConstant) {
		configuration.Format, _ = command.Flags().GetString(flagFormatNameConstant)
	}
	if command.Flags().Changed(flagWorkersNameConstant) {
		configuration.Workers, _ = command.Flags().GetInt(flagWorkersNameConstant)
	}
	if command.Flags().Changed(flagStrictNameConstant) {
		configuration.Strict, _ = command.Flags().GetBool(flagStrictNameConstant)
	}
	configuration = configuration.sanitize()

	format, formatError := report.ParseFormat(configuration.Format)
	if formatError != nil {
		return CommandOptions{}, fmt.Errorf(invalidFormatTemplateConstant, ErrInvalidArgument, formatError)
	}

	exclusions := builder.resolveExclusions()
	additionalFileNames, _ := command.Flags().GetStringSlice(flagIgnoreFileNameConstant)
	additionalDirectoryNames, _ := command.Flags().GetStringSlice(flagIgnoreDirNameConstant)
	exclusions.IgnoreFilenames = append(exclusions.IgnoreFilenames, additionalFileNames...)
	exclusions.IgnoreDirectories = append(exclusions.IgnoreDirectories, additionalDirectoryNames...)

	return CommandOptions{
		RepositoryPath: arguments[0],
		Exclusions:     exclusions,
		WorkerCount:    configuration.Workers,
		Format:         format,
		Strict:         configuration.Strict,
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveExclusions() exclusion.Configuration {
	if builder.ExclusionsProvider == nil {
		return exclusion.Configuration{}
	}
	provided := builder.ExclusionsProvider()
	return exclusion.Configuration{
		IgnoreFilenames:   append([]string{}, provided.IgnoreFilenames...),
		IgnoreDirectories: append([]string{}, provided.IgnoreDirectories...),
	}
}
