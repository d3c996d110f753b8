package ghosts_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/ghostbuster/internal/exclusion"
	"github.com/temirov/ghostbuster/internal/ghosts"
	"github.com/temirov/ghostbuster/internal/submodules"
)

const commandSubtestNameTemplateConstant = "%d_%s"

func executeScanCommand(testInstance *testing.T, builder ghosts.CommandBuilder, arguments []string) (string, error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs(arguments)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SilenceErrors = true
	command.SilenceUsage = true

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestCommandBuilderRequiresExactlyOneRepository(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "no_arguments", arguments: []string{}},
		{name: "two_arguments", arguments: []string{"first", "second"}},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(commandSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			builder := ghosts.CommandBuilder{LoggerProvider: func() *zap.Logger { return zap.NewNop() }}
			output, executionError := executeScanCommand(testInstance, builder, testCase.arguments)
			require.ErrorIs(testInstance, executionError, ghosts.ErrInvalidArgument)
			require.Contains(testInstance, output, "scan <repository>")
		})
	}
}

func TestCommandBuilderRendersReport(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	writeRepositoryFiles(testInstance, repositoryRoot, map[string]string{
		submodules.GitModulesFileName: standardManifestContentConstant,
		"src/main.txt":                "libs/foo",
		"docs/notes.txt":              "libs/bar",
		"vendor/copy.txt":             "libs/foo",
	})

	testCases := []struct {
		name           string
		configuration  ghosts.CommandConfiguration
		exclusions     exclusion.Configuration
		arguments      []string
		expectedOutput string
		expectedError  error
	}{
		{
			name:          "csv_from_flag_with_flag_exclusions",
			configuration: ghosts.DefaultCommandConfiguration(),
			exclusions:    exclusion.Configuration{IgnoreDirectories: []string{"vendor"}},
			arguments:     []string{repositoryRoot, "--format", "csv", "--ignore-dir", "docs"},
			expectedOutput: "submodule_path,status,file\n" +
				"libs/foo,referenced,src/main.txt\n" +
				"libs/bar,ghost,\n",
		},
		{
			name:          "csv_from_configuration",
			configuration: ghosts.CommandConfiguration{Format: "csv", Workers: 2},
			arguments:     []string{repositoryRoot, "--ignore-file", "notes.txt"},
			expectedOutput: "submodule_path,status,file\n" +
				"libs/foo,referenced,src/main.txt\n" +
				"libs/foo,referenced,vendor/copy.txt\n" +
				"libs/bar,ghost,\n",
		},
		{
			name:          "strict_flag_fails_on_ghosts",
			configuration: ghosts.CommandConfiguration{Format: "csv"},
			arguments:     []string{repositoryRoot, "--strict", "--ignore-dir", "docs"},
			expectedOutput: "submodule_path,status,file\n" +
				"libs/foo,referenced,src/main.txt\n" +
				"libs/foo,referenced,vendor/copy.txt\n" +
				"libs/bar,ghost,\n",
			expectedError: ghosts.ErrGhostsDetected,
		},
		{
			name:          "unsupported_format",
			configuration: ghosts.DefaultCommandConfiguration(),
			arguments:     []string{repositoryRoot, "--format", "xml"},
			expectedError: ghosts.ErrInvalidArgument,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(commandSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			builder := ghosts.CommandBuilder{
				LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
				ConfigurationProvider: func() ghosts.CommandConfiguration { return testCase.configuration },
				ExclusionsProvider:    func() exclusion.Configuration { return testCase.exclusions },
			}

			output, executionError := executeScanCommand(testInstance, builder, testCase.arguments)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, executionError, testCase.expectedError)
			} else {
				require.NoError(testInstance, executionError)
			}
			if len(testCase.expectedOutput) > 0 {
				require.Equal(testInstance, testCase.expectedOutput, output)
			}
		})
	}
}
