package pathutils_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/ghostbuster/internal/utils/path"
)

const (
	testHomeDirectoryConstant          = "/home/ghostbuster"
	testRootResolverSubtestTemplate    = "%d_%s"
	testRelativeRepositoryPathConstant = "projects/example"
)

func TestRepositoryRootResolverResolve(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	testCases := []struct {
		name          string
		provider      pathutils.HomeDirectoryProvider
		input         string
		expectedPath  string
		expectedError error
	}{
		{
			name:         "tilde_prefix_expanded",
			provider:     func() (string, error) { return testHomeDirectoryConstant, nil },
			input:        "~/" + testRelativeRepositoryPathConstant,
			expectedPath: filepath.Join(testHomeDirectoryConstant, testRelativeRepositoryPathConstant),
		},
		{
			name:         "bare_tilde_expanded",
			provider:     func() (string, error) { return testHomeDirectoryConstant, nil },
			input:        " ~ ",
			expectedPath: testHomeDirectoryConstant,
		},
		{
			name:         "relative_path_made_absolute",
			provider:     func() (string, error) { return testHomeDirectoryConstant, nil },
			input:        testRelativeRepositoryPathConstant + "/../example",
			expectedPath: filepath.Join(workingDirectory, "projects", "example"),
		},
		{
			name:         "home_lookup_failure_leaves_tilde",
			provider:     func() (string, error) { return "", errors.New("no home") },
			input:        "~/repo",
			expectedPath: filepath.Join(workingDirectory, "~", "repo"),
		},
		{
			name:          "blank_input_rejected",
			provider:      func() (string, error) { return testHomeDirectoryConstant, nil },
			input:         "   ",
			expectedError: pathutils.ErrEmptyRepositoryRoot,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testRootResolverSubtestTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			resolver := pathutils.NewRepositoryRootResolverWithProvider(testCase.provider)
			resolvedPath, resolveError := resolver.Resolve(testCase.input)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, resolveError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}
}
