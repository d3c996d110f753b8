package exclusion_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghostbuster/internal/exclusion"
)

const policySubtestNameTemplateConstant = "%d_%s"

func TestDefaultPolicyBaseline(testInstance *testing.T) {
	policy := exclusion.DefaultPolicy()

	for _, fileName := range []string{".gitignore", ".gitmodules", ".submodules", "README.md", "readme.md", "reader.md", "Reader.md"} {
		require.True(testInstance, policy.ExcludesFile(fileName), fileName)
	}
	require.False(testInstance, policy.ExcludesFile("main.go"))

	require.Equal(testInstance, []string{".git"}, policy.Directories())
	require.True(testInstance, policy.ExcludesDirectory(".git"))
	require.False(testInstance, policy.ExcludesDirectory("src"))
}

func TestNewPolicyExtendsBaseline(testInstance *testing.T) {
	testCases := []struct {
		name                string
		configuration       exclusion.Configuration
		expectedFiles       []string
		expectedDirectories []string
	}{
		{
			name:                "empty_configuration",
			configuration:       exclusion.Configuration{},
			expectedFiles:       []string{".gitignore", ".gitmodules", ".submodules", "README.md", "Reader.md", "Readme.md", "reader.md", "readme.md"},
			expectedDirectories: []string{".git"},
		},
		{
			name: "additive_entries",
			configuration: exclusion.Configuration{
				IgnoreFilenames:   []string{"CHANGELOG.md"},
				IgnoreDirectories: []string{"node_modules", "build"},
			},
			expectedFiles:       []string{".gitignore", ".gitmodules", ".submodules", "CHANGELOG.md", "README.md", "Reader.md", "Readme.md", "reader.md", "readme.md"},
			expectedDirectories: []string{".git", "build", "node_modules"},
		},
		{
			name: "blank_and_duplicate_entries_ignored",
			configuration: exclusion.Configuration{
				IgnoreFilenames:   []string{"  ", "README.md", " notes.txt "},
				IgnoreDirectories: []string{"", ".git"},
			},
			expectedFiles:       []string{".gitignore", ".gitmodules", ".submodules", "README.md", "Reader.md", "Readme.md", "notes.txt", "reader.md", "readme.md"},
			expectedDirectories: []string{".git"},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(policySubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			policy := exclusion.NewPolicy(testCase.configuration)
			require.Equal(testInstance, testCase.expectedFiles, policy.Filenames())
			require.Equal(testInstance, testCase.expectedDirectories, policy.Directories())
		})
	}
}

func TestPolicyMergeLeavesReceiverUnchanged(testInstance *testing.T) {
	basePolicy := exclusion.DefaultPolicy()
	mergedPolicy := basePolicy.Merge(exclusion.Configuration{IgnoreDirectories: []string{"vendor"}})

	require.True(testInstance, mergedPolicy.ExcludesDirectory("vendor"))
	require.True(testInstance, mergedPolicy.ExcludesDirectory(".git"))
	require.False(testInstance, basePolicy.ExcludesDirectory("vendor"))
}

func TestPolicyExcludesRelativePath(testInstance *testing.T) {
	policy := exclusion.NewPolicy(exclusion.Configuration{IgnoreDirectories: []string{"third_party"}})

	testCases := []struct {
		relativePath string
		excluded     bool
	}{
		{relativePath: "src/main.go", excluded: false},
		{relativePath: ".git/config", excluded: true},
		{relativePath: "linked/.git/HEAD", excluded: true},
		{relativePath: "libs/foo/.git", excluded: true},
		{relativePath: "third_party/pkg/file.txt", excluded: true},
		{relativePath: "third_party_tools/file.txt", excluded: false},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(policySubtestNameTemplateConstant, testCaseIndex, testCase.relativePath), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.excluded, policy.ExcludesRelativePath(testCase.relativePath))
		})
	}
}
