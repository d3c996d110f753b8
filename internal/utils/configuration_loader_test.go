package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghostbuster/internal/utils"
)

const (
	testEnvironmentPrefixConstant                  = "TESTGHOSTBUSTER"
	testLogLevelKeyConstant                        = "common.log_level"
	testIgnoreDirectoriesKeyConstant               = "ignore_dirs"
	testWorkersKeyConstant                         = "scan.workers"
	testLogLevelEnvironmentNameConstant            = testEnvironmentPrefixConstant + "_COMMON_LOG_LEVEL"
	testIgnoreDirectoriesEnvironmentNameConstant   = testEnvironmentPrefixConstant + "_IGNORE_DIRS"
	testDefaultLogLevelConstant                    = "info"
	testConfigurationNameConstant                  = "config"
	testConfigurationTypeConstant                  = "yaml"
	testConfigFileNameConstant                     = "config.yaml"
	testEmbeddedConfigurationContentConstant       = "common:\n  log_level: debug\nignore_dirs: []\nscan:\n  workers: 1\n"
	configurationLoaderSubtestNameTemplateConstant = "%d_%s"
)

type configurationFixture struct {
	Common     configurationCommonFixture `mapstructure:"common"`
	Exclusions configurationListsFixture  `mapstructure:",squash"`
	Scan       configurationScanFixture   `mapstructure:"scan"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type configurationListsFixture struct {
	IgnoreDirectories []string `mapstructure:"ignore_dirs"`
}

type configurationScanFixture struct {
	Workers int `mapstructure:"workers"`
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                      string
		embeddedConfiguration     string
		fileContent               string
		environment               map[string]string
		expectedLogLevel          string
		expectedIgnoreDirectories []string
		expectedWorkers           int
	}{
		{
			name:                      "defaults_only",
			expectedLogLevel:          testDefaultLogLevelConstant,
			expectedIgnoreDirectories: []string{},
			expectedWorkers:           1,
		},
		{
			name:                      "embedded_overrides_defaults",
			embeddedConfiguration:     testEmbeddedConfigurationContentConstant,
			expectedLogLevel:          "debug",
			expectedIgnoreDirectories: []string{},
			expectedWorkers:           1,
		},
		{
			name:                      "file_overrides_embedded",
			embeddedConfiguration:     testEmbeddedConfigurationContentConstant,
			fileContent:               "common:\n  log_level: warn\nignore_dirs:\n  - vendor\n  - build\nscan:\n  workers: 8\n",
			expectedLogLevel:          "warn",
			expectedIgnoreDirectories: []string{"vendor", "build"},
			expectedWorkers:           8,
		},
		{
			name:                  "environment_overrides_file",
			embeddedConfiguration: testEmbeddedConfigurationContentConstant,
			fileContent:           "common:\n  log_level: warn\nignore_dirs:\n  - vendor\n",
			environment: map[string]string{
				testLogLevelEnvironmentNameConstant:          "error",
				testIgnoreDirectoriesEnvironmentNameConstant: "node_modules,dist",
			},
			expectedLogLevel:          "error",
			expectedIgnoreDirectories: []string{"node_modules", "dist"},
			expectedWorkers:           1,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			searchDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				configurationFilePath = filepath.Join(testInstance.TempDir(), testConfigFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testCase.fileContent), 0o600))
			}

			for environmentName, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentName, environmentValue)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{searchDirectory})
			configurationLoader.SetEmbeddedConfiguration([]byte(testCase.embeddedConfiguration), testConfigurationTypeConstant)

			defaultValues := map[string]any{
				testLogLevelKeyConstant:          testDefaultLogLevelConstant,
				testIgnoreDirectoriesKeyConstant: []string{},
				testWorkersKeyConstant:           1,
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedIgnoreDirectories, loadedConfiguration.Exclusions.IgnoreDirectories)
			require.Equal(testInstance, testCase.expectedWorkers, loadedConfiguration.Scan.Workers)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderDiscoversSearchPathFile(testInstance *testing.T) {
	emptyDirectory := testInstance.TempDir()
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte("common:\n  log_level: warn\n"), 0o600))

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{" ", emptyDirectory, configurationDirectory})

	loadedConfiguration := configurationFixture{}
	metadata, loadError := configurationLoader.LoadConfiguration("", map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant}, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "warn", loadedConfiguration.Common.LogLevel)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderReportsUnavailableFile(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	malformedFilePath := filepath.Join(temporaryDirectory, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(malformedFilePath, []byte("common: [unterminated\n"), 0o600))

	testCases := []struct {
		name                  string
		configurationFilePath string
	}{
		{name: "malformed_file", configurationFilePath: malformedFilePath},
		{name: "missing_explicit_file", configurationFilePath: filepath.Join(temporaryDirectory, "absent.yaml")},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
			loadedConfiguration := configurationFixture{}
			_, loadError := configurationLoader.LoadConfiguration(testCase.configurationFilePath, nil, &loadedConfiguration)
			require.Error(testInstance, loadError)
		})
	}
}
