package utils

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_ENV_VAR", "test-value")
	defer os.Unsetenv("TEST_ENV_VAR")

	value := getEnv("TEST_ENV_VAR", "default-value")
	assert.Equal(t, "test-value", value)

	value = getEnv("NON_EXISTENT_VAR", "default-value")
	assert.Equal(t, "default-value", value)
}

func TestGetEnvAsInt(t *testing.T) {
	os.Setenv("TEST_INT_VAR", "42")
	defer os.Unsetenv("TEST_INT_VAR")

	value := getEnvAsInt("TEST_INT_VAR", 10)
	assert.Equal(t, 42, value)

	os.Setenv("TEST_INVALID_INT_VAR", "not-an-int")
	defer os.Unsetenv("TEST_INVALID_INT_VAR")

	value = getEnvAsInt("TEST_INVALID_INT_VAR", 10)
	assert.Equal(t, 10, value)

	value = getEnvAsInt("NON_EXISTENT_VAR", 10)
	assert.Equal(t, 10, value)
}

func TestGetEnvAsBool(t *testing.T) {
	os.Setenv("TEST_BOOL_VAR", "true")
	defer os.Unsetenv("TEST_BOOL_VAR")

	assert.True(t, getEnvAsBool("TEST_BOOL_VAR", false))

	os.Setenv("TEST_INVALID_BOOL_VAR", "yep")
	defer os.Unsetenv("TEST_INVALID_BOOL_VAR")

	assert.False(t, getEnvAsBool("TEST_INVALID_BOOL_VAR", false))
	assert.True(t, getEnvAsBool("NON_EXISTENT_VAR", true))
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"), testLogger())

	require.NoError(t, err)
	assert.Equal(t, "https://jsonplaceholder.typicode.com", config.API.BaseURL)
	assert.Equal(t, 0, config.API.MaxRecords)
	assert.Equal(t, 60, config.API.RequestsPerMinute)
	assert.False(t, config.API.EvenIDFilter)
	assert.Equal(t, "./output.json", config.Output.TapPath)
	assert.Equal(t, ".", config.Output.ExportDir)
	assert.Equal(t, "", config.Database.Path)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	content := "API_BASE_URL=http://localhost:9999\n" +
		"API_MAX_RECORDS=50\n" +
		"API_EVEN_ID_FILTER=true\n" +
		"TAP_OUTPUT_PATH=" + filepath.Join(dir, "out.json") + "\n" +
		"SERVER_PORT=9090\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o644))

	// godotenv does not override variables already set in the process
	// environment, so clear the ones the file should supply.
	for _, key := range []string{"API_BASE_URL", "API_MAX_RECORDS", "API_EVEN_ID_FILTER", "TAP_OUTPUT_PATH", "SERVER_PORT"} {
		os.Unsetenv(key)
		defer os.Unsetenv(key)
	}

	config, err := LoadConfig(envPath, testLogger())

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", config.API.BaseURL)
	assert.Equal(t, 50, config.API.MaxRecords)
	assert.True(t, config.API.EvenIDFilter)
	assert.Equal(t, 9090, config.Server.Port)
}

func TestValidateConfig(t *testing.T) {
	validConfig := &Config{
		API: APIConfig{
			BaseURL:           "https://jsonplaceholder.typicode.com",
			RequestsPerMinute: 60,
		},
		Output: OutputConfig{
			TapPath:    "./output.json",
			ExportDir:  ".",
			ChartsPath: "./dashboard.html",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
	assert.NoError(t, validateConfig(validConfig))

	// missing base URL
	invalidConfig := *validConfig
	invalidConfig.API.BaseURL = ""
	err := validateConfig(&invalidConfig)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")

	// negative record cap
	invalidConfig = *validConfig
	invalidConfig.API.MaxRecords = -1
	err = validateConfig(&invalidConfig)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API_MAX_RECORDS")

	// missing tap path
	invalidConfig = *validConfig
	invalidConfig.Output.TapPath = ""
	err = validateConfig(&invalidConfig)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TAP_OUTPUT_PATH")

	// out-of-range port
	invalidConfig = *validConfig
	invalidConfig.Server.Port = 0
	err = validateConfig(&invalidConfig)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}

func TestValidateConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()

	config := &Config{
		API: APIConfig{BaseURL: "http://localhost"},
		Output: OutputConfig{
			TapPath:    filepath.Join(dir, "out.json"),
			ExportDir:  filepath.Join(dir, "exports"),
			ChartsPath: filepath.Join(dir, "charts", "dashboard.html"),
		},
		Database: DatabaseConfig{Path: filepath.Join(dir, "data", "archive.db")},
		Server:   ServerConfig{Port: 8080},
	}

	require.NoError(t, validateConfig(config))

	for _, created := range []string{
		filepath.Join(dir, "exports"),
		filepath.Join(dir, "charts"),
		filepath.Join(dir, "data"),
	} {
		info, err := os.Stat(created)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
