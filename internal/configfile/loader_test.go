package configfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/convoy/internal/model"
)

// writeFile drops a configuration file into a per-test temp directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// requireCLIError asserts that err carries the expected exit code.
func requireCLIError(t *testing.T, err error, code model.ExitCode) *model.CLIError {
	t.Helper()
	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, code, cliErr.Code)
	return cliErr
}

// TestLoad_YAML verifies loading a YAML configuration file.
func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "application.yml", `
version: 1
applications:
  web:
    image: nginx
    ports:
    - internal: 80
      external: 8080
`)

	decoded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, decoded["version"])

	apps, ok := decoded["applications"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, apps, "web")
}

// TestLoad_JSONC verifies that .jsonc files may carry comments and
// trailing commas.
func TestLoad_JSONC(t *testing.T) {
	path := writeFile(t, "application.jsonc", `{
	// declared state for the web tier
	"version": 1,
	"applications": {
		"web": {"image": "nginx"},
	},
}`)

	decoded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float64(1), decoded["version"], "JSON numbers decode as float64")

	apps, ok := decoded["applications"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, apps, "web")
}

// TestLoad_MissingFile verifies the not-found exit code.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))

	cliErr := requireCLIError(t, err, model.ExitConfigNotFound)
	assert.Contains(t, cliErr.Message, "configuration file not found")
	assert.True(t, os.IsNotExist(errors.Unwrap(cliErr)), "original error must stay inspectable")
}

// TestLoad_InvalidYAML verifies the invalid-config exit code for
// malformed YAML.
func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, "broken.yml", "applications: [unclosed")

	_, err := Load(path)
	cliErr := requireCLIError(t, err, model.ExitConfigInvalid)
	assert.Contains(t, cliErr.Message, "not valid YAML")
}

// TestLoad_InvalidJSON verifies the invalid-config exit code for
// malformed JSON.
func TestLoad_InvalidJSON(t *testing.T) {
	path := writeFile(t, "broken.json", `{"version": `)

	_, err := Load(path)
	cliErr := requireCLIError(t, err, model.ExitConfigInvalid)
	assert.Contains(t, cliErr.Message, "not valid JSON")
}

// TestLoad_EmptyFile verifies that an empty document is rejected rather
// than decoded to a nil mapping.
func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.yml", "")

	_, err := Load(path)
	cliErr := requireCLIError(t, err, model.ExitConfigInvalid)
	assert.Contains(t, cliErr.Message, "empty")
}

// TestDecode_UnknownExtensionDefaultsToYAML verifies the format
// selection fallback.
func TestDecode_UnknownExtensionDefaultsToYAML(t *testing.T) {
	decoded, err := Decode("application.conf", []byte("version: 1"))
	require.NoError(t, err)
	assert.Equal(t, 1, decoded["version"])
}
