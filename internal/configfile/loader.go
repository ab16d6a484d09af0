// Package configfile decodes configuration files into the generic
// mapping/sequence structures consumed by internal/config.
//
// Two markup formats are supported, selected by file extension:
//
//   - YAML (.yml/.yaml, and the default for unknown extensions) via
//     gopkg.in/yaml.v3, matching the format deployment configurations
//     are conventionally written in
//   - JSONC (.json/.jsonc) via github.com/tidwall/jsonc + encoding/json,
//     so machine-generated or hand-commented JSON documents are accepted
//     as well
//
// Decoding stops here: all structural validation of the decoded mapping
// belongs to internal/config.
package configfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/convoy/internal/model"
)

// Load reads and decodes a configuration file into a generic mapping.
//
// Returns a model.CLIError with ExitConfigNotFound when the file does not
// exist, and ExitConfigInvalid when the file exists but is not a valid
// document of its format or its top level is not a mapping.
func Load(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitConfigNotFound,
				fmt.Sprintf("configuration file not found: %s", path),
				err,
			)
		}
		return nil, model.WrapCLIError(
			model.ExitConfigNotFound,
			fmt.Sprintf("failed to read configuration file %s", path),
			err,
		)
	}
	return Decode(path, data)
}

// Decode decodes raw configuration bytes. The path is used only to pick
// the markup format from the extension and to name the file in errors.
func Decode(path string, data []byte) (map[string]interface{}, error) {
	var decoded map[string]interface{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// Strip comments and trailing commas first; commented JSON is
		// common for hand-maintained configuration files.
		if err := json.Unmarshal(jsonc.ToJSON(data), &decoded); err != nil {
			return nil, model.WrapCLIError(
				model.ExitConfigInvalid,
				fmt.Sprintf("%s is not valid JSON", path),
				err,
			)
		}
	default:
		// YAML is the default markup. yaml.v3 decodes mappings into
		// map[string]interface{}, which is exactly the generic shape
		// internal/config consumes.
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			return nil, model.WrapCLIError(
				model.ExitConfigInvalid,
				fmt.Sprintf("%s is not valid YAML", path),
				err,
			)
		}
	}

	if decoded == nil {
		return nil, model.NewCLIError(
			model.ExitConfigInvalid,
			fmt.Sprintf("%s is empty; expected a configuration mapping", path),
		)
	}
	return decoded, nil
}
