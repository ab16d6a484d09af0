// project.go implements the reverse projector: Application set →
// native-dialect YAML text, used for reporting and diffing a node's
// observed state against declared state.
//
// The projection is a one-way approximation, not an inverse of the front
// ends. Runtime inspection cannot recover the image a running application
// was launched from, so image identity is replaced with a placeholder;
// likewise an attached volume's real mountpoint is projected as unknown.
// Ports and links are projected faithfully, which is sufficient for the
// convergence decisions the output feeds.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/convoy/internal/model"
)

// unknownImage is the placeholder projected in place of the real image
// reference, which is not recoverable from observed state.
const unknownImage = "unknown"

// ConfigurationToYAML generates the native-dialect YAML representation of
// a set of applications, typically a single node's observed state.
//
// Re-parsing the output (in lenient mode, since projected mountpoints are
// null) preserves ports and links exactly but never image identity or
// real mountpoints. That lossiness is documented behavior, not a bug.
func ConfigurationToYAML(apps []model.Application) (string, error) {
	result := make(map[string]interface{}, len(apps))
	for _, app := range model.SortApplications(apps) {
		entry := map[string]interface{}{"image": unknownImage}

		// Ports are always present in the projection, even when empty,
		// so consumers can distinguish "no ports" from "not reported".
		ports := make([]map[string]interface{}, 0, len(app.Ports))
		for _, port := range app.Ports {
			ports = append(ports, map[string]interface{}{
				"internal": port.Internal,
				"external": port.External,
			})
		}
		entry["ports"] = ports

		if len(app.Links) > 0 {
			links := make([]map[string]interface{}, 0, len(app.Links))
			for _, link := range app.Links {
				links = append(links, map[string]interface{}{
					"local_port":  link.LocalPort,
					"remote_port": link.RemotePort,
					"alias":       link.Alias,
				})
			}
			entry["links"] = links
		}

		if app.Volume != nil {
			// The real mountpoint is not knowable from observed state;
			// project it as unknown and let lenient parsing accept it.
			entry["volume"] = map[string]interface{}{"mountpoint": nil}
		}

		result[app.Name] = entry
	}

	document := map[string]interface{}{
		"version":      schemaVersion,
		"applications": result,
	}
	data, err := yaml.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("failed to serialize configuration: %w", err)
	}
	return string(data), nil
}
