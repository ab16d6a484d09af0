// native.go implements the native-dialect front end.
//
// The native dialect is fully explicit: it requires a schema version,
// gives port mappings and links literally (no symbolic resolution), and
// enforces absolute volume mountpoints. A lenient variant relaxes only
// the mountpoint rule, for parsing observed cluster state where the real
// mountpoint is not knowable.
package config

import (
	"fmt"
	"path"

	"github.com/mmr-tortoise/convoy/internal/image"
	"github.com/mmr-tortoise/convoy/internal/model"
)

// schemaVersion is the single configuration schema version convoy
// understands. Any other value rejects the whole document.
const schemaVersion = 1

// nativeKnownKeys is the set of keys the native dialect allows in an
// application definition. Anything left over after these are consumed is
// an unrecognised-keys error.
var nativeKnownKeys = map[string]struct{}{
	"image":       {},
	"ports":       {},
	"links":       {},
	"volume":      {},
	"environment": {},
}

// checkVersion validates the top-level "version" key of a configuration
// document. section names the document for the error message.
func checkVersion(cfg map[string]interface{}, section string) *ConfigError {
	raw, ok := cfg["version"]
	if !ok {
		err := errMissingKey("version")
		err.Section = section
		return err
	}
	if v, ok := asInt(raw); !ok || v != schemaVersion {
		return &ConfigError{
			Kind:    KindBadVersion,
			Section: section,
			Field:   "version",
			Value:   raw,
			Detail:  "Incorrect version specified.",
		}
	}
	return nil
}

// nativeApplications validates and parses a native-dialect configuration
// into the canonical application table.
//
// In lenient mode a volume whose mountpoint is explicitly null is
// tolerated and produces a volume with an unknown mountpoint; everything
// else validates identically.
func nativeApplications(cfg map[string]interface{}, lenient bool) (map[string]model.Application, error) {
	rawApps, ok := cfg["applications"]
	if !ok {
		err := errMissingKey("applications")
		err.Section = "Application"
		return nil, err
	}
	if err := checkVersion(cfg, "Application"); err != nil {
		return nil, err
	}
	appsCfg, ok := asMapping(rawApps)
	if !ok {
		err := errWrongType("applications", "'applications' must be a dictionary", rawApps)
		err.Section = "Application"
		return nil, err
	}

	apps := make(map[string]model.Application, len(appsCfg))
	for _, name := range sortedKeys(appsCfg) {
		app, err := parseNativeApplication(name, appsCfg[name], lenient)
		if err != nil {
			return nil, err
		}
		apps[name] = app
	}
	return apps, nil
}

// parseNativeApplication validates one native application definition.
func parseNativeApplication(name string, raw interface{}, lenient bool) (model.Application, error) {
	fail := func(err *ConfigError) (model.Application, error) {
		return model.Application{}, err.forApplication(name)
	}

	appCfg, ok := asMapping(raw)
	if !ok {
		return fail(errWrongType("", "Application configuration must be a dictionary", raw))
	}

	rawImage, ok := appCfg["image"]
	if !ok {
		return fail(errMissingValue("image"))
	}
	imageName, ok := asString(rawImage)
	if !ok {
		return fail(errWrongType("image", "'image' must be a string", rawImage))
	}
	img, err := image.Parse(imageName)
	if err != nil {
		return fail(errBadValue("image", fmt.Sprintf("Invalid Docker image name. %v.", err), imageName))
	}

	app := model.Application{Name: name, Image: img}

	if rawPorts, ok := appCfg["ports"]; ok {
		ports, portErr := parseNativePorts(rawPorts)
		if portErr != nil {
			return fail(portErr)
		}
		app.Ports = model.NormalizePorts(ports)
	}
	if rawLinks, ok := appCfg["links"]; ok {
		links, linkErr := parseNativeLinks(rawLinks)
		if linkErr != nil {
			return fail(linkErr)
		}
		app.Links = model.NormalizeLinks(links)
	}
	if rawVolume, ok := appCfg["volume"]; ok {
		volume, volErr := parseNativeVolume(name, rawVolume, lenient)
		if volErr != nil {
			return fail(volErr)
		}
		app.Volume = volume
	}
	if rawEnv, ok := appCfg["environment"]; ok {
		env, envErr := parseNativeEnvironment(rawEnv)
		if envErr != nil {
			return fail(envErr)
		}
		app.Environment = env
	}

	var leftover []string
	for key := range appCfg {
		if _, ok := nativeKnownKeys[key]; !ok {
			leftover = append(leftover, key)
		}
	}
	if len(leftover) > 0 {
		return fail(errUnrecognisedKeys(leftover))
	}

	return app, nil
}

// parseNativePorts validates the "ports" stanza: a list of mappings each
// containing exactly the keys "internal" and "external" with integer
// values.
func parseNativePorts(raw interface{}) ([]model.Port, *ConfigError) {
	invalid := func(detail string, value interface{}) *ConfigError {
		return &ConfigError{
			Kind:   KindBadValue,
			Field:  "ports",
			Value:  value,
			Detail: fmt.Sprintf("Invalid ports specification. %s", detail),
		}
	}

	entries, ok := asList(raw)
	if !ok {
		return nil, errWrongType("ports", "'ports' must be a list of dictionaries", raw)
	}
	ports := make([]model.Port, 0, len(entries))
	for _, entry := range entries {
		portCfg, ok := asMapping(entry)
		if !ok {
			return nil, invalid(fmt.Sprintf("Port entry must be a dictionary; got type '%s'.", typeName(entry)), entry)
		}
		rawInternal, ok := portCfg["internal"]
		if !ok {
			return nil, invalid("Missing internal port.", entry)
		}
		internal, ok := asInt(rawInternal)
		if !ok {
			return nil, invalid(fmt.Sprintf("Internal port must be an int; got type '%s'.", typeName(rawInternal)), rawInternal)
		}
		rawExternal, ok := portCfg["external"]
		if !ok {
			return nil, invalid("Missing external port.", entry)
		}
		external, ok := asInt(rawExternal)
		if !ok {
			return nil, invalid(fmt.Sprintf("External port must be an int; got type '%s'.", typeName(rawExternal)), rawExternal)
		}
		if leftover := extraKeys(portCfg, "internal", "external"); len(leftover) > 0 {
			return nil, invalid(fmt.Sprintf("Unrecognised keys: %s.", joinSorted(leftover)), entry)
		}
		ports = append(ports, model.Port{Internal: internal, External: external})
	}
	return ports, nil
}

// parseNativeLinks validates the "links" stanza: a list of mappings each
// containing exactly "local_port" (int), "remote_port" (int), and
// "alias" (string). Ports are literal here — no resolution pass exists in
// the native dialect.
func parseNativeLinks(raw interface{}) ([]model.Link, *ConfigError) {
	invalid := func(detail string, value interface{}) *ConfigError {
		return &ConfigError{
			Kind:   KindBadValue,
			Field:  "links",
			Value:  value,
			Detail: fmt.Sprintf("Invalid links specification. %s", detail),
		}
	}

	entries, ok := asList(raw)
	if !ok {
		return nil, errWrongType("links", "'links' must be a list of dictionaries", raw)
	}
	links := make([]model.Link, 0, len(entries))
	for _, entry := range entries {
		linkCfg, ok := asMapping(entry)
		if !ok {
			return nil, invalid(fmt.Sprintf("Link must be a dictionary; got type '%s'.", typeName(entry)), entry)
		}
		rawLocal, ok := linkCfg["local_port"]
		if !ok {
			return nil, invalid("Missing local port.", entry)
		}
		localPort, ok := asInt(rawLocal)
		if !ok {
			return nil, invalid(fmt.Sprintf("Link's local port must be an int; got type '%s'.", typeName(rawLocal)), rawLocal)
		}
		rawRemote, ok := linkCfg["remote_port"]
		if !ok {
			return nil, invalid("Missing remote port.", entry)
		}
		remotePort, ok := asInt(rawRemote)
		if !ok {
			return nil, invalid(fmt.Sprintf("Link's remote port must be an int; got type '%s'.", typeName(rawRemote)), rawRemote)
		}
		rawAlias, ok := linkCfg["alias"]
		if !ok {
			return nil, invalid("Missing alias.", entry)
		}
		alias, ok := asString(rawAlias)
		if !ok {
			return nil, invalid(fmt.Sprintf("Link alias must be a string; got type '%s'.", typeName(rawAlias)), rawAlias)
		}
		if leftover := extraKeys(linkCfg, "local_port", "remote_port", "alias"); len(leftover) > 0 {
			return nil, invalid(fmt.Sprintf("Unrecognised keys: %s.", joinSorted(leftover)), entry)
		}
		links = append(links, model.Link{LocalPort: localPort, RemotePort: remotePort, Alias: alias})
	}
	return links, nil
}

// parseNativeVolume validates the "volume" stanza: a mapping containing
// exactly "mountpoint", an absolute path string.
//
// In lenient mode a null mountpoint is accepted and the volume is created
// with an unknown (empty) mountpoint. That mode exists for configurations
// derived from observed cluster state, where the real mountpoint cannot
// be recovered.
func parseNativeVolume(appName string, raw interface{}, lenient bool) (*model.AttachedVolume, *ConfigError) {
	invalid := func(detail string, value interface{}) *ConfigError {
		return &ConfigError{
			Kind:   KindBadValue,
			Field:  "volume",
			Value:  value,
			Detail: fmt.Sprintf("Invalid volume specification. %s", detail),
		}
	}

	volCfg, ok := asMapping(raw)
	if !ok {
		return nil, invalid(fmt.Sprintf("Unexpected value: %v", raw), raw)
	}
	rawMountpoint, ok := volCfg["mountpoint"]
	if !ok {
		return nil, invalid("Missing mountpoint.", raw)
	}
	if leftover := extraKeys(volCfg, "mountpoint"); len(leftover) > 0 {
		return nil, invalid(fmt.Sprintf("Unrecognised keys: %s.", joinSorted(leftover)), raw)
	}

	if rawMountpoint == nil && lenient {
		return &model.AttachedVolume{Name: appName}, nil
	}
	mountpoint, ok := asString(rawMountpoint)
	if !ok {
		return nil, invalid(fmt.Sprintf("Mountpoint %v must be a string; got type '%s'.", rawMountpoint, typeName(rawMountpoint)), rawMountpoint)
	}
	if !path.IsAbs(mountpoint) {
		return nil, invalid(fmt.Sprintf("Mountpoint %s is not an absolute path.", mountpoint), mountpoint)
	}
	return &model.AttachedVolume{Name: appName, Mountpoint: mountpoint}, nil
}

// parseNativeEnvironment validates the "environment" stanza the same way
// the fig dialect does: a mapping with string values. A declared-but-empty
// environment collapses to nil so "no variables" has one representation.
func parseNativeEnvironment(raw interface{}) (map[string]string, *ConfigError) {
	envCfg, ok := asMapping(raw)
	if !ok {
		return nil, errWrongType("environment", "'environment' must be a dictionary of key/value pairs", raw)
	}
	if len(envCfg) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(envCfg))
	for _, key := range sortedKeys(envCfg) {
		value, ok := asString(envCfg[key])
		if !ok {
			return nil, errWrongType("environment",
				fmt.Sprintf("Environment variable '%s' must be a string", key), envCfg[key])
		}
		env[key] = value
	}
	return env, nil
}

// extraKeys returns the keys of cfg outside the allowed list.
func extraKeys(cfg map[string]interface{}, allowed ...string) []string {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, key := range allowed {
		allowedSet[key] = struct{}{}
	}
	var extra []string
	for key := range cfg {
		if _, ok := allowedSet[key]; !ok {
			extra = append(extra, key)
		}
	}
	return extra
}
