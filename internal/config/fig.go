// fig.go implements the compose-style ("fig") front end.
//
// Parsing is a pure two-pass pipeline. The first pass validates every
// application definition and produces the complete name-keyed application
// table plus a table of still-symbolic link directives — a directive may
// name an application that appears later in the document, so nothing is
// resolved while the table is incomplete. The second pass resolves every
// directive by table lookup, expanding each one into one Link per port of
// the target application.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/convoy/internal/image"
	"github.com/mmr-tortoise/convoy/internal/model"
)

// figAllowedKeys is the set of fig directives convoy supports in an
// application definition.
var figAllowedKeys = map[string]struct{}{
	"image":       {},
	"environment": {},
	"ports":       {},
	"links":       {},
	"volumes":     {},
}

// figUnsupportedKeys is the set of fig directives convoy recognizes but
// does not support. Their presence produces a distinct error that takes
// precedence over the generic unrecognised-keys error, because "known but
// unsupported" is more actionable feedback than "unknown".
var figUnsupportedKeys = map[string]struct{}{
	"working_dir":  {},
	"entrypoint":   {},
	"user":         {},
	"hostname":     {},
	"domainname":   {},
	"mem_limit":    {},
	"privileged":   {},
	"dns":          {},
	"net":          {},
	"volumes_from": {},
	"expose":       {},
	"command":      {},
}

// linkDirective is one still-symbolic "links" entry: the target
// application's name and the alias the link should be exposed under.
type linkDirective struct {
	target string
	alias  string
}

// figApplications validates and parses a fig-dialect configuration into
// the canonical application table. The caller must have already detected
// the dialect via IsFigFormat.
func figApplications(cfg map[string]interface{}) (map[string]model.Application, error) {
	// Pass 1: build the complete application table; links stay symbolic.
	apps := make(map[string]model.Application, len(cfg))
	pending := make(map[string][]linkDirective, len(cfg))
	for _, name := range sortedKeys(cfg) {
		app, directives, err := parseFigApplication(name, cfg[name], cfg)
		if err != nil {
			return nil, err
		}
		apps[name] = app
		pending[name] = directives
	}

	// Pass 2: the table is complete; resolve every directive against it.
	if err := resolveFigLinks(apps, pending); err != nil {
		return nil, err
	}
	return apps, nil
}

// parseFigApplication validates one application definition and returns
// the Application (links empty) plus its symbolic link directives.
//
// cfg is the whole configuration mapping; link targets are checked for
// existence against its key set, which permits forward references to
// applications that have not been parsed yet.
func parseFigApplication(name string, raw interface{}, cfg map[string]interface{}) (model.Application, []linkDirective, error) {
	fail := func(err *ConfigError) (model.Application, []linkDirective, error) {
		return model.Application{}, nil, err.forApplication(name)
	}

	appCfg, ok := asMapping(raw)
	if !ok {
		return fail(errWrongType("", "Application configuration must be a dictionary", raw))
	}

	// Identifying-key grammar. Zero identifiers means the entry cannot be
	// interpreted at all; "build", though it satisfies the identifying-key
	// check, names a feature convoy does not implement.
	if countIdentifierKeys(appCfg) == 0 {
		return fail(&ConfigError{
			Kind:   KindMissingKey,
			Detail: "Application configuration must contain either an 'image' or 'build' key.",
		})
	}
	if _, ok := appCfg["build"]; ok {
		return fail(&ConfigError{
			Kind:   KindUnsupportedKey,
			Field:  "build",
			Detail: "'build' is not supported yet; please specify 'image'.",
		})
	}

	// Key-set check. Unsupported-but-recognized keys are reported before
	// plain unrecognised keys when both are present.
	var unsupported, unrecognised []string
	for key := range appCfg {
		if _, ok := figUnsupportedKeys[key]; ok {
			unsupported = append(unsupported, key)
		} else if _, ok := figAllowedKeys[key]; !ok {
			unrecognised = append(unrecognised, key)
		}
	}
	if len(unsupported) > 0 {
		return fail(&ConfigError{
			Kind:   KindUnsupportedKey,
			Detail: fmt.Sprintf("Unsupported fig keys found: %s.", joinSorted(unsupported)),
		})
	}
	if len(unrecognised) > 0 {
		return fail(errUnrecognisedKeys(unrecognised))
	}

	imageName, ok := asString(appCfg["image"])
	if !ok {
		return fail(errWrongType("image", "'image' must be a string", appCfg["image"]))
	}
	img, err := image.Parse(imageName)
	if err != nil {
		return fail(errBadValue("image", fmt.Sprintf("Invalid Docker image name. %v.", err), imageName))
	}

	app := model.Application{Name: name, Image: img}

	if rawEnv, ok := appCfg["environment"]; ok {
		env, err := parseFigEnvironment(rawEnv)
		if err != nil {
			return fail(err)
		}
		app.Environment = env
	}
	if rawVolumes, ok := appCfg["volumes"]; ok {
		volume, err := parseFigVolumes(name, rawVolumes)
		if err != nil {
			return fail(err)
		}
		app.Volume = volume
	}
	if rawPorts, ok := appCfg["ports"]; ok {
		ports, err := parseFigPorts(rawPorts)
		if err != nil {
			return fail(err)
		}
		app.Ports = model.NormalizePorts(ports)
	}

	var directives []linkDirective
	if rawLinks, ok := appCfg["links"]; ok {
		var linkErr *ConfigError
		directives, linkErr = parseFigLinks(rawLinks, cfg)
		if linkErr != nil {
			return fail(linkErr)
		}
	}

	return app, directives, nil
}

// parseFigEnvironment validates the "environment" stanza: a mapping whose
// values are all strings. The result is the set of (key, value) pairs.
func parseFigEnvironment(raw interface{}) (map[string]string, *ConfigError) {
	envCfg, ok := asMapping(raw)
	if !ok {
		return nil, errWrongType("environment", "'environment' must be a dictionary", raw)
	}
	env := make(map[string]string, len(envCfg))
	for _, key := range sortedKeys(envCfg) {
		value, ok := asString(envCfg[key])
		if !ok {
			return nil, errWrongType("environment",
				fmt.Sprintf("'environment' value for '%s' must be a string", key), envCfg[key])
		}
		env[key] = value
	}
	return env, nil
}

// parseFigVolumes validates the "volumes" stanza: a list of path strings
// of which at most one is allowed. Unlike the native dialect, no
// absoluteness check is applied here — fig tolerated relative paths and
// existing configurations rely on that.
func parseFigVolumes(appName string, raw interface{}) (*model.AttachedVolume, *ConfigError) {
	volumes, ok := asList(raw)
	if !ok {
		return nil, errWrongType("volumes", "'volumes' must be a list", raw)
	}
	paths := make([]string, 0, len(volumes))
	for _, v := range volumes {
		path, ok := asString(v)
		if !ok {
			return nil, errWrongType("volumes", "'volumes' values must be string", v)
		}
		paths = append(paths, path)
	}
	switch len(paths) {
	case 0:
		return nil, nil
	case 1:
		return &model.AttachedVolume{Name: appName, Mountpoint: paths[0]}, nil
	default:
		return nil, errBadValue("volumes",
			"Only one volume per application is supported at this time.", raw)
	}
}

// parseFigPorts validates the "ports" stanza: a list of
// "host_port:container_port" strings paired into Port values.
func parseFigPorts(raw interface{}) ([]model.Port, *ConfigError) {
	entries, ok := asList(raw)
	if !ok {
		return nil, errWrongType("ports", "'ports' must be a list", raw)
	}
	ports := make([]model.Port, 0, len(entries))
	for _, entry := range entries {
		spec, ok := asString(entry)
		parts := strings.Split(spec, ":")
		if !ok || len(parts) != 2 {
			return nil, errBadValue("ports",
				"'ports' must be a list of string values in the form of 'host_port:container_port'.", entry)
		}
		external, errExt := strconv.Atoi(parts[0])
		internal, errInt := strconv.Atoi(parts[1])
		if errExt != nil || errInt != nil {
			return nil, errBadValue("ports",
				fmt.Sprintf("'ports' value '%s' could not be parsed into integer values.", spec), spec)
		}
		ports = append(ports, model.Port{Internal: internal, External: external})
	}
	return ports, nil
}

// parseFigLinks validates the "links" stanza: a list of "name" or
// "name:alias" strings. Each named target must exist as a key of the
// overall configuration (not necessarily parsed yet); resolution against
// the target's ports is deferred to the second pass.
func parseFigLinks(raw interface{}, cfg map[string]interface{}) ([]linkDirective, *ConfigError) {
	entries, ok := asList(raw)
	if !ok {
		return nil, errWrongType("links", "'links' must be a list", raw)
	}
	directives := make([]linkDirective, 0, len(entries))
	for _, entry := range entries {
		spec, ok := asString(entry)
		if !ok {
			return nil, errWrongType("links",
				"'links' must be a list of application names with optional :alias", entry)
		}
		parts := strings.SplitN(spec, ":", 2)
		directive := linkDirective{target: parts[0], alias: parts[0]}
		if len(parts) == 2 {
			directive.alias = parts[1]
		}
		if _, ok := cfg[directive.target]; !ok {
			return nil, &ConfigError{
				Kind:  KindUnresolvedReference,
				Field: "links",
				Value: spec,
				Detail: fmt.Sprintf("'links' value '%s' could not be mapped to any application; "+
					"application '%s' does not exist.", spec, directive.target),
			}
		}
		directives = append(directives, directive)
	}
	return directives, nil
}

// resolveFigLinks fills in each application's Links from its recorded
// directives. A directive against a target with N ports expands to N
// links: local port = the target's internal port, remote port = the
// target's external port, alias = the directive's alias.
//
// Pass 1 already verified every target name, so a lookup miss here would
// indicate a bug rather than bad input; it is still reported as an
// unresolved reference rather than a panic.
func resolveFigLinks(apps map[string]model.Application, pending map[string][]linkDirective) *ConfigError {
	for name, directives := range pending {
		var links []model.Link
		for _, directive := range directives {
			target, ok := apps[directive.target]
			if !ok {
				return (&ConfigError{
					Kind:   KindUnresolvedReference,
					Field:  "links",
					Value:  directive.target,
					Detail: fmt.Sprintf("'links' target '%s' does not exist.", directive.target),
				}).forApplication(name)
			}
			for _, port := range target.Ports {
				links = append(links, model.Link{
					LocalPort:  port.Internal,
					RemotePort: port.External,
					Alias:      directive.alias,
				})
			}
		}
		app := apps[name]
		app.Links = model.NormalizeLinks(links)
		apps[name] = app
	}
	return nil
}
