// deployment.go implements the model assembler: it joins the validated
// application table with the deployment-intent mapping
// ({"version": 1, "nodes": {hostname: [application-name, ...]}}) into
// the terminal Deployment model.
//
// Assembly runs strictly after both front ends and the link resolver, so
// every application name a node lists either resolves against the
// complete table or is a hard error — a Deployment can never carry a
// dangling reference.
package config

import (
	"fmt"

	"github.com/mmr-tortoise/convoy/internal/model"
)

// deploymentFromConfiguration validates the deployment-intent mapping and
// builds one Node per declared hostname.
func deploymentFromConfiguration(cfg map[string]interface{}, apps map[string]model.Application) ([]model.Node, error) {
	rawNodes, ok := cfg["nodes"]
	if !ok {
		err := errMissingKey("nodes")
		err.Section = "Deployment"
		return nil, err
	}
	if err := checkVersion(cfg, "Deployment"); err != nil {
		return nil, err
	}
	nodesCfg, ok := asMapping(rawNodes)
	if !ok {
		err := errWrongType("nodes", "'nodes' must be a dictionary", rawNodes)
		err.Section = "Deployment"
		return nil, err
	}

	nodes := make([]model.Node, 0, len(nodesCfg))
	for _, hostname := range sortedKeys(nodesCfg) {
		node, err := parseNode(hostname, nodesCfg[hostname], apps)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// parseNode validates one hostname entry: a list of application names
// that must all resolve against the already-built application table.
func parseNode(hostname string, raw interface{}, apps map[string]model.Application) (model.Node, error) {
	fail := func(err *ConfigError) (model.Node, error) {
		return model.Node{}, err.forNode(hostname)
	}

	names, ok := asList(raw)
	if !ok {
		return fail(&ConfigError{
			Kind:   KindWrongType,
			Value:  raw,
			Detail: fmt.Sprintf("Wrong value type: %s. Should be list.", typeName(raw)),
		})
	}

	nodeApps := make([]model.Application, 0, len(names))
	for _, rawName := range names {
		name, ok := asString(rawName)
		if !ok {
			return fail(errWrongType("", "Application names must be strings", rawName))
		}
		app, ok := apps[name]
		if !ok {
			return fail(&ConfigError{
				Kind:   KindUnresolvedReference,
				Value:  name,
				Detail: fmt.Sprintf("Unrecognised application name: %s.", name),
			})
		}
		nodeApps = append(nodeApps, app)
	}

	return model.Node{
		Hostname:     hostname,
		Applications: model.SortApplications(nodeApps),
	}, nil
}
