// config.go exposes the package's public operations. Everything here is
// pure computation over already-decoded mappings: no I/O, no shared
// state, one validation pass per call.
package config

import (
	"github.com/mmr-tortoise/convoy/internal/model"
)

// ApplicationsFromConfiguration detects the dialect of the supplied
// application configuration and parses it with the matching front end,
// returning the validated name-keyed application table with all links
// resolved.
func ApplicationsFromConfiguration(cfg map[string]interface{}) (map[string]model.Application, error) {
	return applicationsFromConfiguration(cfg, false)
}

// applicationsFromConfiguration is the dialect dispatch shared by the
// strict and lenient entry points. Lenient mode only affects the native
// front end's volume handling; the fig dialect has no notion of an
// unknown mountpoint.
func applicationsFromConfiguration(cfg map[string]interface{}, lenient bool) (map[string]model.Application, error) {
	isFig, err := IsFigFormat(cfg)
	if err != nil {
		return nil, err
	}
	if isFig {
		return figApplications(cfg)
	}
	return nativeApplications(cfg, lenient)
}

// ModelFromConfiguration validates and compiles the supplied application
// configuration and deployment configuration into a Deployment.
//
// Any validation failure anywhere aborts the whole pass with a
// *ConfigError; no partial model is ever returned.
func ModelFromConfiguration(applicationCfg, deploymentCfg map[string]interface{}) (model.Deployment, error) {
	apps, err := applicationsFromConfiguration(applicationCfg, false)
	if err != nil {
		return model.Deployment{}, err
	}
	nodes, err := deploymentFromConfiguration(deploymentCfg, apps)
	if err != nil {
		return model.Deployment{}, err
	}
	return model.NewDeployment(nodes), nil
}

// CurrentFromConfiguration validates and compiles an observed-state
// configuration — a mapping of hostname to that node's application
// configuration, typically aggregated from per-node reports — into a
// Deployment.
//
// Parsing runs in lenient mode: observed volumes legitimately carry an
// unknown mountpoint (see ConfigurationToYAML), so a null mountpoint is
// tolerated here and nowhere else.
func CurrentFromConfiguration(currentCfg map[string]interface{}) (model.Deployment, error) {
	nodes := make([]model.Node, 0, len(currentCfg))
	for _, hostname := range sortedKeys(currentCfg) {
		appCfg, ok := asMapping(currentCfg[hostname])
		if !ok {
			err := errWrongType("", "Node configuration must be a dictionary", currentCfg[hostname])
			return model.Deployment{}, err.forNode(hostname)
		}
		apps, err := applicationsFromConfiguration(appCfg, true)
		if err != nil {
			return model.Deployment{}, err
		}
		nodeApps := make([]model.Application, 0, len(apps))
		for _, app := range apps {
			nodeApps = append(nodeApps, app)
		}
		nodes = append(nodes, model.Node{
			Hostname:     hostname,
			Applications: model.SortApplications(nodeApps),
		})
	}
	return model.NewDeployment(nodes), nil
}
