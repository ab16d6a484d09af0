// types.go defines the canonical deployment model produced by the
// configuration front ends (see internal/config).
//
// The model hierarchy is:
//
//	Deployment → set<Node> → set<Application> → ports / links / volume
//
// Regardless of which input dialect (fig or native) a configuration was
// written in, the front ends always produce this one canonical model.
// Collections are value sets: NormalizePorts, NormalizeLinks, and friends
// sort and deduplicate so structural comparison is order-independent.
package model

import (
	"fmt"
	"sort"

	"github.com/mmr-tortoise/convoy/internal/image"
)

// Port represents a single host↔container port mapping for an application.
//
// Internal is the port the application listens on inside its container;
// External is the port exposed on the node that runs it. Duplicate
// identical mappings collapse under set semantics; there is no further
// uniqueness invariant.
type Port struct {
	// Internal is the container-side port number.
	Internal int `json:"internal" yaml:"internal"`

	// External is the host-side port number.
	External int `json:"external" yaml:"external"`
}

// String returns a human-readable "external:internal" representation,
// matching the host:container convention used by the fig dialect.
func (p Port) String() string {
	return fmt.Sprintf("%d:%d", p.External, p.Internal)
}

// Link represents one resolved network link from an application to one
// port of another application. The linked port is exposed to the dependent
// application's environment under Alias.
//
// Links are always concrete: symbolic fig-dialect link directives are
// resolved against the target application's port set before any Link
// value is created.
type Link struct {
	// LocalPort is the port the dependent application connects to,
	// i.e. the target's internal port.
	LocalPort int `json:"localPort" yaml:"local_port"`

	// RemotePort is the target's external port on its node.
	RemotePort int `json:"remotePort" yaml:"remote_port"`

	// Alias is the name under which the link is exposed to the
	// dependent application.
	Alias string `json:"alias" yaml:"alias"`
}

// AttachedVolume represents the single data volume an application may own.
// Multi-volume applications are unsupported by design, which is why
// Application carries at most one of these rather than a list.
type AttachedVolume struct {
	// Name identifies the volume. Until multiple volumes are supported
	// it always matches the owning application's name.
	Name string `json:"name" yaml:"name"`

	// Mountpoint is the absolute path where the volume is mounted inside
	// the container. It is empty when the real mountpoint is not knowable,
	// which happens when the volume was reconstructed from observed
	// cluster state (lenient parsing mode).
	Mountpoint string `json:"mountpoint,omitempty" yaml:"mountpoint,omitempty"`
}

// Application is a single containerized application as declared in a
// configuration. Name is the unique key within one configuration; the
// front ends parse configurations out of name-keyed mappings, so a
// duplicate name can never survive decoding.
//
// An Application is created by a front end with Links empty, filled in by
// the link-resolution pass, and never mutated again.
type Application struct {
	// Name is the application's unique name within its configuration.
	Name string `json:"name"`

	// Image is the parsed container image reference to run.
	Image image.Image `json:"image"`

	// Ports is the value set of host↔container port mappings.
	Ports []Port `json:"ports,omitempty"`

	// Volume is the application's single attached volume, or nil if the
	// application has none.
	Volume *AttachedVolume `json:"volume,omitempty"`

	// Links is the value set of resolved links to other applications.
	Links []Link `json:"links,omitempty"`

	// Environment holds the application's environment variables, or nil
	// if the configuration declared none. A map is already a set of
	// (key, value) pairs, so no extra normalization is needed.
	Environment map[string]string `json:"environment,omitempty"`
}

// Node pairs a hostname with the value set of applications deployed on it.
// Nodes are built only after every Application has been validated; an
// application-name reference that does not resolve is a hard error in the
// model assembler, so a Node can never hold a dangling reference.
type Node struct {
	// Hostname identifies the node.
	Hostname string `json:"hostname"`

	// Applications is the value set of applications running on this node.
	Applications []Application `json:"applications,omitempty"`
}

// Deployment is the terminal, fully validated model handed to the
// orchestration engine: the value set of all nodes in the cluster.
type Deployment struct {
	// Nodes is the value set of nodes in this deployment.
	Nodes []Node `json:"nodes,omitempty"`
}

// NormalizePorts returns ports sorted and deduplicated by value.
// The input slice is not modified. A nil or empty input returns nil,
// so "no ports" has a single canonical representation.
func NormalizePorts(ports []Port) []Port {
	if len(ports) == 0 {
		return nil
	}
	out := make([]Port, len(ports))
	copy(out, ports)
	sort.Slice(out, func(i, j int) bool {
		if out[i].External != out[j].External {
			return out[i].External < out[j].External
		}
		return out[i].Internal < out[j].Internal
	})
	return dedupPorts(out)
}

// dedupPorts removes adjacent duplicates from an already sorted slice.
func dedupPorts(sorted []Port) []Port {
	out := sorted[:1]
	for _, p := range sorted[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeLinks returns links sorted and deduplicated by value.
// The input slice is not modified; nil or empty input returns nil.
func NormalizeLinks(links []Link) []Link {
	if len(links) == 0 {
		return nil
	}
	out := make([]Link, len(links))
	copy(out, links)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Alias != out[j].Alias {
			return out[i].Alias < out[j].Alias
		}
		if out[i].LocalPort != out[j].LocalPort {
			return out[i].LocalPort < out[j].LocalPort
		}
		return out[i].RemotePort < out[j].RemotePort
	})
	deduped := out[:1]
	for _, l := range out[1:] {
		if l != deduped[len(deduped)-1] {
			deduped = append(deduped, l)
		}
	}
	return deduped
}

// SortApplications returns applications sorted by name. Names are unique
// within one configuration, so no deduplication is performed beyond that
// key. The input slice is not modified.
func SortApplications(apps []Application) []Application {
	if len(apps) == 0 {
		return nil
	}
	out := make([]Application, len(apps))
	copy(out, apps)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// NewDeployment builds a Deployment from a set of nodes, normalizing node
// order by hostname and each node's application order by name so that two
// deployments built from the same logical content compare equal.
func NewDeployment(nodes []Node) Deployment {
	if len(nodes) == 0 {
		return Deployment{}
	}
	out := make([]Node, len(nodes))
	copy(out, nodes)
	for i := range out {
		out[i].Applications = SortApplications(out[i].Applications)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Hostname < out[j].Hostname
	})
	return Deployment{Nodes: out}
}

// Applications returns the union of all applications across all nodes,
// sorted by name. This is the view the reverse projector and the
// downstream orchestration engine typically want.
func (d Deployment) Applications() []Application {
	var all []Application
	for _, node := range d.Nodes {
		all = append(all, node.Applications...)
	}
	return SortApplications(all)
}
