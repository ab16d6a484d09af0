// snapshot.go converts the Docker daemon's running containers into the
// canonical Application model for observed-state reporting.
package inspect

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"

	"github.com/mmr-tortoise/convoy/internal/image"
	"github.com/mmr-tortoise/convoy/internal/model"
)

// Snapshot queries the Docker daemon for all running containers and
// returns them as Application values, sorted by name.
//
// Only running containers participate: the observed-state model describes
// what a node is currently serving, and a stopped container serves
// nothing. Containers whose image reference cannot be parsed (bare image
// IDs, for instance) are still reported — the reverse projector replaces
// image identity with a placeholder regardless, so an unparseable
// reference must not hide an otherwise running application.
func Snapshot(ctx context.Context, cli *Client) ([]model.Application, error) {
	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	apps := make([]model.Application, 0, len(containers))
	for _, c := range containers {
		apps = append(apps, containerToApplication(c))
	}
	return model.SortApplications(apps), nil
}

// containerToApplication converts one Docker API container summary into
// an Application. This is a pure mapping function with no side effects.
func containerToApplication(c types.Container) model.Application {
	app := model.Application{
		Name:  containerName(c),
		Image: observedImage(c.Image),
	}

	// Only published ports map onto the model: an unpublished container
	// port has no host side and therefore no Port value.
	var ports []model.Port
	for _, p := range c.Ports {
		if p.PublicPort == 0 {
			continue
		}
		ports = append(ports, model.Port{
			Internal: int(p.PrivatePort),
			External: int(p.PublicPort),
		})
	}
	app.Ports = model.NormalizePorts(ports)

	// One volume per application is the model's invariant, so only the
	// first mount is observed. The destination is the in-container
	// mountpoint; the projector discards it as unknowable anyway.
	if len(c.Mounts) > 0 {
		app.Volume = &model.AttachedVolume{
			Name:       app.Name,
			Mountpoint: c.Mounts[0].Destination,
		}
	}

	return app
}

// containerName extracts the primary container name, stripping the
// leading "/" the Docker API prefixes onto every name.
func containerName(c types.Container) string {
	if len(c.Names) == 0 {
		// Fall back to the ID prefix; the API always returns at least
		// one name for listed containers, so this is a guard, not an
		// expected path.
		if len(c.ID) >= 12 {
			return c.ID[:12]
		}
		return c.ID
	}
	return strings.TrimPrefix(c.Names[0], "/")
}

// observedImage parses a container's image reference, falling back to the
// placeholder repository when the reference is not a parseable name
// (e.g. a bare image ID).
func observedImage(ref string) image.Image {
	img, err := image.Parse(ref)
	if err != nil {
		return image.Image{Repository: "unknown", Tag: "latest"}
	}
	return img
}
