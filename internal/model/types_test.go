package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/convoy/internal/image"
)

// TestPortString verifies the "external:internal" rendering used in CLI
// output and fig-style port specs.
func TestPortString(t *testing.T) {
	port := Port{Internal: 80, External: 8080}
	assert.Equal(t, "8080:80", port.String())
}

// TestNormalizePorts verifies that port sets are sorted and duplicate
// identical mappings collapse, giving structural set semantics.
func TestNormalizePorts(t *testing.T) {
	ports := []Port{
		{Internal: 443, External: 8443},
		{Internal: 80, External: 8080},
		{Internal: 443, External: 8443}, // duplicate collapses
	}

	normalized := NormalizePorts(ports)

	require.Len(t, normalized, 2)
	assert.Equal(t, Port{Internal: 80, External: 8080}, normalized[0])
	assert.Equal(t, Port{Internal: 443, External: 8443}, normalized[1])

	// The input slice must not be modified.
	assert.Equal(t, Port{Internal: 443, External: 8443}, ports[0])
}

// TestNormalizePorts_Empty verifies that "no ports" has a single
// canonical representation (nil) regardless of input shape.
func TestNormalizePorts_Empty(t *testing.T) {
	assert.Nil(t, NormalizePorts(nil))
	assert.Nil(t, NormalizePorts([]Port{}))
}

// TestNormalizeLinks verifies sorting and value deduplication of links.
func TestNormalizeLinks(t *testing.T) {
	links := []Link{
		{LocalPort: 5432, RemotePort: 5432, Alias: "db"},
		{LocalPort: 6379, RemotePort: 6379, Alias: "cache"},
		{LocalPort: 5432, RemotePort: 5432, Alias: "db"}, // duplicate collapses
	}

	normalized := NormalizeLinks(links)

	require.Len(t, normalized, 2)
	assert.Equal(t, "cache", normalized[0].Alias)
	assert.Equal(t, "db", normalized[1].Alias)
}

// TestNewDeployment_OrderIndependence verifies that two deployments built
// from the same logical content in different orders compare equal —
// the structural-equality contract the downstream engine relies on.
func TestNewDeployment_OrderIndependence(t *testing.T) {
	web := Application{Name: "web", Image: image.Image{Repository: "nginx", Tag: "latest"}}
	db := Application{Name: "db", Image: image.Image{Repository: "postgres", Tag: "9.3"}}

	a := NewDeployment([]Node{
		{Hostname: "node2", Applications: []Application{db}},
		{Hostname: "node1", Applications: []Application{db, web}},
	})
	b := NewDeployment([]Node{
		{Hostname: "node1", Applications: []Application{web, db}},
		{Hostname: "node2", Applications: []Application{db}},
	})

	assert.Equal(t, a, b)
}

// TestDeploymentApplications verifies the cross-node application view is
// sorted by name.
func TestDeploymentApplications(t *testing.T) {
	web := Application{Name: "web"}
	db := Application{Name: "db"}

	deployment := NewDeployment([]Node{
		{Hostname: "node1", Applications: []Application{web}},
		{Hostname: "node2", Applications: []Application{db}},
	})

	apps := deployment.Applications()
	require.Len(t, apps, 2)
	assert.Equal(t, "db", apps[0].Name)
	assert.Equal(t, "web", apps[1].Name)
}

// TestCLIError verifies the message rendering and error unwrapping of the
// exit-code-bearing CLI error.
func TestCLIError(t *testing.T) {
	base := errors.New("underlying failure")
	wrapped := WrapCLIError(ExitConfigInvalid, "configuration rejected", base)

	assert.Equal(t, "configuration rejected: underlying failure", wrapped.Error())
	assert.Equal(t, ExitConfigInvalid, wrapped.Code)
	assert.ErrorIs(t, wrapped, base, "errors.Is must see through Unwrap")

	plain := NewCLIError(ExitGeneralError, "something went wrong")
	assert.Equal(t, "something went wrong", plain.Error())
	assert.Nil(t, plain.Unwrap())
}
