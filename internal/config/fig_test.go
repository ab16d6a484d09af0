package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/convoy/internal/model"
)

// requireConfigError parses an application configuration expecting a
// failure, and returns the structured error for inspection.
func requireConfigError(t *testing.T, cfg map[string]interface{}) *ConfigError {
	t.Helper()
	_, err := figApplications(cfg)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	return cfgErr
}

// TestFig_MinimalApplication verifies that a definition with only an
// image parses into an Application with empty optional fields.
func TestFig_MinimalApplication(t *testing.T) {
	apps, err := figApplications(map[string]interface{}{
		"web": map[string]interface{}{"image": "nginx:latest"},
	})
	require.NoError(t, err)
	require.Len(t, apps, 1)

	web := apps["web"]
	assert.Equal(t, "web", web.Name)
	assert.Equal(t, "nginx", web.Image.Repository)
	assert.Equal(t, "latest", web.Image.Tag)
	assert.Empty(t, web.Ports)
	assert.Empty(t, web.Links)
	assert.Nil(t, web.Volume)
	assert.Nil(t, web.Environment)
}

// TestFig_BuildRejected verifies that "build", although it satisfies the
// identifying-key check, is rejected with the distinct not-supported
// error.
func TestFig_BuildRejected(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{"build": "."},
	})

	assert.Equal(t, KindUnsupportedKey, cfgErr.Kind)
	assert.Equal(t,
		"Application 'web' has a config error. 'build' is not supported yet; please specify 'image'.",
		cfgErr.Error())
}

// TestFig_MissingIdentifier verifies that a definition with neither
// identifying key is rejected.
func TestFig_MissingIdentifier(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{"ports": []interface{}{"8080:80"}},
	})

	assert.Equal(t, KindMissingKey, cfgErr.Kind)
	assert.Contains(t, cfgErr.Error(), "must contain either an 'image' or 'build' key")
}

// TestFig_NonMappingDefinition verifies the type check on the
// application definition itself.
func TestFig_NonMappingDefinition(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"web": []interface{}{"image"},
	})

	assert.Equal(t, KindWrongType, cfgErr.Kind)
	assert.Contains(t, cfgErr.Error(), "must be a dictionary")
	assert.Contains(t, cfgErr.Error(), "got type 'list'")
}

// TestFig_UnsupportedKeys verifies that recognized-but-unsupported fig
// directives produce the distinct unsupported-keys error with a sorted
// key list.
func TestFig_UnsupportedKeys(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{
			"image":       "nginx",
			"command":     "/run.sh",
			"entrypoint":  "/entry.sh",
			"working_dir": "/app",
		},
	})

	assert.Equal(t, KindUnsupportedKey, cfgErr.Kind)
	assert.Equal(t,
		"Application 'web' has a config error. Unsupported fig keys found: command, entrypoint, working_dir.",
		cfgErr.Error())
}

// TestFig_UnsupportedTakesPrecedence verifies that when both unsupported
// and unrecognised keys are present, the unsupported-keys error wins.
func TestFig_UnsupportedTakesPrecedence(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{
			"image":      "nginx",
			"command":    "/run.sh",  // recognized but unsupported
			"not_a_key":  true,       // unrecognised
			"also_wrong": "whatever", // unrecognised
		},
	})

	assert.Equal(t, KindUnsupportedKey, cfgErr.Kind)
	assert.Contains(t, cfgErr.Error(), "Unsupported fig keys found: command.")
}

// TestFig_UnrecognisedKeys verifies the generic unrecognised-keys error
// with a sorted key list.
func TestFig_UnrecognisedKeys(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{
			"image":  "nginx",
			"zzfoo":  1,
			"aabar":  2,
		},
	})

	assert.Equal(t, KindUnrecognisedKey, cfgErr.Kind)
	assert.Equal(t,
		"Application 'web' has a config error. Unrecognised keys: aabar, zzfoo.",
		cfgErr.Error())
}

// TestFig_Environment verifies that the environment mapping becomes the
// application's variable set and that non-string values are rejected.
func TestFig_Environment(t *testing.T) {
	apps, err := figApplications(map[string]interface{}{
		"web": map[string]interface{}{
			"image": "nginx",
			"environment": map[string]interface{}{
				"WEB_HOST": "example.com",
				"WEB_MODE": "production",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"WEB_HOST": "example.com",
		"WEB_MODE": "production",
	}, apps["web"].Environment)
}

// TestFig_EnvironmentNonString verifies the per-variable type error.
func TestFig_EnvironmentNonString(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{
			"image":       "nginx",
			"environment": map[string]interface{}{"PORT": 8080},
		},
	})

	assert.Equal(t, KindWrongType, cfgErr.Kind)
	assert.Contains(t, cfgErr.Error(), "'environment' value for 'PORT' must be a string")
}

// TestFig_SingleVolume verifies that exactly one volume string becomes an
// AttachedVolume named after the application.
func TestFig_SingleVolume(t *testing.T) {
	apps, err := figApplications(map[string]interface{}{
		"db": map[string]interface{}{
			"image":   "postgres",
			"volumes": []interface{}{"/data"},
		},
	})
	require.NoError(t, err)

	volume := apps["db"].Volume
	require.NotNil(t, volume)
	assert.Equal(t, "db", volume.Name)
	assert.Equal(t, "/data", volume.Mountpoint)
}

// TestFig_MultipleVolumes verifies that two or more volume strings are a
// hard error: multi-volume is unsupported by design.
func TestFig_MultipleVolumes(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"db": map[string]interface{}{
			"image":   "postgres",
			"volumes": []interface{}{"/data", "/backup"},
		},
	})

	assert.Equal(t, KindBadValue, cfgErr.Kind)
	assert.Contains(t, cfgErr.Error(), "Only one volume per application is supported")
}

// TestFig_Ports verifies "host:container" port parsing, including set
// deduplication.
func TestFig_Ports(t *testing.T) {
	apps, err := figApplications(map[string]interface{}{
		"web": map[string]interface{}{
			"image": "nginx",
			"ports": []interface{}{"8080:80", "8443:443", "8080:80"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.Port{
		{Internal: 80, External: 8080},
		{Internal: 443, External: 8443},
	}, apps["web"].Ports)
}

// TestFig_PortsMalformed verifies the two failure modes of port specs:
// not a two-part string, and non-integer parts. The error names the
// offending value.
func TestFig_PortsMalformed(t *testing.T) {
	missingColon := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{
			"image": "nginx",
			"ports": []interface{}{"8080"},
		},
	})
	assert.Equal(t, KindBadValue, missingColon.Kind)
	assert.Contains(t, missingColon.Error(), "'host_port:container_port'")

	nonInteger := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{
			"image": "nginx",
			"ports": []interface{}{"eighty:80"},
		},
	})
	assert.Equal(t, KindBadValue, nonInteger.Kind)
	assert.Contains(t, nonInteger.Error(), "'ports' value 'eighty:80' could not be parsed")
}

// TestFig_LinkResolution verifies the canonical two-pass resolution: a
// link directive against a one-port target yields one Link whose local
// port is the target's internal port, remote port the target's external
// port, and alias the bare target name.
func TestFig_LinkResolution(t *testing.T) {
	apps, err := figApplications(map[string]interface{}{
		"web": map[string]interface{}{
			"image": "nginx",
			"links": []interface{}{"db"},
		},
		"db": map[string]interface{}{
			"image": "postgres",
			"ports": []interface{}{"5432:5432"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.Link{
		{LocalPort: 5432, RemotePort: 5432, Alias: "db"},
	}, apps["web"].Links)
	assert.Empty(t, apps["db"].Links)
}

// TestFig_LinkAlias verifies that the "name:alias" form exposes the link
// under the alias rather than the target name.
func TestFig_LinkAlias(t *testing.T) {
	apps, err := figApplications(map[string]interface{}{
		"web": map[string]interface{}{
			"image": "nginx",
			"links": []interface{}{"db:database"},
		},
		"db": map[string]interface{}{
			"image": "postgres",
			"ports": []interface{}{"5432:5432"},
		},
	})
	require.NoError(t, err)

	require.Len(t, apps["web"].Links, 1)
	assert.Equal(t, "database", apps["web"].Links[0].Alias)
}

// TestFig_LinkMultiPortTarget verifies that a directive against a target
// with N ports expands to N links under the same alias.
func TestFig_LinkMultiPortTarget(t *testing.T) {
	apps, err := figApplications(map[string]interface{}{
		"web": map[string]interface{}{
			"image": "nginx",
			"links": []interface{}{"api"},
		},
		"api": map[string]interface{}{
			"image": "internal/api",
			"ports": []interface{}{"9000:9000", "9001:9001"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.Link{
		{LocalPort: 9000, RemotePort: 9000, Alias: "api"},
		{LocalPort: 9001, RemotePort: 9001, Alias: "api"},
	}, apps["web"].Links)
}

// TestFig_ForwardReference verifies that a link may name an application
// defined later in the document: pass 1 builds the complete table before
// pass 2 resolves anything.
func TestFig_ForwardReference(t *testing.T) {
	// "aaa" sorts (and therefore parses) before "zzz" but links to it.
	apps, err := figApplications(map[string]interface{}{
		"aaa": map[string]interface{}{
			"image": "nginx",
			"links": []interface{}{"zzz"},
		},
		"zzz": map[string]interface{}{
			"image": "redis",
			"ports": []interface{}{"6379:6379"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.Link{
		{LocalPort: 6379, RemotePort: 6379, Alias: "zzz"},
	}, apps["aaa"].Links)
}

// TestFig_LinkUnknownTarget verifies that a directive naming an
// application absent from the whole configuration is an unresolved
// reference naming both the directive and the missing application.
func TestFig_LinkUnknownTarget(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{
			"image": "nginx",
			"links": []interface{}{"ghost:db"},
		},
	})

	assert.Equal(t, KindUnresolvedReference, cfgErr.Kind)
	assert.Equal(t,
		"Application 'web' has a config error. 'links' value 'ghost:db' could not be mapped "+
			"to any application; application 'ghost' does not exist.",
		cfgErr.Error())
}

// TestFig_InvalidImage verifies that the image reference parser's
// rejection is wrapped with the owning application's name.
func TestFig_InvalidImage(t *testing.T) {
	cfgErr := requireConfigError(t, map[string]interface{}{
		"web": map[string]interface{}{"image": "Not A Valid Image"},
	})

	assert.Equal(t, KindBadValue, cfgErr.Kind)
	assert.Equal(t, "web", cfgErr.Application)
	assert.Contains(t, cfgErr.Error(), "Invalid Docker image name.")
}
