package dataset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.webuitest/pkg/logging"
)

func sampleCommon() Document {
	return Document{
		"site": map[string]any{
			"base_url": "https://x.test",
			"port":     float64(8443),
			"secure":   true,
			"paths":    []any{"/a", "/b"},
		},
		"accounts": map[string]any{
			"admin": map[string]any{"username": "root", "password": "pw"},
		},
		"flat": "value",
	}
}

func TestResolve_ExampleFromDocs(t *testing.T) {
	common := Document{"site": map[string]any{"base_url": "https://x.test"}}
	envDoc := Document{"urls": map[string]any{"home": "${common.site.base_url}"}}

	got := Resolve(envDoc, common)

	assert.Equal(t, map[string]any{
		"urls": map[string]any{"home": "https://x.test"},
	}, got)
}

func TestResolve_TypePreserving(t *testing.T) {
	common := sampleCommon()

	tests := []struct {
		name string
		ref  string
		want any
	}{
		{"string", "${common.site.base_url}", "https://x.test"},
		{"number", "${common.site.port}", float64(8443)},
		{"bool", "${common.site.secure}", true},
		{"sequence", "${common.site.paths}", []any{"/a", "/b"}},
		{"mapping", "${common.accounts.admin}",
			map[string]any{"username": "root", "password": "pw"}},
		{"top level", "${common.flat}", "value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.ref, common))
		})
	}
}

func TestResolve_Unresolvable(t *testing.T) {
	common := sampleCommon()

	tests := []struct {
		name string
		ref  string
	}{
		{"missing key", "${common.missing.path}"},
		{"missing leaf", "${common.site.nope}"},
		{"through scalar", "${common.flat.deeper}"},
		{"through sequence", "${common.site.paths.0}"},
		{"other root", "${env.site.base_url}"},
		{"empty path", "${}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewResolver(common, logging.NewConsoleLoggerTo(&buf, false))

			assert.Equal(t, tt.ref, r.Resolve(tt.ref))
			assert.Contains(t, buf.String(), "WARN")
			assert.Contains(t, buf.String(), "unresolved test data reference")
		})
	}
}

func TestResolve_EmptyCommon(t *testing.T) {
	assert.Equal(t, "${common.site}", Resolve("${common.site}", Document{}))
	assert.Equal(t, "${common.site}", Resolve("${common.site}", nil))
}

func TestResolve_NonPlaceholderScalarsAreIdentity(t *testing.T) {
	common := sampleCommon()
	for _, v := range []any{
		"plain", "${common.site", "common.site}", "$common.site",
		"prefix ${common.flat}", float64(3), 7, true, nil,
	} {
		assert.Equal(t, v, Resolve(v, common))
	}
}

func TestResolve_MixedMappingPreservesKeys(t *testing.T) {
	common := sampleCommon()
	envDoc := Document{
		"name":    "staging",
		"retries": float64(2),
		"enabled": false,
		"none":    nil,
		"home":    "${common.site.base_url}",
		"bad":     "${common.nope}",
		"list": []any{
			"${common.flat}",
			map[string]any{"u": "${common.accounts.admin.username}"},
			float64(1),
		},
	}

	got := Resolve(envDoc, common).(map[string]any)

	assert.Len(t, got, len(envDoc))
	assert.Equal(t, "staging", got["name"])
	assert.Equal(t, float64(2), got["retries"])
	assert.Equal(t, false, got["enabled"])
	assert.Nil(t, got["none"])
	assert.Contains(t, got, "none")
	assert.Equal(t, "https://x.test", got["home"])
	assert.Equal(t, "${common.nope}", got["bad"])
	assert.Equal(t, []any{
		"value",
		map[string]any{"u": "root"},
		float64(1),
	}, got["list"])
}

func TestResolve_DoesNotMutateInputs(t *testing.T) {
	common := sampleCommon()
	envDoc := Document{"admin": "${common.accounts.admin}"}

	got := Resolve(envDoc, common).(map[string]any)
	got["admin"].(map[string]any)["username"] = "changed"

	assert.Equal(t, "root",
		common["accounts"].(map[string]any)["admin"].(map[string]any)["username"])
	assert.Equal(t, "${common.accounts.admin}", envDoc["admin"])
}

func TestResolver_Lookup(t *testing.T) {
	r := NewResolver(sampleCommon(), nil)

	v, err := r.Lookup("common.site.base_url")
	require.NoError(t, err)
	assert.Equal(t, "https://x.test", v)

	whole, err := r.Lookup("common")
	require.NoError(t, err)
	assert.Contains(t, whole, "site")

	_, err = r.Lookup("common.site.none")
	assert.ErrorIs(t, err, ErrReferenceNotFound)

	_, err = r.Lookup("other.site")
	assert.ErrorIs(t, err, ErrUnsupportedReference)
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder("${common.a}"))
	assert.True(t, IsPlaceholder("${}"))
	assert.False(t, IsPlaceholder("${"))
	assert.False(t, IsPlaceholder("{common.a}"))
	assert.False(t, IsPlaceholder(""))
}
