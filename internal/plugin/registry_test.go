package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indicator-tide/indicator-tide/pkg/tidesdk"
)

func factoryFor(location string) Factory {
	return func() (tidesdk.GetTideDataFunc, error) {
		return func(tidesdk.Request) ([]tidesdk.Reading, error) {
			return []tidesdk.Reading{{Location: location}}, nil
		}, nil
	}
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name        string
		info        ProviderInfo
		errContains string
	}{
		{"valid", ProviderInfo{Name: "noaa", Factory: factoryFor("x")}, ""},
		{"empty name", ProviderInfo{Factory: factoryFor("x")}, "name cannot be empty"},
		{"nil factory", ProviderInfo{Name: "noaa"}, "factory cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.info)
			if tt.errContains != "" {
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegistry_PriorityOverride(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(ProviderInfo{Name: "noaa", Priority: PriorityOverride, Factory: factoryFor("private")}))
	require.NoError(t, r.Register(ProviderInfo{Name: "noaa", Priority: PriorityDefault, Factory: factoryFor("public")}))

	entry, err := r.Get("noaa").Factory()
	require.NoError(t, err)
	readings, _ := entry(tidesdk.Request{})
	assert.Equal(t, "private", readings[0].Location)
	assert.Equal(t, []string{"noaa"}, r.Names())
}

func TestRegistry_ListAndClear(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(ProviderInfo{Name: "zeta", Factory: factoryFor("z")}))
	require.NoError(t, r.Register(ProviderInfo{Name: "alpha", Factory: factoryFor("a")}))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, []string{"zeta", "alpha"}, r.Names())

	r.Clear()
	assert.Empty(t, r.List())
	assert.Nil(t, r.Get("alpha"))
}

func TestBuiltinPath(t *testing.T) {
	assert.Equal(t, "builtin:noaa", BuiltinPath("noaa"))
	assert.True(t, IsBuiltinPath("builtin:noaa"))
	assert.False(t, IsBuiltinPath("/home/me/noaa.go"))
}
