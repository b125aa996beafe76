package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gi-tools/growth-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRegistry(t *testing.T) {
	path := writeProfiles(t, `
[marketing-site]
property_id = 381346600
credentials = /etc/growth-atlas/marketing-sa.json

[docs-site]
property_id = 299817231
`)

	reg, err := NewRegistry(path)
	require.NoError(t, err)

	profiles, err := reg.GetProfiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.PropertyProfile{
		{
			Name:            "marketing-site",
			PropertyID:      "381346600",
			CredentialsFile: "/etc/growth-atlas/marketing-sa.json",
		},
		{
			Name:       "docs-site",
			PropertyID: "299817231",
		},
	}, profiles)

	p, err := reg.GetProfile(context.Background(), "docs-site")
	require.NoError(t, err)
	assert.Equal(t, "299817231", p.PropertyID)
}

func TestRegistry_UnknownProfile(t *testing.T) {
	path := writeProfiles(t, `
[marketing-site]
property_id = 381346600
`)

	reg, err := NewRegistry(path)
	require.NoError(t, err)

	_, err = reg.GetProfile(context.Background(), "staging")
	assert.ErrorContains(t, err, "staging")
}

func TestRegistry_MissingPropertyID(t *testing.T) {
	path := writeProfiles(t, `
[marketing-site]
credentials = /etc/growth-atlas/marketing-sa.json
`)

	reg, err := NewRegistry(path)
	require.NoError(t, err)

	_, err = reg.GetProfile(context.Background(), "marketing-site")
	assert.ErrorContains(t, err, "property_id")
}

func TestNewRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
