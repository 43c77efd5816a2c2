package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pathtrace/goproot/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "bindings.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadValid(t *testing.T) {
	p := writeTemp(t, `
rootfs: /srv/jail
bindings:
  - guest: /cfg
    host: /etc
  - guest: /data
    host: /srv/data
`)

	root, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/srv/jail", root.Rootfs)
	require.Len(t, root.Bindings, 2)
	assert.Equal(t, "/cfg", root.Bindings[0].Guest)
	assert.Equal(t, "/etc", root.Bindings[0].Host)
}

func TestLoadMissingRootfs(t *testing.T) {
	p := writeTemp(t, `
bindings:
  - guest: /cfg
    host: /etc
`)

	_, err := Load(p)
	assert.Error(t, err)
}

func TestLoadIncompleteBinding(t *testing.T) {
	p := writeTemp(t, `
rootfs: /srv/jail
bindings:
  - guest: /cfg
`)

	_, err := Load(p)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestBuildTableLaterDuplicateWins(t *testing.T) {
	root := &Root{
		Rootfs: "/srv/jail",
		Bindings: []BindSpec{
			{Guest: "/cfg", Host: "/etc"},
			{Guest: "/cfg", Host: "/opt/etc"},
		},
	}

	tbl := root.BuildTable()
	host, ok := tbl.GetPathBinding(path.Guest, "/cfg")
	require.True(t, ok)
	assert.Equal(t, "/opt/etc", host)
}
