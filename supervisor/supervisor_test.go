//go:build linux && amd64

package supervisor

import (
	"testing"

	"github.com/pathtrace/goproot/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCommandAbsoluteViaBinding(t *testing.T) {
	s := &Supervisor{
		Root:     "/srv/jail",
		Bindings: path.NewTable(path.Binding{GuestPath: "/usr/bin", HostPath: "/opt/bin"}),
		Command:  []string{"/usr/bin/sh"},
	}

	got, err := s.resolveCommand()
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/sh", got)
}

func TestResolveCommandAbsoluteFallsBackToRoot(t *testing.T) {
	s := &Supervisor{
		Root:    "/srv/jail",
		Command: []string{"/bin/sh"},
	}

	got, err := s.resolveCommand()
	require.NoError(t, err)
	assert.Equal(t, "/srv/jail/bin/sh", got)
}

func TestResolveCommandEmpty(t *testing.T) {
	s := &Supervisor{Root: "/srv/jail"}
	_, err := s.resolveCommand()
	assert.Error(t, err)
}

func TestPidZeroBeforeStart(t *testing.T) {
	s := &Supervisor{}
	assert.Equal(t, 0, s.Pid())
}
