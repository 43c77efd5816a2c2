package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindingInsertReplacesDuplicateGuest(t *testing.T) {
	tbl := NewTable(
		Binding{GuestPath: "/etc", HostPath: "/host/etc-v1"},
		Binding{GuestPath: "/etc", HostPath: "/host/etc-v2"},
	)

	assert.Len(t, tbl.Entries(), 1)
	host, ok := tbl.GetPathBinding(Guest, "/etc/hosts")
	assert.True(t, ok)
	assert.Equal(t, "/host/etc-v2", host)
}

func TestBindingLongestPrefixWins(t *testing.T) {
	tbl := NewTable(
		Binding{GuestPath: "/a", HostPath: "/x"},
		Binding{GuestPath: "/a/b", HostPath: "/y"},
	)

	host, ok := tbl.GetPathBinding(Guest, "/a/b/file")
	assert.True(t, ok)
	assert.Equal(t, "/y", host)

	host, ok = tbl.GetPathBinding(Guest, "/a/other")
	assert.True(t, ok)
	assert.Equal(t, "/x", host)
}

func TestSubstituteBindingSymmetric(t *testing.T) {
	tbl := NewTable(Binding{GuestPath: "/dev", HostPath: "/dev"})
	p, status := tbl.SubstituteBinding(Guest, "/dev/null")
	assert.Equal(t, Unchanged, status)
	assert.Equal(t, "/dev/null", p)
}

func TestSubstituteBindingRewrite(t *testing.T) {
	tbl := NewTable(Binding{GuestPath: "/cfg", HostPath: "/etc"})

	p, status := tbl.SubstituteBinding(Guest, "/cfg/hosts")
	assert.Equal(t, Substituted, status)
	assert.Equal(t, "/etc/hosts", p)

	p, status = tbl.SubstituteBinding(Host, "/etc/hosts")
	assert.Equal(t, Substituted, status)
	assert.Equal(t, "/cfg/hosts", p)
}

func TestSubstituteBindingNoMatch(t *testing.T) {
	tbl := NewTable(Binding{GuestPath: "/cfg", HostPath: "/etc"})
	p, status := tbl.SubstituteBinding(Guest, "/usr/bin/ls")
	assert.Equal(t, NoMatch, status)
	assert.Equal(t, "/usr/bin/ls", p)
}
