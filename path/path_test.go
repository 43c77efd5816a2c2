package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextComponent(t *testing.T) {
	cases := []struct {
		in        string
		component string
		finality  Finality
	}{
		{"/usr/bin/ls", "usr", NotFinal},
		{"bin/ls", "bin", NotFinal},
		{"ls", "ls", FinalNormal},
		{"ls/", "ls", FinalSlash},
		{"", "", FinalNormal},
		{"//usr//bin", "usr", NotFinal},
	}

	for _, c := range cases {
		cursor := c.in
		component, finality, err := nextComponent(&cursor)
		require.NoError(t, err)
		assert.Equal(t, c.component, component, "input %q", c.in)
		assert.Equal(t, c.finality, finality, "input %q", c.in)
	}
}

func TestNextComponentNameTooLong(t *testing.T) {
	long := make([]byte, NameMax+1)
	for i := range long {
		long[i] = 'a'
	}
	cursor := string(long)
	_, _, err := nextComponent(&cursor)
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestPopComponent(t *testing.T) {
	assert.Equal(t, "/", popComponent("/"))
	assert.Equal(t, "/", popComponent("/a"))
	assert.Equal(t, "/a", popComponent("/a/b"))
	assert.Equal(t, "/a/b", popComponent("/a/b/c"))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, Equal, Compare("/foo", "/foo"))
	assert.Equal(t, Equal, Compare("/foo", "/foo/"))
	assert.Equal(t, Path1IsPrefix, Compare("/foo", "/foo/bar"))
	assert.Equal(t, Path2IsPrefix, Compare("/foo/bar", "/foo"))
	assert.Equal(t, NotComparable, Compare("/foo", "/foobar"))
	assert.Equal(t, NotComparable, Compare("/foobar", "/foo"))
}

func TestCompareSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"/a", "/a/b"}, {"/a", "/a"}, {"/foo", "/foobar"}, {"/", "/etc"},
	}
	for _, p := range pairs {
		a, b := Compare(p[0], p[1]), Compare(p[1], p[0])
		switch a {
		case Equal:
			assert.Equal(t, Equal, b)
		case Path1IsPrefix:
			assert.Equal(t, Path2IsPrefix, b)
		case Path2IsPrefix:
			assert.Equal(t, Path1IsPrefix, b)
		case NotComparable:
			assert.Equal(t, NotComparable, b)
		}
	}
}

func TestJoin(t *testing.T) {
	cases := []struct {
		frags []string
		want  string
	}{
		{[]string{"/a", "b"}, "/a/b"},
		{[]string{"/a/", "/b"}, "/a/b"},
		{[]string{"/a", "/b"}, "/a/b"},
		{[]string{"/", ""}, "/"},
		{[]string{"/", "/"}, "/"},
		{[]string{"", "/a"}, "/a"},
	}
	for _, c := range cases {
		got, err := Join(c.frags...)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "join(%v)", c.frags)
		assert.NotContains(t, got, "//")
	}
}

func TestJoinNameTooLong(t *testing.T) {
	long := make([]byte, PathMax)
	for i := range long {
		long[i] = 'a'
	}
	_, err := Join("/", string(long))
	assert.ErrorIs(t, err, ErrNameTooLong)
}
