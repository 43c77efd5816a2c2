package path

import (
	"errors"
	"io/fs"

	"github.com/pathtrace/goproot/extension"
)

// fakeNode describes one entry of a fabricated host filesystem used to
// drive the canonicalizer and translator without touching the real host.
type fakeNode struct {
	isDir         bool
	symlinkTarget string // non-empty means this node is a symlink
}

var errNotSymlink = errors.New("not a symlink")

func newFakeTracee(root string, bindings *Table, fsNodes map[string]fakeNode) *Tracee {
	if bindings == nil {
		bindings = NewTable()
	}
	return &Tracee{
		Root:     root,
		Bindings: bindings,
		Hooks:    extension.NewRegistry(),
		Getpid:   func() int { return 1 },
		readlinkFn: func(p string) (string, error) {
			node, ok := fsNodes[p]
			if !ok {
				return "", fs.ErrNotExist
			}
			if node.symlinkTarget == "" {
				return "", errNotSymlink
			}
			return node.symlinkTarget, nil
		},
		statFn: func(p string) (bool, error) {
			node, ok := fsNodes[p]
			if !ok {
				return false, fs.ErrNotExist
			}
			return node.isDir, nil
		},
	}
}
