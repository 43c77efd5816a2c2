// Package browsefs mounts a read-only FUSE view of a guest rootfs: the
// union of the real rootfs directory and any bindings overlaid on it,
// resolved through the same path.Table substitution logic the tracer
// itself uses. It does not virtualize file content -- reads pass
// straight through to the underlying host file -- only names.
package browsefs

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/pathtrace/goproot/path"
)

// Options configures the mount.
type Options struct {
	// Mountpoint is the directory the filesystem is mounted onto. It
	// must already exist.
	Mountpoint string

	// Root is the real host directory presenting as "/" to the guest.
	Root string

	// Bindings overlays additional host directories/files at guest
	// prefixes. May be nil.
	Bindings *path.Table

	// AllowOther permits other users to access the mount. Requires
	// user_allow_other in /etc/fuse.conf.
	AllowOther bool
}

// Mount mounts the guest rootfs view at Options.Mountpoint. The caller
// must call Unmount on the returned server when done.
func Mount(opts Options) (*fuse.Server, error) {
	if opts.Mountpoint == "" {
		return nil, fmt.Errorf("browsefs: mountpoint is required")
	}
	if opts.Root == "" {
		return nil, fmt.Errorf("browsefs: root is required")
	}

	root := &guestNode{opts: &opts, guestPath: "/"}

	entryTimeout := time.Second
	attrTimeout := time.Second

	server, err := gofuse.Mount(opts.Mountpoint, root, &gofuse.Options{
		EntryTimeout: &entryTimeout,
		AttrTimeout:  &attrTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     "goproot",
			Name:       "goproot",
			AllowOther: opts.AllowOther,
			ReadOnly:   true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("browsefs: mount %s: %w", opts.Mountpoint, err)
	}
	return server, nil
}

// hostPath resolves a guest path to the host path it denotes, preferring
// the longest matching binding and falling back to a plain join with the
// rootfs, exactly as Tracee.Translate does for an already-canonical path.
func hostPath(opts *Options, guestPath string) string {
	if opts.Bindings != nil {
		if host, status := opts.Bindings.SubstituteBinding(path.Guest, guestPath); status != path.NoMatch {
			return host
		}
	}
	joined, err := path.Join(opts.Root, guestPath)
	if err != nil {
		return opts.Root
	}
	return joined
}

// guestNode is a single entry (file or directory) in the guest
// namespace, identified by its guest-relative path.
type guestNode struct {
	gofuse.Inode
	opts      *Options
	guestPath string
}

var (
	_ gofuse.InodeEmbedder = (*guestNode)(nil)
	_ gofuse.NodeLookuper  = (*guestNode)(nil)
	_ gofuse.NodeReaddirer = (*guestNode)(nil)
	_ gofuse.NodeGetattrer = (*guestNode)(nil)
	_ gofuse.NodeOpener    = (*guestNode)(nil)
	_ gofuse.NodeReader    = (*guestNode)(nil)
)

func (n *guestNode) childGuestPath(name string) string {
	joined, err := path.Join(n.guestPath, name)
	if err != nil {
		return n.guestPath
	}
	return joined
}

func (n *guestNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	childGuest := n.childGuestPath(name)
	childHost := hostPath(n.opts, childGuest)

	info, err := os.Lstat(childHost)
	if err != nil {
		return nil, syscall.ENOENT
	}

	mode := uint32(syscall.S_IFREG)
	if info.IsDir() {
		mode = syscall.S_IFDIR
	}

	out.Mode = mode | uint32(info.Mode().Perm())
	out.Size = uint64(info.Size())

	child := n.NewPersistentInode(ctx, &guestNode{opts: n.opts, guestPath: childGuest}, gofuse.StableAttr{Mode: mode})
	return child, 0
}

func (n *guestNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	host := hostPath(n.opts, n.guestPath)
	entries, err := os.ReadDir(host)
	if err != nil {
		return nil, syscall.EIO
	}

	fuseEntries := make([]fuse.DirEntry, 0, len(entries))
	for _, e := range entries {
		mode := uint32(syscall.S_IFREG)
		if e.IsDir() {
			mode = syscall.S_IFDIR
		}
		fuseEntries = append(fuseEntries, fuse.DirEntry{Name: e.Name(), Mode: mode})
	}
	return &sliceDirStream{entries: fuseEntries}, 0
}

// sliceDirStream implements fs.DirStream from a slice of entries.
type sliceDirStream struct {
	entries []fuse.DirEntry
	index   int
}

func (s *sliceDirStream) HasNext() bool {
	return s.index < len(s.entries)
}

func (s *sliceDirStream) Next() (fuse.DirEntry, syscall.Errno) {
	if s.index >= len(s.entries) {
		return fuse.DirEntry{}, syscall.EINVAL
	}
	entry := s.entries[s.index]
	s.index++
	return entry, 0
}

func (s *sliceDirStream) Close() {}

func (n *guestNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	host := hostPath(n.opts, n.guestPath)
	info, err := os.Lstat(host)
	if err != nil {
		return syscall.ENOENT
	}
	mode := uint32(syscall.S_IFREG)
	if info.IsDir() {
		mode = syscall.S_IFDIR
	}
	out.Mode = mode | uint32(info.Mode().Perm())
	out.Size = uint64(info.Size())
	return 0
}

// Open refuses anything but a read-only open: this filesystem exists to
// let an operator look at the guest view, never to mutate it.
func (n *guestNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR|syscall.O_CREAT|syscall.O_TRUNC) != 0 {
		return nil, 0, syscall.EROFS
	}

	host := hostPath(n.opts, n.guestPath)
	f, err := os.Open(host)
	if err != nil {
		return nil, 0, syscall.EIO
	}
	return &guestFileHandle{f: f}, fuse.FOPEN_KEEP_CACHE, 0
}

func (n *guestNode) Read(ctx context.Context, f gofuse.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	handle, ok := f.(*guestFileHandle)
	if !ok {
		return nil, syscall.EIO
	}
	n2, err := handle.f.ReadAt(dest, off)
	if err != nil && n2 == 0 {
		return fuse.ReadResultData(nil), 0
	}
	return fuse.ReadResultData(dest[:n2]), 0
}

type guestFileHandle struct {
	f *os.File
}

var _ gofuse.FileReleaser = (*guestFileHandle)(nil)

func (h *guestFileHandle) Release(ctx context.Context) syscall.Errno {
	h.f.Close()
	return 0
}
