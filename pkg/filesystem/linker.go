package filesystem

import (
	"context"
	"strings"

	"github.com/arthur-debert/modstack/pkg/errors"
)

// LinkMode selects how package files are placed into the target tree
type LinkMode string

const (
	LinkSymlink  LinkMode = "symlink"
	LinkHardlink LinkMode = "hardlink"
	LinkCopy     LinkMode = "copy"
)

// ParseLinkMode parses a configured link mode. Empty means symlink.
func ParseLinkMode(s string) (LinkMode, error) {
	switch LinkMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", LinkSymlink:
		return LinkSymlink, nil
	case LinkHardlink:
		return LinkHardlink, nil
	case LinkCopy:
		return LinkCopy, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown link mode %q (want symlink, hardlink or copy)", s)
}

// Linker places source at dst. The parent of dst exists and dst itself
// does not when Link is called.
type Linker interface {
	Link(ctx context.Context, source, dst string) error
	Mode() LinkMode
}

// NewLinker returns the linker for mode. Copy mode always works on the OS
// filesystem.
func NewLinker(mode LinkMode, fsys FS) (Linker, error) {
	switch mode {
	case LinkSymlink, "":
		return &symlinkLinker{fs: fsys}, nil
	case LinkHardlink:
		return &hardlinkLinker{fs: fsys}, nil
	case LinkCopy:
		return &copyLinker{copier: NewCopier()}, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown link mode %q", mode)
}

type symlinkLinker struct{ fs FS }

func (l *symlinkLinker) Link(_ context.Context, source, dst string) error {
	return l.fs.Symlink(source, dst)
}

func (l *symlinkLinker) Mode() LinkMode { return LinkSymlink }

type hardlinkLinker struct{ fs FS }

func (l *hardlinkLinker) Link(_ context.Context, source, dst string) error {
	return l.fs.Link(source, dst)
}

func (l *hardlinkLinker) Mode() LinkMode { return LinkHardlink }

type copyLinker struct{ copier *Copier }

func (l *copyLinker) Link(ctx context.Context, source, dst string) error {
	return l.copier.Copy(ctx, source, dst)
}

func (l *copyLinker) Mode() LinkMode { return LinkCopy }
