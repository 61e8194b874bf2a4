package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modstack/pkg/errors"
)

// ValidateRelPath checks that rel is a clean, relative path that stays
// inside whatever root it is later joined to.
func ValidateRelPath(rel string) error {
	if rel == "" {
		return errors.New(errors.ErrInvalidInput, "empty relative path")
	}
	if strings.ContainsRune(rel, 0) {
		return errors.Newf(errors.ErrInvalidInput, "path contains NUL byte: %q", rel)
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return errors.Newf(errors.ErrInvalidInput, "path is absolute: %s", rel)
	}

	cleaned := filepath.Clean(rel)
	if cleaned == "." {
		return errors.Newf(errors.ErrInvalidInput, "path refers to the root itself: %s", rel)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return errors.Newf(errors.ErrInvalidInput, "path escapes its root: %s", rel)
	}
	return nil
}

// ValidatePackageName checks that a package directory name survives a
// round trip through the load order file
func ValidatePackageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrInvalidInput, "empty package name")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return errors.Newf(errors.ErrInvalidInput, "invalid package name: %q", name)
	}
	// load order lines are trimmed and split on newlines
	if strings.TrimSpace(name) != name || strings.ContainsAny(name, "\r\n") {
		return errors.Newf(errors.ErrInvalidInput, "package name may not have surrounding whitespace or line breaks: %q", name)
	}
	if strings.HasPrefix(name, "#") || strings.HasPrefix(name, "~") || strings.HasPrefix(name, "*") {
		return errors.Newf(errors.ErrInvalidInput, "package name may not start with a load order marker: %q", name)
	}
	return nil
}
