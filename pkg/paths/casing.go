package paths

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DirReader is the part of a filesystem ResolveCase reads
type DirReader interface {
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

// ResolveCase rewrites rel so that each component already present under
// root uses the casing found on disk. Components that do not exist yet,
// and everything below them, are kept as given. An exact match always wins
// over a case-insensitive one.
func ResolveCase(fsys DirReader, root, rel string) string {
	rel = filepath.Clean(rel)
	if rel == "." || rel == "" {
		return rel
	}

	parts := strings.Split(rel, string(filepath.Separator))
	resolved := make([]string, 0, len(parts))
	cur := root

	for i, part := range parts {
		if _, err := fsys.Lstat(filepath.Join(cur, part)); err == nil {
			resolved = append(resolved, part)
			cur = filepath.Join(cur, part)
			continue
		}

		entries, err := fsys.ReadDir(cur)
		if err != nil {
			// cur itself is missing, nothing below it can be matched
			resolved = append(resolved, parts[i:]...)
			break
		}

		match := part
		for _, entry := range entries {
			if strings.EqualFold(entry.Name(), part) {
				match = entry.Name()
				break
			}
		}
		resolved = append(resolved, match)
		cur = filepath.Join(cur, match)
	}

	return filepath.Join(resolved...)
}
