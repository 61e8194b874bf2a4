// Package manifest persists the record of which target paths are overlay
// controlled (the copy manifest) and which original files were moved aside
// into the backup root (the backup manifest).
//
// Both files live beside the backup root. Their joint presence is the only
// signal that a deployment is active.
package manifest

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/ordered"
	"github.com/arthur-debert/modstack/pkg/paths"
)

// Manifest holds both path lists. Paths are target-relative and use the
// host separator in memory.
type Manifest struct {
	Copy   *ordered.Set[string]
	Backup *ordered.Set[string]
}

// New returns an empty manifest
func New() *Manifest {
	return &Manifest{
		Copy:   ordered.NewSet[string](),
		Backup: ordered.NewSet[string](),
	}
}

// State describes what is on disk
type State int

const (
	// Absent means no deployment is active
	Absent State = iota
	// Present means both manifest files exist
	Present
	// Partial means only one of the two files exists
	Partial
)

// Store reads and writes the manifest files of one deployment context
type Store struct {
	fs         filesystem.FS
	copyPath   string
	backupPath string
}

// NewStore creates a store for the manifests of ctx
func NewStore(fsys filesystem.FS, ctx paths.DeploymentContext) *Store {
	return &Store{
		fs:         fsys,
		copyPath:   ctx.CopyManifestPath(),
		backupPath: ctx.BackupManifestPath(),
	}
}

// CopyPath returns the copy manifest file path
func (s *Store) CopyPath() string { return s.copyPath }

// BackupPath returns the backup manifest file path
func (s *Store) BackupPath() string { return s.backupPath }

// State reports which manifest files exist
func (s *Store) State() State {
	hasCopy := filesystem.Exists(s.fs, s.copyPath)
	hasBackup := filesystem.Exists(s.fs, s.backupPath)
	switch {
	case hasCopy && hasBackup:
		return Present
	case hasCopy || hasBackup:
		return Partial
	}
	return Absent
}

// Active reports whether a deployment is active. A lone manifest file is
// reported as corruption rather than guessed at.
func (s *Store) Active() (bool, error) {
	switch s.State() {
	case Present:
		return true, nil
	case Partial:
		return false, errors.New(errors.ErrManifestCorrupt, "only one manifest file is present").
			WithDetail("copy_manifest", s.copyPath).
			WithDetail("backup_manifest", s.backupPath)
	}
	return false, nil
}

// Load reads both manifests. Every line must be a relative path that stays
// inside the root it names; anything else is corruption.
func (s *Store) Load() (*Manifest, error) {
	if active, err := s.Active(); err != nil {
		return nil, err
	} else if !active {
		return nil, errors.New(errors.ErrNotFound, "no manifest present")
	}

	copySet, err := s.readList(s.copyPath)
	if err != nil {
		return nil, err
	}
	backupSet, err := s.readList(s.backupPath)
	if err != nil {
		return nil, err
	}
	return &Manifest{Copy: copySet, Backup: backupSet}, nil
}

func (s *Store) readList(path string) (*ordered.Set[string], error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestCorrupt, "failed to read manifest %s", path)
	}

	set := ordered.NewSet[string]()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		rel := filepath.FromSlash(line)
		if err := paths.ValidateRelPath(rel); err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestCorrupt, "%s line %d is not a valid entry", filepath.Base(path), lineNo).
				WithDetail("manifest", path).
				WithDetail("line", lineNo)
		}
		set.Add(filepath.Clean(rel))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestCorrupt, "failed to read manifest %s", path)
	}
	return set, nil
}

// Save writes both manifests atomically, backup first
func (s *Store) Save(m *Manifest) error {
	if err := s.writeList(s.backupPath, m.Backup); err != nil {
		return err
	}
	return s.writeList(s.copyPath, m.Copy)
}

func (s *Store) writeList(path string, set *ordered.Set[string]) error {
	var b strings.Builder
	for _, rel := range set.Items() {
		b.WriteString(filepath.ToSlash(rel))
		b.WriteByte('\n')
	}
	if err := filesystem.WriteFileAtomic(s.fs, path, []byte(b.String()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrPath, "failed to write manifest %s", path)
	}
	return nil
}

// Remove deletes both manifest files. Missing files are not an error.
func (s *Store) Remove() error {
	for _, path := range []string{s.copyPath, s.backupPath} {
		if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrPath, "failed to remove manifest %s", path)
		}
	}
	return nil
}
