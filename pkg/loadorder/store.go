package loadorder

import (
	"bytes"
	"os"
	"sync"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/rs/zerolog"
)

// Snapshot is an immutable copy of the store's state
type Snapshot struct {
	Order      LoadOrder
	Version    uint64
	InProgress bool
}

// Store owns the live load order. Readers take snapshots; writers go
// through Mutate. A multi-step edit is bracketed by BeginMutation and
// EndMutation so that observers can tell the order is mid-change.
type Store struct {
	mu         sync.RWMutex
	order      LoadOrder
	version    uint64
	inProgress bool
	changes    chan struct{}

	fs          filesystem.FS
	path        string
	packageRoot string
	logger      zerolog.Logger
}

// NewStore creates a store for the load order file at path, synchronized
// against the package directories under packageRoot.
func NewStore(fsys filesystem.FS, path, packageRoot string) *Store {
	return &Store{
		changes:     make(chan struct{}, 1),
		fs:          fsys,
		path:        path,
		packageRoot: packageRoot,
		logger:      logging.GetLogger("loadorder"),
	}
}

// Path returns the load order file path
func (s *Store) Path() string { return s.path }

// Changes delivers a notification after every completed mutation.
// Notifications coalesce: a slow reader sees at most one pending signal.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Snapshot returns a deep copy of the current order with its version
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Order:      s.order.Clone(),
		Version:    s.version,
		InProgress: s.inProgress,
	}
}

// BeginMutation marks the order as being in an intermediate state
func (s *Store) BeginMutation() {
	s.mu.Lock()
	s.inProgress = true
	s.mu.Unlock()
}

// EndMutation clears the intermediate-state flag and notifies observers
func (s *Store) EndMutation() {
	s.mu.Lock()
	s.inProgress = false
	s.version++
	s.mu.Unlock()
	s.notify()
}

// Mutate applies fn to a copy of the order and installs the copy if fn
// succeeds. Observers are notified unless a BeginMutation bracket is open,
// in which case EndMutation notifies.
func (s *Store) Mutate(fn func(*LoadOrder) error) error {
	s.mu.Lock()
	next := s.order.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.order = next
	s.version++
	bracketed := s.inProgress
	s.mu.Unlock()

	if !bracketed {
		s.notify()
	}
	return nil
}

// Load reads the load order file and syncs it against the package root.
// A missing file is an empty order. The store is replaced in one mutation.
func (s *Store) Load() (SyncReport, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return SyncReport{}, errors.Wrapf(err, errors.ErrLoadOrderParse, "failed to read %s", s.path)
	}

	parsed, err := Parse(bytes.NewReader(data))
	if err != nil {
		return SyncReport{}, err
	}

	packages, err := ListPackages(s.fs, s.packageRoot)
	if err != nil {
		return SyncReport{}, err
	}

	synced, report := Sync(parsed, packages)
	if report.Changed() {
		s.logger.Info().
			Strs("pruned", report.Pruned).
			Strs("duplicates", report.Duplicates).
			Strs("added", report.Added).
			Msg("Load order synchronized with package directories")
	}

	err = s.Mutate(func(lo *LoadOrder) error {
		*lo = synced
		return nil
	})
	return report, err
}

// Sync re-reads the package directories and reconciles the in-memory order
func (s *Store) Sync() (SyncReport, error) {
	packages, err := ListPackages(s.fs, s.packageRoot)
	if err != nil {
		return SyncReport{}, err
	}

	var report SyncReport
	err = s.Mutate(func(lo *LoadOrder) error {
		*lo, report = Sync(*lo, packages)
		return nil
	})
	return report, err
}

// Save writes the current order to disk atomically
func (s *Store) Save() error {
	s.mu.RLock()
	content := s.order.Format()
	s.mu.RUnlock()

	if err := filesystem.WriteFileAtomic(s.fs, s.path, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrLoadOrderWrite, "failed to write %s", s.path)
	}
	s.logger.Debug().Str("path", s.path).Msg("Load order saved")
	return nil
}
