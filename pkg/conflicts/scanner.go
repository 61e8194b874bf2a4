package conflicts

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// DefaultIgnore lists package metadata files left out of file sets
var DefaultIgnore = []string{"meta.ini", "readme.txt"}

// FileSet is the set of a package's files, keyed by lower-cased slash
// separated path relative to the package directory
type FileSet map[string]struct{}

// Sorted returns the paths in lexical order
func (s FileSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same paths
func (s FileSet) Equal(other FileSet) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if _, ok := other[p]; !ok {
			return false
		}
	}
	return true
}

// Intersect returns the shared paths in lexical order
func (s FileSet) Intersect(other FileSet) []string {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	var shared []string
	for p := range small {
		if _, ok := large[p]; ok {
			shared = append(shared, p)
		}
	}
	sort.Strings(shared)
	return shared
}

// Key normalizes a package-relative path the way file sets store it
func Key(rel string) string {
	return strings.ToLower(filepath.ToSlash(rel))
}

// Scanner builds and caches package file sets
type Scanner struct {
	fs      afero.Fs
	root    string
	ignore  map[string]bool
	workers int
	logger  zerolog.Logger

	mu    sync.Mutex
	cache map[string]FileSet
}

// NewScanner creates a scanner for the packages under packageRoot.
// ignore holds basenames compared case-insensitively; workers bounds the
// number of packages walked at once.
func NewScanner(fs afero.Fs, packageRoot string, ignore []string, workers int) *Scanner {
	if workers < 1 {
		workers = 1
	}
	ig := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ig[strings.ToLower(name)] = true
	}
	return &Scanner{
		fs:      fs,
		root:    packageRoot,
		ignore:  ig,
		workers: workers,
		logger:  logging.GetLogger("conflicts.scanner"),
		cache:   make(map[string]FileSet),
	}
}

// Invalidate drops cached file sets so the next request walks them again
func (s *Scanner) Invalidate(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		delete(s.cache, name)
	}
}

// Scan walks one package. A missing package directory is an empty set.
func (s *Scanner) Scan(name string) (FileSet, error) {
	root := filepath.Join(s.root, name)
	set := make(FileSet)

	if _, err := s.fs.Stat(root); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug().Str("package", name).Msg("Package directory missing, empty file set")
			return set, nil
		}
		return nil, errors.Wrapf(err, errors.ErrPath, "failed to stat package %s", name)
	}

	err := afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if s.ignore[strings.ToLower(info.Name())] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		set[Key(rel)] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPath, "failed to scan package %s", name)
	}
	return set, nil
}

// Sets returns the file sets of names, walking only those not cached.
// Walks run in parallel, bounded by the worker count.
func (s *Scanner) Sets(ctx context.Context, names []string) (map[string]FileSet, error) {
	out := make(map[string]FileSet, len(names))
	var missing []string

	s.mu.Lock()
	for _, name := range names {
		if set, ok := s.cache[name]; ok {
			out[name] = set
		} else {
			missing = append(missing, name)
		}
	}
	s.mu.Unlock()

	if len(missing) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, name := range missing {
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set, err := s.Scan(name)
			if err != nil {
				return err
			}
			mu.Lock()
			out[name] = set
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	for _, name := range missing {
		s.cache[name] = out[name]
	}
	s.mu.Unlock()

	s.logger.Debug().Int("scanned", len(missing)).Int("cached", len(names)-len(missing)).Msg("File sets ready")
	return out, nil
}
