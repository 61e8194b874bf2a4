// Package plugins records the plugin files a deployment activates.
//
// Deployment hands the indexer the plugin file names it placed, in
// deployment order. The text indexer writes them one per line below a
// fixed header, the way games read their active plugin list.
package plugins

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultExtensions are the file extensions treated as plugins
var DefaultExtensions = []string{".esp", ".esm", ".esl"}

// Indexer receives the plugin list of a deployment
type Indexer interface {
	// WriteIndex records plugins, already de-duplicated, in deployment order
	WriteIndex(plugins []string) error
	// ClearIndex resets the index after a restore
	ClearIndex() error
}

// IsPlugin reports whether name ends in one of exts, ignoring case
func IsPlugin(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Nop discards the plugin list
type Nop struct{}

func (Nop) WriteIndex([]string) error { return nil }
func (Nop) ClearIndex() error         { return nil }

// TextIndexer writes a plain text plugin list
type TextIndexer struct {
	fs     filesystem.FS
	path   string
	prefix string
	header []string
	logger zerolog.Logger
}

// NewTextIndexer creates an indexer writing to path. Each plugin line is
// written as prefix+name; header lines come first.
func NewTextIndexer(fsys filesystem.FS, path, prefix string, header []string) *TextIndexer {
	return &TextIndexer{
		fs:     fsys,
		path:   path,
		prefix: prefix,
		header: header,
		logger: logging.GetLogger("plugins"),
	}
}

// Path returns the index file path
func (t *TextIndexer) Path() string { return t.path }

// Render returns the file content for plugins
func (t *TextIndexer) Render(plugins []string) string {
	var b strings.Builder
	for _, line := range t.header {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, name := range plugins {
		b.WriteString(t.prefix)
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteIndex writes the index file atomically
func (t *TextIndexer) WriteIndex(plugins []string) error {
	if err := filesystem.WriteFileAtomic(t.fs, t.path, []byte(t.Render(plugins)), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrPluginIndex, "failed to write plugin index %s", t.path)
	}
	t.logger.Info().
		Str("path", t.path).
		Int("plugins", len(plugins)).
		Msg("Plugin index written")
	return nil
}

// ClearIndex rewrites the index with the header only
func (t *TextIndexer) ClearIndex() error {
	return t.WriteIndex(nil)
}
