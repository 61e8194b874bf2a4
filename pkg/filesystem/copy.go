package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	synthfsfs "github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

// CopyPair is one source file and the path it should be copied to
type CopyPair struct {
	Source string
	Target string
}

// Copier copies regular files through a synthfs pipeline
type Copier struct {
	logger     zerolog.Logger
	filesystem synthfsfs.FullFileSystem
}

// NewCopier creates a copier working on absolute OS paths
func NewCopier() *Copier {
	osfs := synthfsfs.NewOSFileSystem("/")
	pathAwareFS := synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()

	return &Copier{
		logger:     logging.GetLogger("filesystem.copier"),
		filesystem: pathAwareFS,
	}
}

// Copy copies a single file. The target must not exist.
func (c *Copier) Copy(ctx context.Context, source, target string) error {
	return c.CopyAll(ctx, []CopyPair{{Source: source, Target: target}})
}

// CopyAll copies every pair in one pipeline run. Parent directories of the
// targets are created first.
func (c *Copier) CopyAll(ctx context.Context, pairs []CopyPair) error {
	if len(pairs) == 0 {
		return nil
	}

	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(pairs))
	for i, pair := range pairs {
		if err := os.MkdirAll(filepath.Dir(pair.Target), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrPath, "failed to create parent of %s", pair.Target)
		}
		id := fmt.Sprintf("copy_%d_%s", i, filepath.Base(pair.Target))
		ops = append(ops, sfs.CopyWithID(id, pair.Source, pair.Target))
	}

	options := synthfs.DefaultPipelineOptions()

	c.logger.Debug().
		Int("operationCount", len(ops)).
		Msg("Executing copy operations")

	result, err := synthfs.RunWithOptions(ctx, c.filesystem, options, ops...)
	if err != nil {
		completed := 0
		if result != nil {
			completed = len(result.GetOperations())
		}
		c.logger.Error().
			Err(err).
			Int("operationCount", len(ops)).
			Int("reported", completed).
			Msg("Copy pipeline failed")
		return errors.Wrapf(err, errors.ErrInternal, "failed to copy %d file(s)", len(pairs))
	}
	return nil
}
