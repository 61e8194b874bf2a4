package overlay

import (
	"context"
	"os"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/logging"
)

// PathFailure is one manifest entry restore could not process
type PathFailure struct {
	Path string
	Err  error
}

// RestoreResult describes a finished restore
type RestoreResult struct {
	// NothingToRestore is set when no deployment was active
	NothingToRestore bool
	Removed          int
	Restored         int
	Swept            int
	Pruned           int
	Failures         []PathFailure
}

// Restore undoes the active deployment. With no manifests present it
// reports NothingToRestore and changes nothing. Every entry is attempted
// even after a failure, and the manifests are removed at the end either way;
// failures come back as an IncompleteRestore error alongside the result.
func (e *Engine) Restore(ctx context.Context) (*RestoreResult, error) {
	logger := e.logger.With().Str("operation", "restore").Logger()
	done := logging.LogOperationStart(logger, "restore")
	defer done()

	active, err := e.manifests.Active()
	if err != nil {
		return nil, err
	}
	if !active {
		logger.Info().Msg("No manifests found, nothing to restore")
		return &RestoreResult{NothingToRestore: true}, nil
	}

	m, err := e.manifests.Load()
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{}

	for _, rel := range m.Copy.Items() {
		abs := e.ctx.TargetPath(rel)
		info, err := e.fs.Lstat(abs)
		if os.IsNotExist(err) {
			continue
		}
		if err == nil {
			if info.IsDir() {
				err = e.fs.RemoveAll(abs)
			} else {
				err = e.fs.Remove(abs)
			}
		}
		if err != nil {
			logger.Warn().Err(err).Str("path", rel).Msg("Cannot remove overlay entry")
			result.Failures = append(result.Failures, PathFailure{Path: rel, Err: err})
			continue
		}
		result.Removed++
	}

	for _, rel := range m.Backup.Items() {
		if err := e.restoreBackup(rel, m.Copy.Contains(rel)); err != nil {
			logger.Warn().Err(err).Str("path", rel).Msg("Cannot restore original file")
			result.Failures = append(result.Failures, PathFailure{Path: rel, Err: err})
			continue
		}
		result.Restored++
	}

	if err := e.manifests.Remove(); err != nil {
		return result, err
	}

	if result.Swept, err = e.Sweep(); err != nil {
		logger.Warn().Err(err).Msg("Sweep after restore was incomplete")
	}

	if result.Pruned, err = filesystem.PruneEmptyDirs(e.fs, e.ctx.BackupRoot()); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("Cannot prune backup directories")
	}

	if err := e.indexer.ClearIndex(); err != nil {
		logger.Warn().Err(err).Msg("Cannot clear plugin index")
	}

	logger.Info().
		Int("removed", result.Removed).
		Int("restored", result.Restored).
		Int("swept", result.Swept).
		Int("failures", len(result.Failures)).
		Msg("Restore complete")

	if len(result.Failures) > 0 {
		failed := make([]string, len(result.Failures))
		for i, f := range result.Failures {
			failed[i] = f.Path
		}
		return result, errors.Newf(errors.ErrIncompleteRestore, "%d path(s) could not be restored", len(failed)).
			WithDetail("paths", failed)
	}
	return result, nil
}

// restoreBackup moves the original of rel home. copied tells whether rel
// was overlaid as well.
func (e *Engine) restoreBackup(rel string, copied bool) error {
	src := e.ctx.BackupPath(rel)
	dst := e.ctx.TargetPath(rel)

	if !filesystem.Exists(e.fs, src) {
		// recorded ahead of a move that never happened: the original is
		// still in place
		if !copied && filesystem.Exists(e.fs, dst) && !e.isOverlayLink(dst) {
			return nil
		}
		return errors.Newf(errors.ErrPath, "backup of %s is missing", rel)
	}
	if filesystem.Exists(e.fs, dst) {
		return errors.Newf(errors.ErrPath, "%s is occupied, original left in the backup root", rel)
	}
	if err := filesystem.Move(e.fs, src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrPath, "failed to move %s back", rel)
	}
	return nil
}

// Reload restores the active deployment, if any, and deploys order
func (e *Engine) Reload(ctx context.Context, order loadorder.LoadOrder) (*DeployResult, error) {
	restored, err := e.Restore(ctx)
	if err != nil {
		return nil, err
	}
	result, err := e.Deploy(ctx, order)
	if result != nil && !restored.NothingToRestore {
		result.Restored = restored
	}
	return result, err
}
