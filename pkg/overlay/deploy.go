package overlay

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/loadorder"
	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/arthur-debert/modstack/pkg/manifest"
	"github.com/arthur-debert/modstack/pkg/ordered"
	"github.com/arthur-debert/modstack/pkg/paths"
	"github.com/rs/zerolog"
)

// SkippedFile is a package file that could not be placed
type SkippedFile struct {
	Package string
	Path    string
	Err     error
}

// DeployResult describes a finished deployment
type DeployResult struct {
	// CopyManifest lists every target path now overlay controlled,
	// including directories created to hold package files
	CopyManifest []string
	// BackupManifest lists original target paths moved into the backup root
	BackupManifest []string
	// Plugins lists plugin file names in deployment order
	Plugins []string
	// Packages is how many enabled packages were walked
	Packages int
	// Restored is set when an active deployment was restored first
	Restored *RestoreResult
	// Swept counts stray overlay links removed before the walk
	Swept   int
	Skipped []SkippedFile
}

// run is the in-progress state of one deployment. Its manifest is written
// ahead of every change to the target, so the manifests on disk always
// cover what an interrupted deployment left behind.
type run struct {
	m       *manifest.Manifest
	plugins *ordered.Set[string]
	result  *DeployResult
	logger  zerolog.Logger
}

// Deploy overlays the enabled packages of order onto the target root. An
// active deployment is restored first. Failures on single files are logged
// and the file is skipped; the manifests always describe what was written.
func (e *Engine) Deploy(ctx context.Context, order loadorder.LoadOrder) (*DeployResult, error) {
	logger := e.logger.With().Str("operation", "deploy").Logger()
	done := logging.LogOperationStart(logger, "deploy")
	defer done()

	if err := e.ctx.EnsureDirs(e.fs); err != nil {
		return nil, err
	}

	result := &DeployResult{}

	active, err := e.manifests.Active()
	if err != nil {
		return nil, err
	}
	if active {
		logger.Info().Msg("Deployment already active, restoring first")
		restored, err := e.Restore(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrStateConflict, "failed to restore the active deployment before deploying")
		}
		result.Restored = restored
	}

	swept, err := e.Sweep()
	if err != nil {
		logger.Warn().Err(err).Msg("Sweep before deploy was incomplete")
	}
	result.Swept = swept

	r := &run{
		m:       manifest.New(),
		plugins: ordered.NewSet[string](),
		result:  result,
		logger:  logger,
	}

	// empty manifests mark the deployment active before anything is touched
	if err := e.manifests.Save(r.m); err != nil {
		return nil, err
	}

	for _, entry := range order {
		if entry.State != loadorder.Enabled {
			continue
		}
		e.deployPackage(ctx, r, entry.Name)
		result.Packages++
	}
	// entries dropped after failed writes
	if err := e.manifests.Save(r.m); err != nil {
		return nil, err
	}

	result.CopyManifest = r.m.Copy.Items()
	result.BackupManifest = r.m.Backup.Items()
	result.Plugins = r.plugins.Items()

	logger.Info().
		Int("packages", result.Packages).
		Int("linked", len(result.CopyManifest)).
		Int("backedUp", len(result.BackupManifest)).
		Int("plugins", len(result.Plugins)).
		Int("skipped", len(result.Skipped)).
		Msg("Deployment complete")

	if err := e.indexer.WriteIndex(result.Plugins); err != nil {
		return result, errors.Wrap(err, errors.ErrPluginIndex, "deployment finished but the plugin index was not written")
	}
	return result, nil
}

func (e *Engine) deployPackage(ctx context.Context, r *run, name string) {
	logger := r.logger.With().Str("package", name).Logger()
	root := e.ctx.PackagePath(name)

	files, err := filesystem.WalkFiles(e.fs, root)
	if err != nil {
		logger.Warn().Err(err).Str("path", root).Msg("Cannot read package, skipping")
		r.result.Skipped = append(r.result.Skipped, SkippedFile{Package: name, Path: root, Err: err})
		return
	}

	logger.Debug().Int("files", len(files)).Msg("Deploying package")
	for _, rel := range files {
		if err := e.placeFile(ctx, r, root, rel); err != nil {
			logger.Warn().Err(err).Str("path", rel).Msg("Cannot place file, skipping")
			r.result.Skipped = append(r.result.Skipped, SkippedFile{Package: name, Path: rel, Err: err})
		}
	}
}

// placeFile links root/rel into the target at the target's casing of rel
func (e *Engine) placeFile(ctx context.Context, r *run, root, rel string) error {
	src := filepath.Join(root, rel)
	resolved := paths.ResolveCase(e.fs, e.ctx.TargetRoot(), rel)
	dst := e.ctx.TargetPath(resolved)

	if err := e.ensureParents(r, resolved); err != nil {
		return err
	}

	info, err := e.fs.Lstat(dst)
	switch {
	case err == nil && info.IsDir():
		return errors.Newf(errors.ErrPath, "target %s is a directory", resolved)
	case err == nil && !r.m.Copy.Contains(resolved) && !e.isOverlayLink(dst):
		if err := e.backup(r, resolved); err != nil {
			return err
		}
	case err == nil:
		if err := e.fs.Remove(dst); err != nil {
			return errors.Wrapf(err, errors.ErrPath, "failed to replace %s", resolved)
		}
	case !os.IsNotExist(err):
		return errors.Wrapf(err, errors.ErrPath, "failed to inspect %s", resolved)
	}

	added := r.m.Copy.Add(resolved)
	if added {
		if err := e.record(r); err != nil {
			r.m.Copy.Remove(resolved)
			return err
		}
	}
	if err := e.linker.Link(ctx, src, dst); err != nil {
		if added {
			r.m.Copy.Remove(resolved)
		}
		return errors.Wrapf(err, errors.ErrPath, "failed to link %s", resolved)
	}

	if e.isPlugin(resolved) {
		r.plugins.Add(filepath.Base(resolved))
	}
	return nil
}

// backup moves the original file at rel into the backup root. A path is
// backed up at most once: if the backup slot is taken the file is left in
// place and the caller skips it.
func (e *Engine) backup(r *run, rel string) error {
	backupPath := e.ctx.BackupPath(rel)
	if filesystem.Exists(e.fs, backupPath) {
		return errors.Newf(errors.ErrPath, "backup of %s already exists, leaving the original in place", rel).
			WithDetail("backup", backupPath)
	}

	r.m.Backup.Add(rel)
	if err := e.record(r); err != nil {
		r.m.Backup.Remove(rel)
		return err
	}
	if err := filesystem.Move(e.fs, e.ctx.TargetPath(rel), backupPath); err != nil {
		r.m.Backup.Remove(rel)
		return errors.Wrapf(err, errors.ErrPath, "failed to back up %s", rel)
	}
	r.logger.Debug().Str("path", rel).Msg("Backed up original file")
	return nil
}

// ensureParents creates the missing parent directories of rel in the
// target, recording each created directory in the copy manifest, outermost
// first.
func (e *Engine) ensureParents(r *run, rel string) error {
	dir := filepath.Dir(rel)
	if dir == "." {
		return nil
	}

	cur := ""
	for _, part := range splitRel(dir) {
		cur = filepath.Join(cur, part)
		abs := e.ctx.TargetPath(cur)

		if info, err := e.fs.Stat(abs); err == nil {
			if !info.IsDir() {
				return errors.Newf(errors.ErrPath, "target %s is not a directory", cur)
			}
			continue
		}
		if filesystem.Exists(e.fs, abs) {
			return errors.Newf(errors.ErrPath, "target %s is a dangling link", cur)
		}

		r.m.Copy.Add(cur)
		if err := e.record(r); err != nil {
			r.m.Copy.Remove(cur)
			return err
		}
		if err := e.fs.MkdirAll(abs, 0755); err != nil {
			r.m.Copy.Remove(cur)
			return errors.Wrapf(err, errors.ErrPath, "failed to create %s", cur)
		}
	}
	return nil
}

// record writes the run's manifests before the target is changed
func (e *Engine) record(r *run) error {
	if err := e.manifests.Save(r.m); err != nil {
		return errors.Wrap(err, errors.ErrPath, "failed to record the manifests")
	}
	return nil
}
