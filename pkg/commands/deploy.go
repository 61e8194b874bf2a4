package commands

import (
	"context"

	"github.com/arthur-debert/modstack/pkg/logging"
	"github.com/arthur-debert/modstack/pkg/overlay"
)

// Deploy overlays the enabled packages of the current load order
func (a *App) Deploy(ctx context.Context) (*overlay.DeployResult, error) {
	done := logging.LogOperationStart(a.logger, "deploy")
	defer done()
	return a.Overlay.Deploy(ctx, a.Store.Snapshot().Order)
}

// Restore undoes the active deployment
func (a *App) Restore(ctx context.Context) (*overlay.RestoreResult, error) {
	done := logging.LogOperationStart(a.logger, "restore")
	defer done()
	return a.Overlay.Restore(ctx)
}

// Reload restores and deploys the current load order
func (a *App) Reload(ctx context.Context) (*overlay.DeployResult, error) {
	done := logging.LogOperationStart(a.logger, "reload")
	defer done()
	return a.Overlay.Reload(ctx, a.Store.Snapshot().Order)
}

// reloadIfActive re-deploys after a package change when configured to and
// a deployment is active. It returns nil when nothing was re-deployed.
func (a *App) reloadIfActive(ctx context.Context) (*overlay.DeployResult, error) {
	if !a.Config.Deploy.ReloadOnChange {
		return nil, nil
	}
	active, err := a.Overlay.Active()
	if err != nil || !active {
		return nil, err
	}
	a.logger.Info().Msg("Deployment active, re-deploying after package change")
	return a.Reload(ctx)
}
