package commands

import (
	"github.com/arthur-debert/modstack/pkg/manifest"
)

// StatusResult describes the deployment state
type StatusResult struct {
	Active      bool
	State       manifest.State
	Copied      int
	BackedUp    int
	Packages    int
	Enabled     int
	TargetRoot  string
	PackageRoot string
}

// Status reports whether a deployment is active and how large it is. A
// half-written manifest pair is reported as an error.
func (a *App) Status() (*StatusResult, error) {
	dc := a.Overlay.Context()
	order := a.Store.Snapshot().Order
	res := &StatusResult{
		State:       a.Overlay.Manifests().State(),
		Packages:    len(order.Packages()),
		Enabled:     len(order.Enabled()),
		TargetRoot:  dc.TargetRoot(),
		PackageRoot: dc.PackageRoot(),
	}

	active, err := a.Overlay.Active()
	if err != nil {
		return res, err
	}
	res.Active = active
	if !active {
		return res, nil
	}

	m, err := a.Overlay.Manifests().Load()
	if err != nil {
		return res, err
	}
	res.Copied = m.Copy.Len()
	res.BackedUp = m.Backup.Len()
	return res, nil
}
