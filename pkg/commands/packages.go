package commands

import (
	"context"

	"github.com/arthur-debert/modstack/pkg/overlay"
)

// PackageResult reports a package change and any re-deployment it caused
type PackageResult struct {
	Name     string
	Redeploy *overlay.DeployResult
}

// Install installs a directory as a new enabled package
func (a *App) Install(ctx context.Context, source string) (*PackageResult, error) {
	name, err := a.Packages.Install(ctx, source)
	if err != nil {
		return nil, err
	}
	res := &PackageResult{Name: name}
	res.Redeploy, err = a.reloadIfActive(ctx)
	return res, err
}

// Remove deletes a package
func (a *App) Remove(ctx context.Context, name string) (*PackageResult, error) {
	if err := a.Packages.Remove(name); err != nil {
		return nil, err
	}
	res := &PackageResult{Name: name}
	var err error
	res.Redeploy, err = a.reloadIfActive(ctx)
	return res, err
}

// Rename renames a package, keeping its place in the load order
func (a *App) Rename(ctx context.Context, oldName, newName string) (*PackageResult, error) {
	if err := a.Packages.Rename(oldName, newName); err != nil {
		return nil, err
	}
	res := &PackageResult{Name: newName}
	var err error
	res.Redeploy, err = a.reloadIfActive(ctx)
	return res, err
}
