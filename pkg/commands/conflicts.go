package commands

import (
	"context"

	"github.com/arthur-debert/modstack/pkg/conflicts"
)

// Conflicts computes the override graph for the current load order
func (a *App) Conflicts(ctx context.Context) (*conflicts.Result, error) {
	return a.ConflictEngine.Compute(ctx, a.Store.Snapshot().Order)
}
