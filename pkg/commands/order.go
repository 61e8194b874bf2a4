package commands

import (
	"github.com/arthur-debert/modstack/pkg/loadorder"
)

// OrderEdit is one change to the load order
type OrderEdit func(s *loadorder.Store) error

// EditOrder applies edits as one bracketed change and saves the result.
// Observers see a single notification once every edit succeeded; on the
// first failure the order is reloaded from disk.
func (a *App) EditOrder(edits ...OrderEdit) error {
	a.Store.BeginMutation()
	for _, edit := range edits {
		if err := edit(a.Store); err != nil {
			a.Store.EndMutation()
			if _, lerr := a.Store.Load(); lerr != nil {
				a.logger.Error().Err(lerr).Msg("Failed to reload load order after failed edit")
			}
			return err
		}
	}
	a.Store.EndMutation()
	return a.Store.Save()
}

// Enable returns an edit enabling each package
func Enable(names ...string) OrderEdit {
	return func(s *loadorder.Store) error {
		for _, name := range names {
			if err := s.Enable(name); err != nil {
				return err
			}
		}
		return nil
	}
}

// Disable returns an edit disabling each package
func Disable(names ...string) OrderEdit {
	return func(s *loadorder.Store) error {
		for _, name := range names {
			if err := s.Disable(name); err != nil {
				return err
			}
		}
		return nil
	}
}

// Move returns an edit moving a package to an entry position
func Move(name string, pos int) OrderEdit {
	return func(s *loadorder.Store) error { return s.Move(name, pos) }
}

// AddSeparator returns an edit inserting a separator; a negative position
// appends
func AddSeparator(label string, pos int) OrderEdit {
	return func(s *loadorder.Store) error { return s.AddSeparator(label, pos) }
}

// SyncOrder reconciles the order with the package directories and saves it
func (a *App) SyncOrder() (loadorder.SyncReport, error) {
	report, err := a.Store.Sync()
	if err != nil {
		return report, err
	}
	return report, a.Store.Save()
}
