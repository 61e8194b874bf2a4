package loadorder

import (
	"github.com/arthur-debert/modstack/pkg/errors"
)

func packageNotFound(name string) error {
	return errors.Newf(errors.ErrPackageNotFound, "package %q is not in the load order", name).
		WithDetail("package", name)
}

func (s *Store) setState(name string, state State) error {
	return s.Mutate(func(lo *LoadOrder) error {
		i := lo.Index(name)
		if i < 0 {
			return packageNotFound(name)
		}
		(*lo)[i].State = state
		return nil
	})
}

// Enable marks a package enabled
func (s *Store) Enable(name string) error {
	return s.setState(name, Enabled)
}

// Disable marks a package disabled
func (s *Store) Disable(name string) error {
	return s.setState(name, Disabled)
}

// Move moves the entry called name to position pos in the full entry list.
// Positions past the end move the entry to the end.
func (s *Store) Move(name string, pos int) error {
	if pos < 0 {
		return errors.Newf(errors.ErrInvalidInput, "invalid position %d", pos)
	}
	return s.Mutate(func(lo *LoadOrder) error {
		i := lo.Index(name)
		if i < 0 {
			return packageNotFound(name)
		}
		entry := (*lo)[i]
		rest := append((*lo)[:i:i], (*lo)[i+1:]...)
		*lo = insertAt(rest, pos, entry)
		return nil
	})
}

// AddSeparator inserts a separator with label at pos, or appends it when
// pos is negative.
func (s *Store) AddSeparator(label string, pos int) error {
	return s.Mutate(func(lo *LoadOrder) error {
		entry := Entry{Name: label, State: Separator}
		if pos < 0 {
			*lo = append(*lo, entry)
			return nil
		}
		*lo = insertAt(*lo, pos, entry)
		return nil
	})
}

// Append adds a package entry at the end
func (s *Store) Append(name string, state State) error {
	if state == Separator {
		return errors.New(errors.ErrInvalidInput, "use AddSeparator for separators")
	}
	return s.Mutate(func(lo *LoadOrder) error {
		if lo.Index(name) >= 0 {
			return errors.Newf(errors.ErrAlreadyExists, "package %q is already in the load order", name)
		}
		*lo = append(*lo, Entry{Name: name, State: state})
		return nil
	})
}

// Rename renames a package entry in place, keeping position and state
func (s *Store) Rename(oldName, newName string) error {
	return s.Mutate(func(lo *LoadOrder) error {
		i := lo.Index(oldName)
		if i < 0 {
			return packageNotFound(oldName)
		}
		if lo.Index(newName) >= 0 {
			return errors.Newf(errors.ErrAlreadyExists, "package %q is already in the load order", newName)
		}
		(*lo)[i].Name = newName
		return nil
	})
}

// Remove deletes a package entry
func (s *Store) Remove(name string) error {
	return s.Mutate(func(lo *LoadOrder) error {
		i := lo.Index(name)
		if i < 0 {
			return packageNotFound(name)
		}
		*lo = append((*lo)[:i], (*lo)[i+1:]...)
		return nil
	})
}

func insertAt(lo LoadOrder, pos int, entry Entry) LoadOrder {
	if pos >= len(lo) {
		return append(lo, entry)
	}
	out := make(LoadOrder, 0, len(lo)+1)
	out = append(out, lo[:pos]...)
	out = append(out, entry)
	return append(out, lo[pos:]...)
}
