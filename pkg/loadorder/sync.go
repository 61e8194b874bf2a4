package loadorder

import (
	"sort"
	"strings"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/paths"
)

// SyncReport lists what Sync changed
type SyncReport struct {
	Pruned     []string
	Duplicates []string
	Added      []string
}

// Changed reports whether Sync altered the load order
func (r SyncReport) Changed() bool {
	return len(r.Pruned) > 0 || len(r.Duplicates) > 0 || len(r.Added) > 0
}

// Sync reconciles lo with the package directories that exist. Entries for
// missing directories are pruned, repeated package entries keep their first
// occurrence, and directories with no entry are appended as Disabled in
// name order. Separators are kept as they are.
func Sync(lo LoadOrder, packages []string) (LoadOrder, SyncReport) {
	var report SyncReport

	present := make(map[string]bool, len(packages))
	for _, name := range packages {
		present[name] = true
	}

	seen := make(map[string]bool, len(lo))
	out := make(LoadOrder, 0, len(lo)+len(packages))
	for _, e := range lo {
		if !e.IsPackage() {
			out = append(out, e)
			continue
		}
		if !present[e.Name] {
			report.Pruned = append(report.Pruned, e.Name)
			continue
		}
		if seen[e.Name] {
			report.Duplicates = append(report.Duplicates, e.Name)
			continue
		}
		seen[e.Name] = true
		out = append(out, e)
	}

	added := make([]string, 0)
	for _, name := range packages {
		if !seen[name] {
			seen[name] = true
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		out = append(out, Entry{Name: name, State: Disabled})
	}
	report.Added = added

	return out, report
}

// ListPackages returns the package directory names under packageRoot in
// name order. Hidden directories and names that cannot be written to a load
// order file are skipped. A missing root yields no packages.
func ListPackages(fsys filesystem.FS, packageRoot string) ([]string, error) {
	entries, err := fsys.ReadDir(packageRoot)
	if err != nil {
		if !filesystem.Exists(fsys, packageRoot) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrPath, "failed to list packages in %s", packageRoot)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if paths.ValidatePackageName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
