package config

import (
	"strings"
	"time"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	"github.com/arthur-debert/modstack/pkg/paths"
)

// Config is the decoded configuration
type Config struct {
	Paths     Paths     `koanf:"paths"`
	Deploy    Deploy    `koanf:"deploy"`
	Conflicts Conflicts `koanf:"conflicts"`
	Queue     Queue     `koanf:"queue"`
	Watch     Watch     `koanf:"watch"`
	Plugins   Plugins   `koanf:"plugins"`
}

// Paths holds the roots the engines operate on
type Paths struct {
	Packages  string `koanf:"packages"`
	Target    string `koanf:"target"`
	Backup    string `koanf:"backup"`
	LoadOrder string `koanf:"load_order"`
}

// Deploy holds deployment settings
type Deploy struct {
	LinkMode         string   `koanf:"link_mode"`
	PluginExtensions []string `koanf:"plugin_extensions"`
	ReloadOnChange   bool     `koanf:"reload_on_change"`
}

// Conflicts holds conflict detection settings
type Conflicts struct {
	Ignore  []string `koanf:"ignore"`
	Workers int      `koanf:"workers"`
}

// Queue holds command queue settings
type Queue struct {
	Settle time.Duration `koanf:"settle"`
}

// Watch holds watcher settings
type Watch struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Plugins holds plugin index settings
type Plugins struct {
	IndexFile    string   `koanf:"index_file"`
	ActivePrefix string   `koanf:"active_prefix"`
	Header       []string `koanf:"header"`
}

// resolvePaths makes paths absolute and fills empty ones from XDG locations
func (c *Config) resolvePaths() error {
	resolve := func(key string, p *string, def string) error {
		if strings.TrimSpace(*p) == "" {
			if def == "" {
				return nil
			}
			*p = def
		}
		abs, err := paths.NormalizePath(*p)
		if err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "invalid %s", key)
		}
		*p = abs
		return nil
	}

	for _, r := range []struct {
		key string
		p   *string
		def string
	}{
		{"paths.packages", &c.Paths.Packages, paths.DefaultPackageRoot()},
		{"paths.backup", &c.Paths.Backup, paths.DefaultBackupRoot()},
		{"paths.load_order", &c.Paths.LoadOrder, paths.DefaultLoadOrderPath()},
		{"paths.target", &c.Paths.Target, ""},
		{"plugins.index_file", &c.Plugins.IndexFile, ""},
	} {
		if err := resolve(r.key, r.p, r.def); err != nil {
			return err
		}
	}
	return nil
}

// Context builds the deployment context from the configured roots
func (c *Config) Context() (paths.DeploymentContext, error) {
	if strings.TrimSpace(c.Paths.Target) == "" {
		return paths.DeploymentContext{}, errors.New(errors.ErrConfigValid,
			"paths.target is not set (config file or MODSTACK_PATHS_TARGET)")
	}
	return paths.NewDeploymentContext(c.Paths.Packages, c.Paths.Target, c.Paths.Backup)
}

// LinkMode returns the parsed deploy.link_mode
func (c *Config) LinkMode() (filesystem.LinkMode, error) {
	return filesystem.ParseLinkMode(c.Deploy.LinkMode)
}

// Validate checks the values that have no safe fallback. A missing target
// is not reported here, only by Context, so that commands which never touch
// the target run without one.
func (c *Config) Validate() error {
	var problems []string

	if _, err := c.LinkMode(); err != nil {
		problems = append(problems, "deploy.link_mode must be symlink, hardlink or copy")
	}
	for _, ext := range c.Deploy.PluginExtensions {
		if !strings.HasPrefix(ext, ".") {
			problems = append(problems, "deploy.plugin_extensions entries must start with a dot: "+ext)
		}
	}
	if c.Conflicts.Workers < 1 {
		problems = append(problems, "conflicts.workers must be at least 1")
	}
	if c.Queue.Settle <= 0 {
		problems = append(problems, "queue.settle must be positive")
	}
	if c.Watch.Debounce <= 0 {
		problems = append(problems, "watch.debounce must be positive")
	}
	if c.Paths.Target != "" {
		if _, err := c.Context(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrConfigValid, "invalid configuration: "+strings.Join(problems, "; ")).
			WithDetail("problems", problems)
	}
	return nil
}
