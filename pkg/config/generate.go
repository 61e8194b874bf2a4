package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modstack/pkg/errors"
	"github.com/arthur-debert/modstack/pkg/filesystem"
	toml "github.com/pelletier/go-toml/v2"
)

// GenerateConfigContent returns the default configuration with every value
// commented out
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [paths], [deploy]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") && !strings.Contains(trimmed, "=") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}

// WriteDefault writes the commented default configuration to path. An
// existing file is kept unless force is set.
func WriteDefault(fsys filesystem.FS, path string, force bool) error {
	if !force && filesystem.Exists(fsys, path) {
		return errors.Newf(errors.ErrAlreadyExists, "config file %s already exists", path).
			WithDetail("path", path)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to create %s", filepath.Dir(path))
	}
	if err := filesystem.WriteFileAtomic(fsys, path, []byte(GenerateConfigContent()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to write %s", path)
	}
	return nil
}

// fileView mirrors Config with the TOML layout of the config file
type fileView struct {
	Paths struct {
		Packages  string `toml:"packages"`
		Target    string `toml:"target"`
		Backup    string `toml:"backup"`
		LoadOrder string `toml:"load_order"`
	} `toml:"paths"`
	Deploy struct {
		LinkMode         string   `toml:"link_mode"`
		PluginExtensions []string `toml:"plugin_extensions"`
		ReloadOnChange   bool     `toml:"reload_on_change"`
	} `toml:"deploy"`
	Conflicts struct {
		Ignore  []string `toml:"ignore"`
		Workers int      `toml:"workers"`
	} `toml:"conflicts"`
	Queue struct {
		Settle string `toml:"settle"`
	} `toml:"queue"`
	Watch struct {
		Debounce string `toml:"debounce"`
	} `toml:"watch"`
	Plugins struct {
		IndexFile    string   `toml:"index_file"`
		ActivePrefix string   `toml:"active_prefix"`
		Header       []string `toml:"header"`
	} `toml:"plugins"`
}

// Render encodes the effective configuration as TOML that Load accepts
func Render(cfg *Config) (string, error) {
	var v fileView
	v.Paths.Packages = cfg.Paths.Packages
	v.Paths.Target = cfg.Paths.Target
	v.Paths.Backup = cfg.Paths.Backup
	v.Paths.LoadOrder = cfg.Paths.LoadOrder
	v.Deploy.LinkMode = cfg.Deploy.LinkMode
	v.Deploy.PluginExtensions = cfg.Deploy.PluginExtensions
	v.Deploy.ReloadOnChange = cfg.Deploy.ReloadOnChange
	v.Conflicts.Ignore = cfg.Conflicts.Ignore
	v.Conflicts.Workers = cfg.Conflicts.Workers
	v.Queue.Settle = cfg.Queue.Settle.String()
	v.Watch.Debounce = cfg.Watch.Debounce.String()
	v.Plugins.IndexFile = cfg.Plugins.IndexFile
	v.Plugins.ActivePrefix = cfg.Plugins.ActivePrefix
	v.Plugins.Header = cfg.Plugins.Header

	data, err := toml.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return string(data), nil
}
