// Package config loads modstack's configuration.
//
// Sources are layered with koanf, later ones overriding earlier ones:
//
//  1. Embedded defaults (embedded/defaults.toml)
//  2. The user config file, TOML or YAML by extension
//     (default $XDG_CONFIG_HOME/modstack/config.toml)
//  3. MODSTACK_<SECTION>_<KEY> environment variables
//
// The result is decoded into Config with mapstructure, empty paths are
// filled from XDG locations and Config.Context builds the immutable
// deployment context the engines work against.
package config
