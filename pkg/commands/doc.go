// Package commands provides the high-level command implementations for
// modstack.
//
// It wires the configuration into the engines: the load order store, the
// overlay engine, the conflict engine and the package manager. The CLI in
// cmd/modstack only parses flags and renders what these functions return.
//
// Commands that change the load order save it before returning. Commands
// that change package directories re-deploy afterwards when
// deploy.reload_on_change is set and a deployment is active.
package commands
