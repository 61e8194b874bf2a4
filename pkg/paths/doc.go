// Package paths provides centralized path handling for modstack.
//
// It handles:
//
//   - XDG locations for the default package root, backup root and load order
//   - The immutable DeploymentContext (package, target and backup roots)
//   - Manifest file locations beside the backup root
//   - Case resolution of relative paths against an existing tree
//   - Validation of relative paths read from manifests
//
// # Environment Variables
//
//   - MODSTACK_DATA_DIR: Override XDG data directory (default: $XDG_DATA_HOME/modstack)
//   - MODSTACK_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/modstack)
//
// # Usage
//
//	ctx, err := paths.NewDeploymentContext("~/mods", "/games/skyrim/Data", "~/.local/share/modstack/backup")
//	if err != nil {
//	    return err
//	}
//	ctx.CopyManifestPath() // ~/.local/share/modstack/copy_manifest.txt
package paths
