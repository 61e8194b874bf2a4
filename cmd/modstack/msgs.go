package modstack

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Overlay a stack of packages onto a directory, reversibly"
	MsgDeployShort     = "Overlay the enabled packages onto the target"
	MsgRestoreShort    = "Take the deployment off the target"
	MsgReloadShort     = "Restore, then deploy the current load order"
	MsgStatusShort     = "Show whether a deployment is active"
	MsgConflictsShort  = "Show which packages override which files"
	MsgOrderShort      = "Inspect and edit the load order"
	MsgOrderListShort  = "Print the load order"
	MsgOrderSyncShort  = "Reconcile the load order with the package directories"
	MsgEnableShort     = "Enable packages"
	MsgDisableShort    = "Disable packages"
	MsgMoveShort       = "Move a package to a position"
	MsgSeparatorShort  = "Insert a separator"
	MsgInstallShort    = "Install a directory as a new package"
	MsgRemoveShort     = "Delete a package"
	MsgRenameShort     = "Rename a package, keeping its place"
	MsgConfigShort     = "Manage the configuration file"
	MsgConfigInitShort = "Write a commented default configuration file"
	MsgConfigShowShort = "Print the effective configuration"
	MsgConfigPathShort = "Print the configuration file location"
	MsgWatchShort      = "Follow load order and package changes"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgOrderSaved       = "Load order saved."
	MsgNoChanges        = "Load order already matches the package directories."
	MsgInstalledFormat  = "Installed package '%s' (enabled).\n"
	MsgRemovedFormat    = "Removed package '%s'.\n"
	MsgRenamedFormat    = "Renamed package '%s' to '%s'.\n"
	MsgConfigWritten    = "Wrote %s\n"
	MsgManWritten       = "Man pages written to %s\n"
	MsgWatchStopped     = "Stopped watching."
	MsgCommandFailed    = "%s failed: %v"
	MsgCommandCoalesced = "%s ran once for %d requests"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Configuration file (default $XDG_CONFIG_HOME/modstack/config.toml)"
	MsgFlagTarget    = "Target directory, overrides paths.target"
	MsgFlagPackages  = "Package root, overrides paths.packages"
	MsgFlagNoColor   = "Disable colours and table styling"
	MsgFlagFormat    = "Output format: table, yaml or markdown"
	MsgFlagForce     = "Overwrite an existing configuration file"
	MsgFlagAt        = "Entry position; negative appends"
	MsgFlagDeploy    = "Re-deploy after every change"
	MsgFlagOutputDir = "Directory to write man pages to"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/deploy-long.txt
	msgDeployLongRaw string
	MsgDeployLong    = strings.TrimSpace(msgDeployLongRaw)

	//go:embed msgs/deploy-example.txt
	msgDeployExampleRaw string
	MsgDeployExample    = strings.TrimRight(msgDeployExampleRaw, "\n")

	//go:embed msgs/order-long.txt
	msgOrderLongRaw string
	MsgOrderLong    = strings.TrimSpace(msgOrderLongRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
