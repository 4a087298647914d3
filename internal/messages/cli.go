package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse         = "pstage"
	RootShort       = "Stage, back up, and restore plugin directories"
	RootVersionFlag = "Print version and exit"
	RootFlagConfig  = "Path to pstage.toml (default: ./pstage.toml when present)"
	RootFlagBaseDir = "Directory holding installed plugins (overrides base_dir)"
	RootGetwdFmt    = "resolve working directory: %w"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// PromptYesDefaultFmt formats yes/no prompts with yes as default.
	PromptYesDefaultFmt   = "%s [Y/n]: "
	PromptNoDefaultFmt    = "%s [y/N]: "
	PromptInvalidResponse = "invalid response %q"
	PromptRetryYesNo      = "Please enter y or n."

	FlagJSON = "Print JSON instead of a table"
	FlagYes  = "Skip the confirmation prompt"

	// StageUse is the stage command usage.
	StageUse            = "stage <name> <source>"
	StageShort          = "Stage one plugin from a local directory or version"
	StageStagedFmt      = "staged %s %s into %s\n"
	StagePassthroughFmt = "%s %s is not a local path; nothing to stage\n"

	// InstallUse is the install command usage.
	InstallUse             = "install [name=source ...]"
	InstallShort           = "Stage several plugins concurrently"
	InstallFlagManifest    = "Plugin manifest to install (default: ./plugins.toml when no plugins are given)"
	InstallFlagJobs        = "Maximum concurrent stagings (overrides batch.jobs)"
	InstallFlagStrict      = "Exit non-zero when any plugin fails (overrides batch.strict)"
	InstallInvalidItemFmt  = "invalid plugin %q: expected name=source"
	InstallArgsAndManifest = "pass plugins as arguments or --manifest, not both"
	InstallStatusOK        = "ok"
	InstallStatusFailedFmt = "failed: %v"
	InstallSummaryFmt      = "%d of %d plugins staged\n"
	InstallHeaderPlugin    = "PLUGIN"
	InstallHeaderVersion   = "VERSION"
	InstallHeaderSource    = "SOURCE"
	InstallHeaderStatus    = "STATUS"
	InstallHeaderElapsed   = "TIME"

	// BackupUse is the backup command usage.
	BackupUse         = "backup <name>"
	BackupShort       = "Move the installed plugin aside to a versioned backup"
	BackupCreatedFmt  = "backed up %s to %s\n"
	BackupNothingFmt  = "%s is not installed; nothing to back up\n"
	BackupsUse        = "backups <name>"
	BackupsShort      = "List backups of a plugin, most recent first"
	BackupsNoneFmt    = "no backups of %s\n"
	BackupsHeaderTok  = "VERSION"
	BackupsHeaderPath = "PATH"
	BackupsHeaderNext = "RESTORES"
	BackupsNextMarker = "*"

	// PruneUse is the prune command usage.
	PruneUse          = "prune <name>"
	PruneShort        = "Remove all but the most recent backup of a plugin"
	PruneNothingFmt   = "%s has at most one backup; nothing to prune\n"
	PruneKeepFmt      = "Keeping %s\n"
	PruneRemoveFmt    = "  - %s\n"
	PrunePromptFmt    = "Remove %d older backups of %s?"
	PruneRequiresYes  = "prune needs confirmation; re-run with --yes when not on a terminal"
	PruneAborted      = "Prune cancelled."
	PruneCompletedFmt = "removed %d backups of %s\n"

	// RestoreUse is the restore command usage.
	RestoreUse             = "restore <name>"
	RestoreShort           = "Replace the installed plugin with its most recent backup"
	RestoreFlagDiffLines   = "Maximum diff preview lines"
	RestoreRequiresYes     = "restore needs confirmation; re-run with --yes when not on a terminal"
	RestorePreviewFmt      = "Restoring %s replaces %s with %s\n"
	RestoreConfirmTitleFmt = "Restore %s from backup?"
	RestoreConfirmDescFmt  = "%s -> %s"
	RestoreUnknownVersion  = "(unknown)"
	RestoreNoBackupFmt     = "no backup of %s to restore\n"
	RestoreAborted         = "Restore cancelled."
	RestoreCompletedFmt    = "restored %s %s from %s\n"

	// InspectUse is the inspect command usage.
	InspectUse           = "inspect <dir>"
	InspectShort         = "Show the name and version a plugin directory declares"
	InspectHeaderName    = "NAME"
	InspectHeaderVersion = "VERSION"
	InspectHeaderFile    = "FILE"

	// WatchUse is the watch command usage.
	WatchUse        = "watch"
	WatchShort      = "Stage plugin directories as they appear in an inbox"
	WatchFlagInbox  = "Inbox directory to watch (overrides inbox.dir)"
	WatchFlagSettle = "Quiet period before an inbox entry is staged (overrides inbox.settle)"
	WatchStagedFmt  = "staged %s %s from %s\n"
	WatchFailedFmt  = "failed to stage %s: %v\n"
)
