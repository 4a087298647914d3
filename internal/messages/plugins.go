package messages

// Plugin staging, backup, and restore messages.
const (
	// PluginsSystemRequired indicates a filesystem implementation is required.
	PluginsSystemRequired = "plugin filesystem system is required"
	// PluginsBaseDirRequired indicates a base directory is required.
	PluginsBaseDirRequired        = "plugin base directory is required"
	PluginsNameRequired           = "plugin name is required"
	PluginsNameInvalidFmt         = "invalid plugin name %q: must be a single path component"
	PluginsSourceRequired         = "plugin source is required"
	PluginsCanonicalRequired      = "canonical plugin path is required"
	PluginsMetadataUnreadable     = "plugin metadata unreadable"
	PluginsMetadataUnreadFmt      = "no readable package.json or bower.json in %s"
	PluginsMetadataInvalidFmt     = "invalid metadata in %s: %w"
	PluginsMetadataDecodeFmt      = "decode %s: %w"
	PluginsInvalidSource          = "invalid source package"
	PluginsInvalidSourceFmt       = "invalid source package %s: not a valid plugin"
	PluginsInvalidSourceNameFmt   = "invalid source package %s: metadata name %q is not a single path component"
	PluginsVersionTokenInvalidFmt = "version %q cannot be used in a backup directory name"
	PluginsSourceIsTargetFmt      = "source %s overlaps the install target %s"
	PluginsSourceIsBackupFmt      = "source %s overlaps the backup %s; use restore to roll back"
	PluginsRestoreMissing         = "restored plugin metadata missing"
	PluginsRestoreMissingFmt      = "restored plugin %s has no readable metadata"

	PluginsFailedStatFmt       = "failed to stat %s: %w"
	PluginsFailedReadDirFmt    = "failed to list %s: %w"
	PluginsFailedRemoveFmt     = "failed to remove %s: %w"
	PluginsFailedRenameFmt     = "failed to move %s to %s: %w"
	PluginsFailedCopyFmt       = "failed to copy %s to %s: %w"
	PluginsFailedCreateDirFmt  = "failed to create directory %s: %w"
	PluginsFailedReadFmt       = "failed to read %s: %w"
	PluginsFailedWriteFmt      = "failed to write %s: %w"
	PluginsUnsupportedEntryFmt = "unsupported file type at %s (mode %s)"

	// Log lines emitted by the staging core.
	PluginsLogBackupCreated          = "backed up plugin"
	PluginsLogBackupUnknownVersion   = "plugin metadata unreadable, using fallback backup token"
	PluginsLogBackupStaleRemoved     = "removed stale backup at target path"
	PluginsLogBackupPruned           = "removed old plugin backup"
	PluginsLogRestoreCompleted       = "restored plugin from backup"
	PluginsLogRestoreNothing         = "no backup to restore"
	PluginsLogRestoreCanonicalGone   = "removed current plugin directory before restore"
	PluginsLogStagePassthrough       = "source is not a local path, skipping file staging"
	PluginsLogStageDescended         = "descending into single root folder"
	PluginsLogStageCompleted         = "staged plugin"
	PluginsLogStageSourceCleanupWarn = "failed to clean up staging directory"

	// PluginsDiffPreviewTruncatedFmt is appended to truncated diff previews.
	PluginsDiffPreviewTruncatedFmt = "... (truncated to %d lines; rerun with %s <n> to see more)"
	PluginsDiffNoChanges           = "metadata is identical"
)
