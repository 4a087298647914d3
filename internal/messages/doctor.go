package messages

// Doctor messages for the doctor command and its checks.
const (
	// DoctorUse is the doctor command name.
	DoctorUse            = "doctor"
	DoctorShort          = "Check the config and plugin base directory for problems"
	DoctorHealthCheckFmt = "Checking plugins in %s\n"

	DoctorCheckNameConfig  = "Config"
	DoctorCheckNameBaseDir = "BaseDir"
	DoctorCheckNamePlugins = "Plugins"
	DoctorCheckNameStaging = "Staging"

	DoctorConfigLoadedFmt     = "Config loaded from %s"
	DoctorConfigLoadFailedFmt = "Failed to load config: %v"
	DoctorConfigLoadRecommend = "Fix pstage.toml or pass a valid file with --config."

	DoctorDirExistsFmt            = "Directory %s exists"
	DoctorBaseDirMissingFmt       = "Directory %s does not exist yet"
	DoctorBaseDirMissingRecommend = "It is created by the first stage or install."
	DoctorPathNotDirFmt           = "%s exists but is not a directory"
	DoctorPathNotDirRecommend     = "Move the file away or set base_dir to a directory."

	DoctorPluginInstalledFmt              = "%s %s installed"
	DoctorPluginBackupsFmt                = "%s has %d backups"
	DoctorPluginBackupsRecommendFmt       = "Run 'pstage prune %s' to keep only the most recent."
	DoctorPluginOrphanBackupsFmt          = "%s is not installed but has %d backups"
	DoctorPluginOrphanBackupsRecommendFmt = "Run 'pstage restore %s' to reinstate the most recent backup."
	DoctorPluginNameMismatchFmt           = "Directory %s declares plugin %q"
	DoctorPluginNameMismatchRecommend     = "Stage the plugin again so it lands under its declared name."
	DoctorPluginUnreadableFmt             = "Directory %s has no readable package.json or bower.json"
	DoctorPluginUnreadableRecommend       = "Remove it, or stage a valid copy of the plugin."

	DoctorStagingClean             = "No interrupted stagings"
	DoctorStagingLeftoverFmt       = "Leftover staging directory %s"
	DoctorStagingLeftoverRecommend = "An earlier stage was interrupted; the directory can be removed."

	DoctorFailureSummary = "Some checks failed. Please address the items above."
	DoctorFailureError   = "doctor checks failed"
	DoctorWarningSummary = "Checks passed with warnings."
	DoctorSuccessSummary = "All checks passed."

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-10s %s\n"
	DoctorRecommendationPrefix = "       -> "
)
