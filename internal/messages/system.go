package messages

// System messages for logging, locking, batching, and the inbox watcher.
const (
	// LogFlagLevelFmt is the help text for --log-level.
	LogFlagLevelFmt     = "Minimum log level (%s)"
	LogFlagFormat       = "Log encoding written to stderr (text or json)"
	LogInvalidLevelFmt  = "invalid log level %q"
	LogInvalidFormatFmt = "invalid log format %q (supported: text, json)"

	// RootStartPathRequired indicates start path is required for root resolution.
	RootStartPathRequired = "start path is required"
	RootPathNotFileFmt    = "%s exists but is not a regular file; move or remove it and retry"
	RootStatFmt           = "failed to stat %s: %w"

	// LockTimeout is the sentinel text for lock acquisition timeouts.
	LockTimeout      = "timed out waiting for plugin lock"
	LockTimeoutFmt   = "%w after %s"
	LockCreateDirFmt = "failed to create lock directory %s: %w"
	LockOpenFmt      = "failed to open lock file %s: %w"
	LockAcquireFmt   = "failed to lock %s: %w"

	// BatchFailed is the sentinel text for batches with failed items.
	BatchFailed         = "one or more plugins failed to install"
	BatchItemFailedFmt  = "%s: %w"
	BatchStagerRequired = "batch stager is required"
	BatchLogItemFailed  = "plugin install failed"
	BatchLogItemStaged  = "plugin installed"

	// InboxDirRequired indicates the watcher has no inbox directory.
	InboxDirRequired       = "inbox directory is required"
	InboxCreateDirFmt      = "failed to create inbox %s: %w"
	InboxWatchFmt          = "failed to watch %s: %w"
	InboxLogWatching       = "watching inbox"
	InboxLogWatchError     = "inbox watch error"
	InboxLogWatchAddFailed = "failed to watch inbox subdirectory"
	InboxLogStaged         = "staged inbox entry"
	InboxLogStageFailed    = "failed to stage inbox entry"
	InboxLogCleanupFailed  = "failed to remove staged inbox entry"

	// PromptCancelled indicates the user aborted an interactive prompt.
	PromptCancelled        = "prompt cancelled"
	PromptRequiresTerminal = "prompts require an interactive terminal"
	PromptYes              = "Yes"
	PromptNo               = "No"
)
