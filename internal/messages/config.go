package messages

// Config messages for pstage.toml and plugin manifest loading.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt      = "missing config file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized keys: %w"
	ConfigValidationFailed    = "config validation failed"
	ConfigExpandPathFmt       = "expand path %s: %w"

	ConfigFieldRequiredFmt    = "%s: %s is required"
	ConfigFieldOneOfFmt       = "%s: %s must be one of %s"
	ConfigFieldInvalidFmt     = "%s: %s failed %s=%s"
	ConfigNegativeDurationFmt = "%s: %s must not be negative"

	// ConfigMissingManifestFmt formats missing plugin manifest errors.
	ConfigMissingManifestFmt = "missing plugin manifest %s: %w"
	ConfigInvalidManifestFmt = "invalid plugin manifest %s: %w"
)
