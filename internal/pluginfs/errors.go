package pluginfs

import (
	"errors"
	"fmt"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrMetadataUnreadable     = errors.New(messages.PluginsMetadataUnreadable)
	ErrInvalidSourcePackage   = errors.New(messages.PluginsInvalidSource)
	ErrRestoreMetadataMissing = errors.New(messages.PluginsRestoreMissing)
)

// MetadataUnreadableError reports that neither metadata file in Dir could be used.
type MetadataUnreadableError struct {
	Dir string
	// Causes holds the per-candidate failures in lookup order.
	Causes []error
}

func (e *MetadataUnreadableError) Error() string {
	return fmt.Sprintf(messages.PluginsMetadataUnreadFmt, e.Dir)
}

// Is matches ErrMetadataUnreadable.
func (e *MetadataUnreadableError) Is(target error) bool {
	return target == ErrMetadataUnreadable
}

// Unwrap exposes the per-candidate failures.
func (e *MetadataUnreadableError) Unwrap() []error {
	return e.Causes
}

// InvalidSourcePackageError reports a staging source without usable metadata.
// Source is the locator the caller passed in, before any single-folder descent.
type InvalidSourcePackageError struct {
	Source string
	// Name is set when metadata was readable but its name cannot be a directory name.
	Name string
	Err  error
}

func (e *InvalidSourcePackageError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf(messages.PluginsInvalidSourceNameFmt, e.Source, e.Name)
	}
	return fmt.Sprintf(messages.PluginsInvalidSourceFmt, e.Source)
}

// Is matches ErrInvalidSourcePackage.
func (e *InvalidSourcePackageError) Is(target error) bool {
	return target == ErrInvalidSourcePackage
}

func (e *InvalidSourcePackageError) Unwrap() error {
	return e.Err
}

// RestoreMetadataMissingError reports a restored plugin whose metadata cannot be read.
type RestoreMetadataMissingError struct {
	Plugin string
	Err    error
}

func (e *RestoreMetadataMissingError) Error() string {
	return fmt.Sprintf(messages.PluginsRestoreMissingFmt, e.Plugin)
}

// Is matches ErrRestoreMetadataMissing.
func (e *RestoreMetadataMissingError) Is(target error) bool {
	return target == ErrRestoreMetadataMissing
}

func (e *RestoreMetadataMissingError) Unwrap() error {
	return e.Err
}
