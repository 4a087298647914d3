package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/plugin-stage/internal/messages"
	"github.com/conn-castle/plugin-stage/internal/pluginfs"
)

// Manifest lists plugins to install in one batch.
//
//	[[plugins]]
//	name = "adapt-hotgrid"
//	source = "./uploads/adapt-hotgrid"
type Manifest struct {
	Plugins []ManifestEntry `toml:"plugins" validate:"required,min=1,dive"`
}

// ManifestEntry is one plugin of a Manifest.
type ManifestEntry struct {
	Name   string `toml:"name" validate:"required"`
	Source string `toml:"source" validate:"required"`
}

// LoadManifest reads the manifest at path. Relative local sources are
// resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingManifestFmt, path, err)
	}
	manifest, err := ParseManifest(data, path)
	if err != nil {
		return nil, err
	}
	manifest.resolveSources(filepath.Dir(path))
	return manifest, nil
}

// ParseManifest parses and validates manifest TOML data.
func ParseManifest(data []byte, source string) (*Manifest, error) {
	var manifest Manifest
	if err := decodeStrict(data, &manifest); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, strictErr)
		}
		return nil, fmt.Errorf(messages.ConfigInvalidManifestFmt, source, err)
	}
	if err := validate.Struct(&manifest); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, describeValidation(source, err))
	}
	return &manifest, nil
}

func (m *Manifest) resolveSources(dir string) {
	for i, entry := range m.Plugins {
		source := entry.Source
		if !pluginfs.IsLocalLocator(source) {
			continue
		}
		if expanded, err := ExpandPath(source); err == nil {
			source = expanded
		}
		if !filepath.IsAbs(source) {
			source = filepath.Join(dir, source)
		}
		m.Plugins[i].Source = source
	}
}

// tomlFieldName reports struct fields by their toml key in validation errors.
func tomlFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}
