package pluginfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

const (
	// PrimaryMetadataFile is the metadata file consulted first.
	PrimaryMetadataFile = "package.json"
	// FallbackMetadataFile is consulted when the primary file is missing or unusable.
	FallbackMetadataFile = "bower.json"
)

// Metadata is the name/version pair a plugin declares about itself.
type Metadata struct {
	Name    string `json:"name" validate:"required"`
	Version string `json:"version" validate:"required"`
}

// metadataReader reads Metadata from one candidate file inside dir and reports
// which file it used.
type metadataReader func(sys System, dir string) (Metadata, string, error)

// metadataReaders is the lookup order; the first reader that succeeds wins.
var metadataReaders = []metadataReader{
	jsonMetadataReader(PrimaryMetadataFile),
	jsonMetadataReader(FallbackMetadataFile),
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ReadMetadata returns the name and version declared in dir.
// It returns a *MetadataUnreadableError when no candidate file is present and valid.
func ReadMetadata(sys System, dir string) (Metadata, error) {
	meta, _, err := readMetadataFile(sys, dir)
	return meta, err
}

// MetadataPath returns the path of the metadata file ReadMetadata would use in dir.
func MetadataPath(sys System, dir string) (string, error) {
	_, path, err := readMetadataFile(sys, dir)
	return path, err
}

func readMetadataFile(sys System, dir string) (Metadata, string, error) {
	if sys == nil {
		return Metadata{}, "", errors.New(messages.PluginsSystemRequired)
	}
	causes := make([]error, 0, len(metadataReaders))
	for _, read := range metadataReaders {
		meta, path, err := read(sys, dir)
		if err == nil {
			return meta, path, nil
		}
		causes = append(causes, err)
	}
	return Metadata{}, "", &MetadataUnreadableError{Dir: dir, Causes: causes}
}

func jsonMetadataReader(fileName string) metadataReader {
	return func(sys System, dir string) (Metadata, string, error) {
		path := filepath.Join(dir, fileName)
		data, err := sys.ReadFile(path)
		if err != nil {
			return Metadata{}, "", fmt.Errorf(messages.PluginsFailedReadFmt, path, err)
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			return Metadata{}, "", fmt.Errorf(messages.PluginsMetadataDecodeFmt, path, err)
		}
		if err := validate.Struct(meta); err != nil {
			return Metadata{}, "", fmt.Errorf(messages.PluginsMetadataInvalidFmt, path, err)
		}
		return meta, path, nil
	}
}
