package locsio

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Metadata is the acquisition sidecar stored next to each
// localization file, in the Picasso YAML layout.
type Metadata struct {
	// ByteOrder and DataType describe the raw movie encoding
	ByteOrder string `yaml:"Byte Order"`
	DataType  string `yaml:"Data Type"`

	// Frames is the number of acquisition frames
	Frames int `yaml:"Frames"`

	// Height and Width are the camera frame dimensions in pixels
	Height int `yaml:"Height"`
	Width  int `yaml:"Width"`
}

// DefaultMetadata returns a sidecar with the encoding fields filled
// in the way the acquisition software writes them.
func DefaultMetadata(frames, height, width int) Metadata {
	return Metadata{
		ByteOrder: "<",
		DataType:  "uint16",
		Frames:    frames,
		Height:    height,
		Width:     width,
	}
}

// ReadMetadata loads an acquisition sidecar.
func ReadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata file: %w", err)
	}

	if meta.Frames == 0 || meta.Height == 0 || meta.Width == 0 {
		return Metadata{}, fmt.Errorf("metadata file %s is missing frame or dimension fields", path)
	}

	return meta, nil
}

// WriteMetadata saves an acquisition sidecar.
func WriteMetadata(meta Metadata, path string) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
