package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes one merge job: the destination file and the ordered
// list of firmware targets to pack. Target order is significant: placement
// and overlap resolution both follow it.
type Manifest struct {
	// Output is the destination path for the merged container image.
	Output string `yaml:"output"`
	// Targets are the firmware files to embed, in merge order.
	Targets []Target `yaml:"targets"`
}

// Target is one firmware file to embed.
type Target struct {
	// Path is the source binary.
	Path string `yaml:"path"`
	// Offset is the requested placement as text: decimal or "0x"-prefixed
	// hexadecimal. Empty means auto-append. Kept textual so hex survives
	// YAML round trips unchanged.
	Offset string `yaml:"offset,omitempty"`
}

const (
	// DefaultManifestFilename is the manifest path used when none is given.
	DefaultManifestFilename = "aio-merge.yaml"

	// DefaultOutputFilename is used when the manifest omits the output path.
	DefaultOutputFilename = "merged-firmware.bin"

	// DefaultFilePermissions is the file permission for saved manifests.
	DefaultFilePermissions = 0o600
)

var (
	// errManifestIsNotSet is returned when a nil manifest is provided.
	errManifestIsNotSet = errors.New("manifest is not set")
	// errNoTargets is returned when the manifest lists no targets.
	errNoTargets = errors.New("at least one target must be provided")
	// errTargetPathRequired is returned when a target has an empty path.
	errTargetPathRequired = errors.New("target path must be provided")
)

// Load reads a manifest from the provided path and validates it.
func Load(path string) (*Manifest, error) {
	if path == "" {
		path = DefaultManifestFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(contents, &manifest); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	if err := Validate(&manifest); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// Save writes the manifest to the provided path.
func Save(path string, manifest *Manifest) error {
	if manifest == nil {
		return errManifestIsNotSet
	}

	if path == "" {
		path = DefaultManifestFilename
	}

	if err := Validate(manifest); err != nil {
		return err
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// Validate checks required fields and applies defaults.
func Validate(manifest *Manifest) error {
	if manifest == nil {
		return errManifestIsNotSet
	}

	if len(manifest.Targets) == 0 {
		return errNoTargets
	}

	for i, target := range manifest.Targets {
		if target.Path == "" {
			return fmt.Errorf("target %d: %w", i+1, errTargetPathRequired)
		}
	}

	// Default output if not specified.
	if manifest.Output == "" {
		manifest.Output = DefaultOutputFilename
	}

	return nil
}
