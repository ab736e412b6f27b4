package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-optchain/internal/version"
	"github.com/rxtech-lab/argo-optchain/pkg/errors"
)

// ManifestFileName is the manifest written at the root of every dump directory.
const ManifestFileName = "manifest.yaml"

// Manifest describes how a dump directory was written.
type Manifest struct {
	LayoutVersion string    `yaml:"layout_version"`
	Format        Format    `yaml:"format"`
	CreatedAt     time.Time `yaml:"created_at"`
	CreatedBy     string    `yaml:"created_by"`
}

// readManifest returns nil when root has no manifest yet.
func readManifest(root string) (*Manifest, error) {
	content, err := os.ReadFile(filepath.Join(root, ManifestFileName))
	if os.IsNotExist(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := yaml.Unmarshal(content, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &manifest, nil
}

func writeManifest(root string, manifest Manifest) error {
	content, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	return os.WriteFile(filepath.Join(root, ManifestFileName), content, 0o644)
}

// ensureManifest writes a manifest for a fresh root or checks that an existing one
// was written with a compatible layout and the same format.
func ensureManifest(root string, format Format) (*Manifest, error) {
	existing, err := readManifest(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCacheReadFailed, "failed to read cache manifest", err)
	}

	if existing == nil {
		manifest := Manifest{
			LayoutVersion: version.CacheLayoutVersion,
			Format:        format,
			CreatedAt:     time.Now().UTC(),
			CreatedBy:     "optchain " + version.GetVersion(),
		}

		if err := writeManifest(root, manifest); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCacheWriteFailed, "failed to write cache manifest", err)
		}

		return &manifest, nil
	}

	if err := version.CheckLayoutCompatibility(version.CacheLayoutVersion, existing.LayoutVersion); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCacheLayoutMismatch, err, "cache at %s uses an incompatible layout", root)
	}

	if existing.Format != format {
		return nil, errors.Newf(errors.ErrCodeCacheLayoutMismatch,
			"cache at %s stores %s files, not %s", root, existing.Format, format)
	}

	return existing, nil
}
