package cache

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-optchain/internal/logger"
	"github.com/rxtech-lab/argo-optchain/internal/types"
	"github.com/rxtech-lab/argo-optchain/pkg/errors"
)

// DiskStore persists datasets as one file per key under root/<year>/.
type DiskStore struct {
	root     string
	codec    Codec
	manifest *Manifest
	logger   *logger.Logger
}

// NewDiskStore opens the dump directory at root, creating it and its manifest when missing.
// It fails if root was written with an incompatible layout or a different format.
func NewDiskStore(root string, codec Codec, log *logger.Logger) (*DiskStore, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCacheWriteFailed, err, "failed to create cache root %s", root)
	}

	manifest, err := ensureManifest(root, codec.Format())
	if err != nil {
		return nil, err
	}

	return &DiskStore{
		root:     root,
		codec:    codec,
		manifest: manifest,
		logger:   log,
	}, nil
}

// Root returns the dump directory.
func (s *DiskStore) Root() string {
	return s.root
}

// Manifest returns the manifest of the dump directory.
func (s *DiskStore) Manifest() Manifest {
	return *s.manifest
}

// Path returns the artifact path for key. The ID is used verbatim as the file name.
func (s *DiskStore) Path(key Key) string {
	return filepath.Join(s.root, strconv.Itoa(key.Year), key.ID+s.codec.Extension())
}

// Get implements Store.
func (s *DiskStore) Get(key Key) (optional.Option[types.Dataset], error) {
	if err := validateID(key.ID); err != nil {
		return optional.None[types.Dataset](), err
	}

	path := s.Path(key)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return optional.None[types.Dataset](), nil
		}

		return optional.None[types.Dataset](), errors.Wrapf(errors.ErrCodeCacheReadFailed, err, "failed to stat %s", path)
	}

	dataset, err := s.codec.Read(path)
	if err != nil {
		return optional.None[types.Dataset](), errors.Wrapf(errors.ErrCodeCacheReadFailed, err, "failed to read %s", path)
	}

	s.logger.Debug("Loaded cached dataset", zap.String("path", path), zap.Int("rows", dataset.Len()))

	return optional.Some(dataset), nil
}

// Put implements Store. Partial artifacts are never visible under the final path.
func (s *DiskStore) Put(key Key, dataset types.Dataset) error {
	if err := validateID(key.ID); err != nil {
		return err
	}

	path := s.Path(key)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeCacheWriteFailed, err, "failed to create %s", filepath.Dir(path))
	}

	tmp := path + ".tmp"
	if err := s.codec.Write(tmp, dataset); err != nil {
		os.Remove(tmp)

		return errors.Wrapf(errors.ErrCodeCacheWriteFailed, err, "failed to write %s", path)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)

		return errors.Wrapf(errors.ErrCodeCacheWriteFailed, err, "failed to move %s into place", path)
	}

	s.logger.Debug("Wrote cached dataset", zap.String("path", path), zap.Int("rows", dataset.Len()))

	return nil
}

// validateID rejects IDs that are empty or would escape or nest under the year directory.
func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\:`) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "invalid cache id %q", id)
	}

	return nil
}
