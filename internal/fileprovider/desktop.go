package fileprovider

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DesktopProvider reads and writes archives on the local filesystem,
// using the same write-to-temp/fsync/rename discipline the original
// vault storage layer uses: a half-written archive must never be
// observable at the final path.
type DesktopProvider struct{}

// NewDesktopProvider constructs a DesktopProvider.
func NewDesktopProvider() *DesktopProvider {
	return &DesktopProvider{}
}

// ReadArchive reads path, mapping OS errors onto the package's sentinel
// errors so callers don't need to inspect *os.PathError directly.
func (p *DesktopProvider) ReadArchive(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		case errors.Is(err, os.ErrPermission):
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		default:
			return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
		}
	}
	return data, nil
}

// WriteArchive writes data to path atomically: a temp file beside the
// destination is written and fsynced, then renamed over the
// destination. A prior file at path, if any, is preserved as path+".bak"
// until the rename succeeds, and restored if the rename fails.
func (p *DesktopProvider) WriteArchive(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: create dir %s: %w", ErrIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrIO, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write temp file: %w", ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync temp file: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", ErrIO, err)
	}

	backupPath := path + ".bak"
	hadExisting := false
	if _, statErr := os.Stat(path); statErr == nil {
		hadExisting = true
		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("%w: backup existing archive: %w", ErrIO, err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if hadExisting {
			_ = os.Rename(backupPath, path)
		}
		return fmt.Errorf("%w: commit archive: %w", ErrIO, err)
	}

	if hadExisting {
		_ = os.Remove(backupPath)
	}
	return nil
}

// ExtractArchive decrypts and unpacks archiveData.
func (p *DesktopProvider) ExtractArchive(archiveData []byte, password []byte) (map[string][]byte, error) {
	return decodeArchive(archiveData, password)
}

// CreateArchive packs and encrypts fileMap.
func (p *DesktopProvider) CreateArchive(fileMap map[string][]byte, password []byte) ([]byte, error) {
	return encodeArchive(fileMap, password)
}
