// Package fileprovider implements the pluggable archive I/O boundary
// (the spec's File Provider component): reading and writing raw archive
// bytes from disk, and transforming between those bytes and a file-tree
// map under a master password.
package fileprovider

import "errors"

// Sentinel errors a Provider implementation maps its underlying I/O and
// format failures onto, so callers can branch without caring which
// concrete provider is in use.
var (
	ErrNotFound         = errors.New("fileprovider: archive not found")
	ErrPermissionDenied = errors.New("fileprovider: permission denied")
	ErrInvalidPassword  = errors.New("fileprovider: invalid password")
	ErrArchiveCorrupted = errors.New("fileprovider: archive is corrupted or not a valid archive")
	ErrIO               = errors.New("fileprovider: io error")
)

// Provider is the archive I/O boundary. Implementations must not retain
// password bytes beyond the call in which they are supplied.
type Provider interface {
	// ReadArchive reads the raw (encrypted) bytes of the archive at path.
	ReadArchive(path string) ([]byte, error)

	// WriteArchive writes raw (encrypted) archive bytes to path,
	// atomically -- the destination is never observed in a partially
	// written state by a concurrent reader.
	WriteArchive(path string, data []byte) error

	// ExtractArchive decrypts and unpacks archiveData under password,
	// returning a map of "/"-separated relative paths to file contents.
	ExtractArchive(archiveData []byte, password []byte) (map[string][]byte, error)

	// CreateArchive packs and encrypts fileMap under password, returning
	// archive bytes suitable for WriteArchive.
	CreateArchive(fileMap map[string][]byte, password []byte) ([]byte, error)
}
