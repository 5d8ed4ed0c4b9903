// Package cloudsync implements the cloud-sync-safe file handle (the
// spec's Cloud File Handle component): detecting when a repository path
// lives inside a cloud-synced folder, fingerprinting its content to
// detect out-of-band changes, and holding an advisory lock for the
// duration of an open session.
package cloudsync

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrContentModified is returned by Handle.CheckForExternalChanges when
// the archive's content fingerprint no longer matches the one captured
// when the handle was opened. It is surfaced to the caller rather than
// silently resolved -- overwriting a file a cloud sync client has
// concurrently changed would silently destroy data.
var ErrContentModified = errors.New("cloudsync: archive content changed since it was opened")

// cloudPathMarkers are case-insensitive substrings that identify a path
// as living inside a cloud-sync provider's managed folder.
var cloudPathMarkers = []string{
	"dropbox",
	"onedrive",
	"google drive",
	"googledrive",
	"icloud",
	"nextcloud",
	"box sync",
	"/box/",
	"com.dropbox",
	"com.google.android.apps.docs",
	"com.microsoft.skydrive",
	"content://",
	"/cache/",
}

// IsCloudStoragePath reports whether path appears to live inside a
// cloud-sync provider's managed folder, based on substring matching
// against well-known provider path fragments. This is a heuristic: it
// has false negatives for providers not listed and (rarely) false
// positives for local paths that happen to contain a marker substring.
func IsCloudStoragePath(path string) bool {
	lower := strings.ToLower(path)
	for _, marker := range cloudPathMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Fingerprint is a lightweight content fingerprint used to detect
// whether an archive file changed on disk without rehashing the whole
// file every time for large archives.
type Fingerprint struct {
	Size    int64
	ModTime int64
	Digest  string
}

// fingerprintSampleThreshold is the file size above which Fingerprint
// hashes only the first and last 1KiB instead of the full content.
const fingerprintSampleThreshold = 1 << 20 // 1MiB
const fingerprintSampleSize = 1024

// ComputeFingerprint reads path's metadata and (for files below the
// sampling threshold) full content, or (for larger files) its first and
// last 1KiB, to build a Fingerprint cheaply.
func ComputeFingerprint(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("cloudsync: stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("cloudsync: open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	size := info.Size()
	if size <= fingerprintSampleThreshold {
		if _, err := io.Copy(h, f); err != nil {
			return Fingerprint{}, fmt.Errorf("cloudsync: hash %s: %w", path, err)
		}
	} else {
		head := make([]byte, fingerprintSampleSize)
		if _, err := f.ReadAt(head, 0); err != nil {
			return Fingerprint{}, fmt.Errorf("cloudsync: read head %s: %w", path, err)
		}
		tail := make([]byte, fingerprintSampleSize)
		if _, err := f.ReadAt(tail, size-fingerprintSampleSize); err != nil {
			return Fingerprint{}, fmt.Errorf("cloudsync: read tail %s: %w", path, err)
		}
		h.Write(head)
		h.Write(tail)
	}

	return Fingerprint{
		Size:    size,
		ModTime: info.ModTime().UnixNano(),
		Digest:  hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Equal reports whether two fingerprints describe identical content.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Size == other.Size && f.Digest == other.Digest
}
