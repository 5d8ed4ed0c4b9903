package cloudsync

import (
	"fmt"
	"os"
	"time"
)

// Handle coordinates exclusive access to a repository archive file that
// may live inside a cloud-synced folder: it holds an advisory lock for
// the lifetime of an open session and remembers the content fingerprint
// captured at open time so a caller can detect a sync client's
// out-of-band write before committing a save over it.
type Handle struct {
	path        string
	file        *os.File
	opened      Fingerprint
	isCloudPath bool
}

// Open acquires an exclusive advisory lock on path, polling up to
// timeout before giving up. It captures path's content fingerprint at
// open time for later conflict detection.
func Open(path string, timeout time.Duration) (*Handle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cloudsync: %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("cloudsync: open %s: %w", path, err)
	}

	if err := lockWithTimeout(f, timeout); err != nil {
		_ = f.Close()
		return nil, err
	}

	fp, err := ComputeFingerprint(path)
	if err != nil {
		_ = unlock(f)
		_ = f.Close()
		return nil, err
	}

	return &Handle{
		path:        path,
		file:        f,
		opened:      fp,
		isCloudPath: IsCloudStoragePath(path),
	}, nil
}

// IsCloudPath reports whether the handle's path was detected as living
// inside a cloud-sync provider's folder.
func (h *Handle) IsCloudPath() bool {
	return h.isCloudPath
}

// CheckForExternalChanges recomputes the archive's fingerprint and
// compares it against the one captured at Open time, returning
// ErrContentModified if they differ -- e.g. a cloud client rewrote the
// file while it was open here.
func (h *Handle) CheckForExternalChanges() error {
	current, err := ComputeFingerprint(h.path)
	if err != nil {
		return err
	}
	if !current.Equal(h.opened) {
		return fmt.Errorf("%w: %s", ErrContentModified, h.path)
	}
	return nil
}

// Rebaseline recomputes and stores the current fingerprint as the new
// baseline, called after this process itself writes the archive.
func (h *Handle) Rebaseline() error {
	fp, err := ComputeFingerprint(h.path)
	if err != nil {
		return err
	}
	h.opened = fp
	return nil
}

// Close releases the lock and closes the underlying file handle.
func (h *Handle) Close() error {
	if err := unlock(h.file); err != nil {
		_ = h.file.Close()
		return err
	}
	return h.file.Close()
}

func lockWithTimeout(f *os.File, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := tryLock(f)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("cloudsync: timed out waiting for lock on %s", f.Name())
		}
		time.Sleep(100 * time.Millisecond)
	}
}
