//go:build unix

package cloudsync

import (
	"fmt"
	"os"
	"syscall"
)

// tryLock attempts a non-blocking exclusive advisory lock on f, grounded
// on the raw syscall.Flock approach used elsewhere in the example corpus
// absent a cross-platform locking library.
func tryLock(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		return fmt.Errorf("cloudsync: flock %s: %w", f.Name(), err)
	}
	return nil
}

func unlock(f *os.File) error {
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		return fmt.Errorf("cloudsync: unlock %s: %w", f.Name(), err)
	}
	return nil
}
