//go:build !unix

package cloudsync

import "os"

// tryLock is a no-op placeholder on non-unix builds; Windows locking
// would use LockFileEx, which this module does not implement since the
// development and test environment targets unix.
func tryLock(f *os.File) error {
	return nil
}

func unlock(f *os.File) error {
	return nil
}
