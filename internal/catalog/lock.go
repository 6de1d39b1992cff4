// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"
)

// lockTimeout is how long Open waits for another process to release the
// library before giving up.
const lockTimeout = 5 * time.Second

var errLockTimeout = errors.New("library locked by another process")

// libraryLock is an exclusive flock on the library's lock file. The default
// assumption is a single process, but the lock makes concurrent invocations
// serialize instead of corrupting state.
type libraryLock struct {
	path string
	file *os.File
}

// acquireLock takes an exclusive lock on path, retrying until timeout.
func acquireLock(path string, timeout time.Duration) (*libraryLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}

	const retryInterval = 10 * time.Millisecond
	deadline := time.Now().Add(timeout)

	for {
		err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return &libraryLock{path: path, file: file}, nil
		}
		if time.Now().After(deadline) {
			file.Close()
			return nil, fmt.Errorf("%w: %s", errLockTimeout, path)
		}
		time.Sleep(retryInterval)
	}
}

// release unlocks and closes the lock file.
func (l *libraryLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("unlocking %s: %w", l.path, err)
	}
	return l.file.Close()
}
