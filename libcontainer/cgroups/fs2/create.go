package fs2

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

func createCgroupPath(path string) error {
	return os.MkdirAll(path, 0o755)
}

// removePath removes the node directory. A node whose member process was just
// reaped can report EBUSY for a moment, so the rmdir is retried briefly.
func removePath(path string) error {
	if path == "" {
		return nil
	}
	var err error
	for i := 0; i < 5; i++ {
		err = os.Remove(path)
		if err == nil || os.IsNotExist(err) {
			return nil
		}
		if !errors.Is(err, unix.EBUSY) {
			return err
		}
		time.Sleep(10 * time.Millisecond)
	}
	return err
}
