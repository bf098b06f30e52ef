package cgroups

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OpenFile opens a cgroup control file inside dir. The name must be a plain
// file name; path separators are rejected so a crafted name cannot escape the
// node's directory.
func OpenFile(dir, file string, flags int) (*os.File, error) {
	if dir == "" {
		return nil, &os.PathError{Op: "open", Path: file, Err: os.ErrInvalid}
	}
	if strings.ContainsRune(file, filepath.Separator) {
		return nil, &os.PathError{Op: "open", Path: file, Err: os.ErrInvalid}
	}
	return os.OpenFile(filepath.Join(dir, file), flags, 0)
}

// ReadFile reads data from a cgroup file in dir.
func ReadFile(dir, file string) (string, error) {
	fd, err := OpenFile(dir, file, os.O_RDONLY)
	if err != nil {
		return "", err
	}
	defer fd.Close()
	data, err := io.ReadAll(fd)
	return string(data), err
}

// WriteFile writes data to a cgroup file in dir. Control files always exist;
// they are never created here.
func WriteFile(dir, file, data string) error {
	fd, err := OpenFile(dir, file, os.O_WRONLY)
	if err != nil {
		return err
	}
	defer fd.Close()
	_, err = fd.WriteString(data)
	return err
}
