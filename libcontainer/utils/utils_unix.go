package utils

import (
	"encoding/json"
	"io"

	"golang.org/x/sys/unix"
)

const exitSignalOffset = 128

// WriteJSON writes the provided struct v to w using standard json marshaling.
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ExitStatus returns the correct exit status for a process based on whether
// it was signaled or exited cleanly.
func ExitStatus(status unix.WaitStatus) int {
	if status.Signaled() {
		return exitSignalOffset + int(status.Signal())
	}
	return status.ExitStatus()
}
