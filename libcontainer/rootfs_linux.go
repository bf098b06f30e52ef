package libcontainer

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// prepareRootfs turns a host directory into the container's root. The steps
// form an ordered sequence; reordering silently breaks the isolation. The
// pivot is bracketed by two propagation changes: / is made a recursive slave
// first so nothing leaks back to the host, and the new root is made
// recursively shared last so mounts inside the container still propagate to
// any children it creates.
func prepareRootfs(rootfs string) error {
	// Redundant when the clone already created the mount namespace, but
	// harmless, and it keeps the sequence self-contained.
	if err := unix.Unshare(unix.CLONE_NEWNS); err != nil {
		return fmt.Errorf("unshare(CLONE_NEWNS): %w", err)
	}
	if err := unix.Mount("", "/", "", unix.MS_SLAVE|unix.MS_REC, ""); err != nil {
		return fmt.Errorf("making / rslave: %w", err)
	}
	// Bind mount rootfs onto itself so that it becomes a mount point; the
	// source of a mount move must be a mount point.
	if err := unix.Mount(rootfs, rootfs, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return fmt.Errorf("bind mounting %s onto itself: %w", rootfs, err)
	}
	if err := unix.Chdir(rootfs); err != nil {
		return fmt.Errorf("chdir %s: %w", rootfs, err)
	}
	if err := unix.Mount(rootfs, "/", "", unix.MS_MOVE, ""); err != nil {
		return fmt.Errorf("moving %s onto /: %w", rootfs, err)
	}
	if err := unix.Chroot("."); err != nil {
		return fmt.Errorf("chroot: %w", err)
	}
	if err := unix.Chdir("/"); err != nil {
		return fmt.Errorf("chdir /: %w", err)
	}
	if err := unix.Mount("", "/", "", unix.MS_SHARED|unix.MS_REC, ""); err != nil {
		return fmt.Errorf("making / rshared: %w", err)
	}
	if err := unix.Mount("proc", "/proc", "proc", unix.MS_NOSUID|unix.MS_NOEXEC|unix.MS_NODEV, ""); err != nil {
		return fmt.Errorf("mounting proc: %w", err)
	}
	return nil
}
