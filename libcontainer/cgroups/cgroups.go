package cgroups

import "github.com/mini_container/libcontainer/configs"

// Manager places a container process into a cgroup node and applies its
// resource limits. The agent owns the node: it is created when the process is
// migrated in and removed after the process has been reaped.
type Manager interface {
	// Apply creates the cgroup node and moves pid into it.
	Apply(pid int) error

	// Set writes the resource limit files of the node.
	Set(r *configs.Resources) error

	// Destroy removes the cgroup node.
	Destroy() error

	// Path returns the absolute path of the node.
	Path() string
}
