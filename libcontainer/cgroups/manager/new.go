package manager

import (
	"errors"

	"github.com/mini_container/libcontainer/cgroups"
	"github.com/mini_container/libcontainer/cgroups/fs2"
	"github.com/mini_container/libcontainer/configs"
)

// New returns a cgroup manager for the given config. Only the cgroup v2
// unified hierarchy is supported; the per-container node lives under a fixed,
// pre-created root.
func New(config *configs.Cgroup) (cgroups.Manager, error) {
	if config == nil {
		return nil, errors.New("cgroups/manager.New: config must not be nil")
	}
	if !cgroups.IsCgroup2UnifiedMode() {
		return nil, errors.New("cgroup v2 unified hierarchy is required")
	}
	return fs2.NewManager(config, "")
}
