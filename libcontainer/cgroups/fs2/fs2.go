package fs2

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/mini_container/libcontainer/cgroups"
	"github.com/mini_container/libcontainer/configs"
)

// UnifiedMountpoint is where the cgroup v2 hierarchy is mounted.
const UnifiedMountpoint = "/sys/fs/cgroup"

// DefaultRoot is the pre-created node per-container nodes are placed under.
// The memory controller must already be enabled in its subtree_control.
const DefaultRoot = UnifiedMountpoint + "/mini_container"

type Manager struct {
	config *configs.Cgroup
	// dirPath is like "/sys/fs/cgroup/mini_container/1234". It is derived
	// from the container pid on Apply unless set explicitly.
	dirPath string
}

// NewManager creates a manager for a per-container node on the cgroup v2
// unified hierarchy. If dirPath is empty it is set on Apply, keyed by pid.
func NewManager(config *configs.Cgroup, dirPath string) (*Manager, error) {
	if config == nil {
		return nil, fmt.Errorf("cgroup config must not be nil")
	}
	m := &Manager{
		config:  config,
		dirPath: dirPath,
	}
	return m, nil
}

func (m *Manager) root() string {
	if m.config.Root != "" {
		return m.config.Root
	}
	return DefaultRoot
}

// Apply creates the node, writes its resource limits, and migrates pid into
// it. The pid has been blocked on the sync pipe since the clone, so it is
// moved in before it has consumed any resources.
func (m *Manager) Apply(pid int) error {
	if m.dirPath == "" {
		m.dirPath = filepath.Join(m.root(), strconv.Itoa(pid))
	}
	if err := createCgroupPath(m.dirPath); err != nil {
		return err
	}
	if err := m.Set(m.config.Resources); err != nil {
		return err
	}
	if err := cgroups.WriteCgroupProc(m.dirPath, pid); err != nil {
		return err
	}
	return nil
}

// Set writes the memory limits of the node. memory.low is held at 75% of the
// hard limit so reclaim stays away from the container until it nears the cap.
func (m *Manager) Set(r *configs.Resources) error {
	if r == nil || r.MemoryMax <= 0 {
		return nil
	}
	memoryLow := r.MemoryMax * 75 / 100
	if err := cgroups.WriteFile(m.dirPath, "memory.low", strconv.FormatInt(memoryLow, 10)); err != nil {
		return err
	}
	if err := cgroups.WriteFile(m.dirPath, "memory.max", strconv.FormatInt(r.MemoryMax, 10)); err != nil {
		return err
	}
	return nil
}

func (m *Manager) Destroy() error {
	return removePath(m.dirPath)
}

func (m *Manager) Path() string {
	return m.dirPath
}
