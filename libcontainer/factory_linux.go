package libcontainer

import (
	"github.com/mini_container/libcontainer/cgroups/manager"
	"github.com/mini_container/libcontainer/configs"
	"github.com/mini_container/libcontainer/configs/validate"
)

// Create validates the config and assembles a container ready to launch. The
// cgroup manager is only constructed when a memory limit was requested; a
// plain launch creates no cgroup node.
func Create(config *configs.Config) (*Container, error) {
	if err := validate.Validate(config); err != nil {
		return nil, err
	}
	c := &Container{
		config: config,
	}
	if config.Cgroups != nil && config.Cgroups.Resources != nil && config.Cgroups.Resources.MemoryMax > 0 {
		cm, err := manager.New(config.Cgroups)
		if err != nil {
			return nil, err
		}
		c.cgroupManager = cm
	}
	return c, nil
}
