package libcontainer

import (
	"fmt"
	"os"

	"github.com/mini_container/libcontainer/cgroups"
	"github.com/mini_container/libcontainer/configs"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

type Container struct {
	config        *configs.Config
	cgroupManager cgroups.Manager
}

// Run launches the container process, supervises it until it exits, and
// returns its exit status. Once the container has been waited for, host-side
// state (cgroup node) is torn down before returning; a teardown failure is
// logged but does not mask the status. When the launch itself fails, Run
// returns the error without removing the cgroup node.
func (c *Container) Run() (int, error) {
	parent, err := c.newParentProcess()
	if err != nil {
		return -1, err
	}
	if err := parent.start(); err != nil {
		return -1, err
	}

	if c.config.Verbose {
		c.logAgentState(parent.pid())
	}

	status, err := parent.wait()
	c.teardown(parent)
	if err != nil {
		return -1, err
	}
	if c.config.Verbose {
		logrus.Debugf("container exited with status %d", status)
	}
	return status, nil
}

func (c *Container) teardown(parent *initProcess) {
	if parent.manager == nil {
		return
	}
	if err := parent.manager.Destroy(); err != nil {
		logrus.Errorf("removing cgroup %s: %v", parent.manager.Path(), err)
	}
}

func (c *Container) logAgentState(childPid int) {
	hostname, domain, err := utsNames()
	if err != nil {
		logrus.Debugf("reading agent uts names: %v", err)
	}
	logrus.Debugf("container pid: %d", childPid)
	logrus.Debugf("agent pid: %d", os.Getpid())
	logrus.Debugf("agent hostname: %s", hostname)
	logrus.Debugf("agent NIS domain name: %s", domain)
}

// utsNames reads the current hostname and NIS domain name from the kernel.
func utsNames() (hostname, domain string, err error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", "", fmt.Errorf("uname: %w", err)
	}
	return unix.ByteSliceToString(uts.Nodename[:]), unix.ByteSliceToString(uts.Domainname[:]), nil
}
