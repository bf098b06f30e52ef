package libcontainer

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/mini_container/libcontainer/cgroups"
	"github.com/mini_container/libcontainer/configs"
	"github.com/mini_container/libcontainer/network"
	"github.com/mini_container/libcontainer/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	initPipeEnv = "_MINI_CONTAINER_INITPIPE"
	syncPipeEnv = "_MINI_CONTAINER_SYNCPIPE"
)

type filePair struct {
	parent *os.File
	child  *os.File
}

// initProcess is the agent's handle on the container process. The message
// pipe carries the config to the container; the sync pipe carries the
// one-shot readiness token that gates all in-namespace setup on host-side
// preparation. Both pipes exist before the clone, so a dead agent is
// observed by the container as EOF rather than a hang.
type initProcess struct {
	cmd         *exec.Cmd
	messagePipe filePair
	syncPipe    filePair
	config      *configs.Config
	manager     cgroups.Manager
}

func (c *Container) newParentProcess() (*initProcess, error) {
	messageParent, messageChild, err := newPipePair()
	if err != nil {
		return nil, err
	}
	syncParent, syncChild, err := newPipePair()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command("/proc/self/exe", "init")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{messageChild, syncChild}
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("%s=%d", initPipeEnv, 3),
		fmt.Sprintf("%s=%d", syncPipeEnv, 4),
	)
	// The namespaces must exist from the container's first instruction, so
	// they are created by the clone itself. SIGCHLD as the child
	// termination signal is supplied by the runtime's clone.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: c.config.Namespaces.CloneFlags(),
	}

	return &initProcess{
		cmd:         cmd,
		messagePipe: filePair{messageParent, messageChild},
		syncPipe:    filePair{syncParent, syncChild},
		config:      c.config,
		manager:     c.cgroupManager,
	}, nil
}

func (p *initProcess) pid() int {
	return p.cmd.Process.Pid
}

// start performs the namespace-creating clone and the agent's side of the
// launch protocol: ship the config, prepare the host (network wiring, cgroup
// placement), then release the container through the sync pipe. The
// container has been blocked on that pipe since the clone, which is what
// lets the cgroup migration land before its first real instruction.
func (p *initProcess) start() error {
	defer p.messagePipe.parent.Close()
	err := p.cmd.Start()
	_ = p.messagePipe.child.Close()
	_ = p.syncPipe.child.Close()
	if err != nil {
		_ = p.syncPipe.parent.Close()
		return fmt.Errorf("unable to start init: %w", err)
	}

	if err := utils.WriteJSON(p.messagePipe.parent, p.config); err != nil {
		_ = p.signal(false)
		return fmt.Errorf("sending config to init: %w", err)
	}

	if err := p.prepareHost(); err != nil {
		_ = p.signal(false)
		return err
	}
	return p.signal(true)
}

func (p *initProcess) prepareHost() error {
	if p.config.IP != "" {
		logrus.Debugf("preparing network for container %d", p.pid())
		if err := network.Prepare(p.pid()); err != nil {
			return err
		}
	}
	if p.manager != nil {
		if err := p.manager.Apply(p.pid()); err != nil {
			return fmt.Errorf("unable to apply cgroup configuration: %w", err)
		}
		if p.config.Verbose {
			p.logCgroup()
		}
	}
	return nil
}

func (p *initProcess) logCgroup() {
	paths, err := cgroups.ParseCgroupFile(fmt.Sprintf("/proc/%d/cgroup", p.pid()))
	if err != nil {
		logrus.Debugf("reading container cgroup: %v", err)
		return
	}
	logrus.Debugf("container cgroup: %s", paths[""])
}

// signal delivers the one-shot readiness token and closes the write end. A
// false token, or the EOF produced if the agent dies before writing, makes
// the container abort before any in-namespace setup.
func (p *initProcess) signal(ok bool) error {
	defer p.syncPipe.parent.Close()
	token := []byte{0}
	if ok {
		token[0] = 1
	}
	if _, err := p.syncPipe.parent.Write(token); err != nil {
		return fmt.Errorf("writing sync pipe: %w", err)
	}
	return nil
}

// wait blocks until the container exits and returns its exit status.
func (p *initProcess) wait() (int, error) {
	err := p.cmd.Wait()
	if err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return -1, fmt.Errorf("waiting for container: %w", err)
		}
	}
	ws, ok := p.cmd.ProcessState.Sys().(syscall.WaitStatus)
	if !ok {
		return -1, fmt.Errorf("unexpected wait status %v", p.cmd.ProcessState.Sys())
	}
	return utils.ExitStatus(unix.WaitStatus(ws)), nil
}

func newPipePair() (parent, child *os.File, err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, err
	}
	return w, r, nil
}
