package libcontainer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mini_container/libcontainer/configs"
	"github.com/mini_container/libcontainer/network"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// StartInitialization is the entry point of the container process. It runs
// with the new namespaces already in place, blocks until the agent has
// finished host-side preparation, then builds the in-namespace environment
// and execs the user command. It only returns on error.
//
// The stage order is load-bearing: sync gate, then network (needs the veth
// the agent moved in), then filesystem (the /proc mount needs the pivot),
// then UTS, then exec.
func StartInitialization() error {
	config, err := readConfig()
	if err != nil {
		return err
	}
	if config.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	logrus.Debug("waiting for agent to finish preparation")
	if err := waitForAgent(); err != nil {
		return err
	}

	if config.IP != "" {
		logrus.Debug("setting up container network")
		if err := network.Setup(config.IP); err != nil {
			return err
		}
	}
	if config.Rootfs != "" {
		if err := prepareRootfs(config.Rootfs); err != nil {
			return err
		}
	}
	if err := setupUTS(config); err != nil {
		return err
	}
	return execCommand(config.Command)
}

func readConfig() (*configs.Config, error) {
	pipe, err := pipeFromEnv(initPipeEnv)
	if err != nil {
		return nil, err
	}
	defer pipe.Close()
	var config configs.Config
	if err := json.NewDecoder(pipe).Decode(&config); err != nil {
		return nil, fmt.Errorf("decoding config from init pipe: %w", err)
	}
	return &config, nil
}

// waitForAgent blocks on the sync pipe until the agent delivers the readiness
// token. A short read means the agent died before writing; a zero token means
// host-side preparation failed. Either way the container must not continue
// into a half-prepared environment.
func waitForAgent() error {
	pipe, err := pipeFromEnv(syncPipeEnv)
	if err != nil {
		return err
	}
	var token [1]byte
	for {
		n, err := unix.Read(int(pipe.Fd()), token[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading sync pipe: %w", err)
		}
		if n != len(token) {
			return errors.New("sync pipe closed before agent finished preparation")
		}
		break
	}
	if token[0] == 0 {
		return errors.New("host-side preparation failed")
	}
	return pipe.Close()
}

func pipeFromEnv(name string) (*os.File, error) {
	value := os.Getenv(name)
	fd, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("unable to convert %s=%s to int: %w", name, value, err)
	}
	return os.NewFile(uintptr(fd), name), nil
}

// setupUTS applies the hostname and NIS domain name inside the UTS
// namespace. Either may be absent independently.
func setupUTS(config *configs.Config) error {
	if config.Hostname != "" {
		if err := unix.Sethostname([]byte(config.Hostname)); err != nil {
			return fmt.Errorf("sethostname: %w", err)
		}
	}
	if config.Domainname != "" {
		if err := unix.Setdomainname([]byte(config.Domainname)); err != nil {
			return fmt.Errorf("setdomainname: %w", err)
		}
	}
	return nil
}

// tokenize splits a command line on whitespace. There is no quoting; a
// quoted argument is passed through as-is, token by token.
func tokenize(command string) []string {
	return strings.Fields(command)
}

// execCommand replaces the container process with the user command. argv[0]
// must be an absolute path visible after the rootfs pivot.
func execCommand(command string) error {
	args := tokenize(command)
	if len(args) == 0 {
		return errors.New("no command to run")
	}
	logrus.Debugf("running command: %s", command)
	if hostname, domain, err := utsNames(); err == nil {
		logrus.Debugf("container hostname: %s", hostname)
		logrus.Debugf("container NIS domain name: %s", domain)
	}
	if err := unix.Exec(args[0], args, execEnv()); err != nil {
		return fmt.Errorf("exec %s: %w", args[0], err)
	}
	// unreachable
	return nil
}

// execEnv is the inherited environment minus the launcher's own pipe fd
// variables.
func execEnv() []string {
	environ := os.Environ()
	env := make([]string, 0, len(environ))
	for _, kv := range environ {
		if strings.HasPrefix(kv, initPipeEnv+"=") || strings.HasPrefix(kv, syncPipeEnv+"=") {
			continue
		}
		env = append(env, kv)
	}
	return env
}
