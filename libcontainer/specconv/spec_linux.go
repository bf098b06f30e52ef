// Package specconv converts an OCI runtime-spec config.json subset into the
// launcher's own container configuration.
package specconv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mini_container/libcontainer/configs"
	"github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"
)

// IPAnnotation carries the container's bridge-network IPv4 address; the OCI
// spec has no first-class field for it.
const IPAnnotation = "org.mini_container.ip"

type CreateOpts struct {
	Spec    *specs.Spec
	Verbose bool
}

// getwd is a wrapper similar to os.Getwd, except it always gets the value
// from the kernel, which guarantees the returned value to be absolute and
// clean.
func getwd() (wd string, err error) {
	for {
		wd, err = unix.Getwd()
		//nolint:errorlint // unix errors are bare
		if err != unix.EINTR {
			break
		}
	}
	return wd, os.NewSyscallError("getwd", err)
}

var namespaceMapping = map[specs.LinuxNamespaceType]configs.NamespaceType{
	specs.PIDNamespace:     configs.NEWPID,
	specs.NetworkNamespace: configs.NEWNET,
	specs.MountNamespace:   configs.NEWNS,
	specs.IPCNamespace:     configs.NEWIPC,
	specs.UTSNamespace:     configs.NEWUTS,
}

// CreateContainerConfig creates a launcher configuration from a given
// bundle specification. The bundle path is the current working directory;
// a relative root path is resolved against it.
func CreateContainerConfig(opts *CreateOpts) (*configs.Config, error) {
	spec := opts.Spec
	if spec == nil {
		return nil, errors.New("spec must not be nil")
	}
	if spec.Process == nil || len(spec.Process.Args) == 0 {
		return nil, errors.New("spec process args must be specified")
	}

	var rootfsPath string
	if spec.Root != nil && spec.Root.Path != "" {
		rootfsPath = spec.Root.Path
		if !filepath.IsAbs(rootfsPath) {
			cwd, err := getwd()
			if err != nil {
				return nil, err
			}
			rootfsPath = filepath.Join(cwd, rootfsPath)
		}
	}

	config := &configs.Config{
		Rootfs:     rootfsPath,
		Hostname:   spec.Hostname,
		Domainname: spec.Domainname,
		IP:         spec.Annotations[IPAnnotation],
		Command:    strings.Join(spec.Process.Args, " "),
		Cgroups:    &configs.Cgroup{Resources: &configs.Resources{}},
		Verbose:    opts.Verbose,
	}

	if spec.Linux != nil {
		for _, ns := range spec.Linux.Namespaces {
			t, exists := namespaceMapping[ns.Type]
			if !exists {
				return nil, fmt.Errorf("namespace %q does not exist", ns.Type)
			}
			if config.Namespaces.Contains(t) {
				return nil, fmt.Errorf("malformed spec file: duplicated namespace %q", ns.Type)
			}
			config.Namespaces.Add(t)
		}
		if spec.Linux.Resources != nil && spec.Linux.Resources.Memory != nil && spec.Linux.Resources.Memory.Limit != nil {
			config.Cgroups.Resources.MemoryMax = *spec.Linux.Resources.Memory.Limit
		}
	}

	// The launch invariants hold regardless of what the bundle listed: a
	// rootfs needs a mount namespace, an IP a network namespace, a
	// hostname or domain name a UTS namespace.
	if config.Rootfs != "" {
		config.Namespaces.Add(configs.NEWNS)
	}
	if config.IP != "" {
		config.Namespaces.Add(configs.NEWNET)
	}
	if config.Hostname != "" || config.Domainname != "" {
		config.Namespaces.Add(configs.NEWUTS)
	}

	return config, nil
}

// Example returns a config.json template for the spec command: a busybox
// style shell in every namespace the launcher supports.
func Example() *specs.Spec {
	return &specs.Spec{
		Version: specs.Version,
		Root: &specs.Root{
			Path: "rootfs",
		},
		Process: &specs.Process{
			Args: []string{"/bin/sh"},
			Cwd:  "/",
		},
		Hostname: "mini",
		Linux: &specs.Linux{
			Namespaces: []specs.LinuxNamespace{
				{Type: specs.MountNamespace},
				{Type: specs.UTSNamespace},
				{Type: specs.IPCNamespace},
				{Type: specs.PIDNamespace},
			},
		},
	}
}
