package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mini_container/libcontainer"
	"github.com/mini_container/libcontainer/configs"
	"github.com/mini_container/libcontainer/specconv"
	"github.com/urfave/cli"
)

// runAction is the default action: launch COMMAND in its isolation envelope
// and exit with the command's own exit status.
func runAction(context *cli.Context) error {
	if !context.Args().Present() && context.GlobalString("bundle") == "" {
		return cli.ShowAppHelp(context)
	}
	status, err := startContainer(context)
	if err != nil {
		return err
	}
	// Exit directly so the container's exit status becomes our own.
	os.Exit(status)
	return nil
}

func startContainer(context *cli.Context) (int, error) {
	config, err := createConfig(context)
	if err != nil {
		return -1, err
	}
	container, err := libcontainer.Create(config)
	if err != nil {
		return -1, err
	}
	return container.Run()
}

// createConfig normalizes operator intent into a container config. This is
// the only place flags become namespace requests: a rootfs implies a mount
// namespace, an IP a network namespace, a hostname or domain name a UTS
// namespace.
func createConfig(context *cli.Context) (*configs.Config, error) {
	if bundle := context.GlobalString("bundle"); bundle != "" {
		spec, err := loadSpec(bundle)
		if err != nil {
			return nil, err
		}
		// A relative root path names a directory inside the bundle.
		if spec.Root != nil && spec.Root.Path != "" && !filepath.IsAbs(spec.Root.Path) {
			spec.Root.Path = filepath.Join(bundle, spec.Root.Path)
		}
		return specconv.CreateContainerConfig(&specconv.CreateOpts{
			Spec:    spec,
			Verbose: context.GlobalBool("verbose"),
		})
	}

	config := &configs.Config{
		Rootfs:     context.GlobalString("rootfs"),
		Hostname:   context.GlobalString("hostname"),
		Domainname: context.GlobalString("domain"),
		IP:         context.GlobalString("ip"),
		Command:    strings.Join(context.Args(), " "),
		Verbose:    context.GlobalBool("verbose"),
		Cgroups: &configs.Cgroup{
			Resources: &configs.Resources{
				MemoryMax: context.GlobalInt64("max-ram"),
			},
		},
	}
	if config.Rootfs != "" {
		config.Namespaces.Add(configs.NEWNS)
	}
	if context.GlobalBool("pid") {
		config.Namespaces.Add(configs.NEWPID)
	}
	if config.Hostname != "" || config.Domainname != "" {
		config.Namespaces.Add(configs.NEWUTS)
	}
	if context.GlobalBool("ipc") {
		config.Namespaces.Add(configs.NEWIPC)
	}
	if config.IP != "" {
		config.Namespaces.Add(configs.NEWNET)
	}
	return config, nil
}
