package main

import (
	"runtime"

	"github.com/mini_container/libcontainer"
	"github.com/urfave/cli"
)

var initCommand = cli.Command{
	Name:   "init",
	Hidden: true,
	Usage:  `initialize the namespaces and launch the process (do not call it outside of mini_container)`,
	Action: func(context *cli.Context) error {
		// The in-namespace setup (unshare, mounts, sethostname) applies
		// to the calling thread; pin it so the exec happens from the
		// thread that did the setup.
		runtime.GOMAXPROCS(1)
		runtime.LockOSThread()
		return libcontainer.StartInitialization()
	},
}
