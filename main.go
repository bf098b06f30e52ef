package main

import (
	"errors"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// (To Do) May define by Makefile
var (
	version   = "unknown"
	gitCommit = ""
)

const usage = "a minimal Linux container launcher"

const description = `mini_container runs COMMAND inside a freshly constructed isolation envelope
built from namespaces, a rootfs pivot, a veth-bridge network, and a cgroup v2
memory limit. It expects to run as root on a host with cgroup v2 mounted at
/sys/fs/cgroup and /sys/fs/cgroup/mini_container pre-created with the memory
controller enabled.`

func main() {
	app := cli.NewApp()
	app.Name = "mini_container"
	app.Usage = usage
	app.Description = description
	app.ArgsUsage = "COMMAND"

	v := []string{version}
	if gitCommit != "" {
		v = append(v, "commit: "+gitCommit)
	}
	v = append(v, "go: "+runtime.Version())
	app.Version = strings.Join(v, "\n")

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "enable verbose logging",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "set the log file to write logs to (default is '/dev/stderr')",
		},
		cli.StringFlag{
			Name:  "log-format",
			Value: "text",
			Usage: "set the log format ('text' (default), or 'json')",
		},
		cli.StringFlag{
			Name:  "rootfs, r",
			Usage: "root filesystem path of the container",
		},
		cli.BoolFlag{
			Name:  "pid, p",
			Usage: "enable PID isolation",
		},
		cli.StringFlag{
			// Long-only: the short letter would collide with -h for help.
			Name:  "hostname",
			Usage: "hostname of the container",
		},
		cli.StringFlag{
			Name:  "domain, d",
			Usage: "NIS domain name of the container",
		},
		cli.BoolFlag{
			Name:  "ipc, i",
			Usage: "enable IPC isolation",
		},
		cli.StringFlag{
			// TODO: dynamically allocate the IP address.
			Name:  "ip",
			Usage: "IP of the container on the bridge network",
		},
		cli.Int64Flag{
			Name:  "max-ram, R",
			Usage: "the max amount of ram (in bytes) that the container can use",
		},
		cli.StringFlag{
			Name:  "bundle, b",
			Usage: "load the container configuration from BUNDLE/config.json instead of flags",
		},
	}
	app.Commands = []cli.Command{
		initCommand,
		specCommand,
	}
	app.Before = func(context *cli.Context) error {
		return configLogrus(context)
	}
	app.Action = runAction

	// If the command returns an error, cli takes upon itself to print the
	// error on cli.ErrWriter and exit. Use our own writer here to ensure
	// the log gets sent to the right location.
	cli.ErrWriter = &FatalWriter{cli.ErrWriter}
	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

type FatalWriter struct {
	cliErrWriter io.Writer
}

func (f *FatalWriter) Write(p []byte) (n int, err error) {
	logrus.Error(string(p))
	if !logrusToStderr() {
		return f.cliErrWriter.Write(p)
	}
	return len(p), nil
}

func configLogrus(context *cli.Context) error {
	if context.GlobalBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	}

	switch f := context.GlobalString("log-format"); f {
	case "", "text":
		// do nothing
	case "json":
		logrus.SetFormatter(new(logrus.JSONFormatter))
	default:
		return errors.New("invalid log-format: " + f)
	}

	if file := context.GlobalString("log"); file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND|os.O_SYNC, 0o644)
		if err != nil {
			return err
		}
		logrus.SetOutput(f)
	}

	return nil
}

func logrusToStderr() bool {
	l, ok := logrus.StandardLogger().Out.(*os.File)
	return ok && l == os.Stderr
}

// fatal prints the error's details via logrus and exits non-zero.
func fatal(err error) {
	logrus.Error(err)
	os.Exit(1)
}
