package main

import (
	"flag"
	"strconv"
	"testing"

	"github.com/urfave/cli"
	"golang.org/x/sys/unix"
)

type intent struct {
	rootfs   string
	pid      bool
	hostname string
	domain   string
	ipc      bool
	ip       string
}

func contextFor(t *testing.T, in intent, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("mini_container", flag.ContinueOnError)
	set.String("rootfs", "", "")
	set.Bool("pid", false, "")
	set.String("hostname", "", "")
	set.String("domain", "", "")
	set.Bool("ipc", false, "")
	set.String("ip", "", "")
	set.Int64("max-ram", 0, "")
	set.Bool("verbose", false, "")
	set.String("bundle", "", "")
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	for name, value := range map[string]string{
		"rootfs":   in.rootfs,
		"pid":      strconv.FormatBool(in.pid),
		"hostname": in.hostname,
		"domain":   in.domain,
		"ipc":      strconv.FormatBool(in.ipc),
		"ip":       in.ip,
	} {
		if err := set.Set(name, value); err != nil {
			t.Fatal(err)
		}
	}
	return cli.NewContext(nil, set, nil)
}

// The namespace bitmask must be exactly the union derived from intent:
// mount iff rootfs, pid iff enabled, uts iff hostname or domain, ipc iff
// enabled, net iff ip. Exhaustive over all on/off combinations.
func TestCreateConfigFlagDerivation(t *testing.T) {
	for mask := 0; mask < 1<<6; mask++ {
		in := intent{}
		var expected uintptr
		if mask&(1<<0) != 0 {
			in.rootfs = "/tmp"
			expected |= unix.CLONE_NEWNS
		}
		if mask&(1<<1) != 0 {
			in.pid = true
			expected |= unix.CLONE_NEWPID
		}
		if mask&(1<<2) != 0 {
			in.hostname = "ctr"
			expected |= unix.CLONE_NEWUTS
		}
		if mask&(1<<3) != 0 {
			in.domain = "lan"
			expected |= unix.CLONE_NEWUTS
		}
		if mask&(1<<4) != 0 {
			in.ipc = true
			expected |= unix.CLONE_NEWIPC
		}
		if mask&(1<<5) != 0 {
			in.ip = "10.0.0.2"
			expected |= unix.CLONE_NEWNET
		}

		config, err := createConfig(contextFor(t, in, "/bin/true"))
		if err != nil {
			t.Fatalf("mask %#x: %v", mask, err)
		}
		if got := config.Namespaces.CloneFlags(); got != expected {
			t.Errorf("mask %#x: CloneFlags() = %#x, expected %#x", mask, got, expected)
		}
	}
}

func TestCreateConfigCommand(t *testing.T) {
	config, err := createConfig(contextFor(t, intent{}, "/bin/echo", "hi", "there"))
	if err != nil {
		t.Fatal(err)
	}
	if config.Command != "/bin/echo hi there" {
		t.Errorf("unexpected command %q", config.Command)
	}
}

func TestCreateConfigMemoryLimit(t *testing.T) {
	ctx := contextFor(t, intent{}, "/bin/true")
	if err := ctx.Set("max-ram", "67108864"); err != nil {
		t.Fatal(err)
	}
	config, err := createConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if config.Cgroups == nil || config.Cgroups.Resources == nil {
		t.Fatal("expected cgroup resources to be populated")
	}
	if config.Cgroups.Resources.MemoryMax != 67108864 {
		t.Errorf("MemoryMax = %d, expected 67108864", config.Cgroups.Resources.MemoryMax)
	}
	if got := config.Namespaces.CloneFlags(); got != 0 {
		t.Errorf("memory limit must not request namespaces, got %#x", got)
	}
}
