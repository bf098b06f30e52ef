package cgroups

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseCgroupFromReader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:     "unified hierarchy",
			input:    "0::/mini_container/4242\n",
			expected: map[string]string{"": "/mini_container/4242"},
		},
		{
			name:  "legacy hierarchy",
			input: "3:cpu,cpuacct:/user.slice\n2:memory:/user.slice\n",
			expected: map[string]string{
				"cpu":     "/user.slice",
				"cpuacct": "/user.slice",
				"memory":  "/user.slice",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCgroupFromReader(strings.NewReader(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			for subsystem, path := range tt.expected {
				if got[subsystem] != path {
					t.Errorf("subsystem %q: got %q, expected %q", subsystem, got[subsystem], path)
				}
			}
		})
	}
}

func TestParseCgroupFromReaderInvalid(t *testing.T) {
	if _, err := parseCgroupFromReader(strings.NewReader("not a cgroup line\n")); err == nil {
		t.Error("expected malformed input to be rejected")
	}
}

func TestWriteCgroupProc(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, CgroupProcesses), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteCgroupProc(dir, 4242); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(filepath.Join(dir, CgroupProcesses))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "4242" {
		t.Errorf("cgroup.procs content %q, expected %q", content, "4242")
	}
}

func TestWriteCgroupProcEmptyDir(t *testing.T) {
	if err := WriteCgroupProc("", 1); err == nil {
		t.Error("expected an empty dir to be rejected")
	}
}
