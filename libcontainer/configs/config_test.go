package configs

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestCloneFlags(t *testing.T) {
	tests := []struct {
		name       string
		namespaces []NamespaceType
		expected   uintptr
	}{
		{
			name:       "no namespaces",
			namespaces: nil,
			expected:   0,
		},
		{
			name:       "mount only",
			namespaces: []NamespaceType{NEWNS},
			expected:   unix.CLONE_NEWNS,
		},
		{
			name:       "pid and ipc",
			namespaces: []NamespaceType{NEWPID, NEWIPC},
			expected:   unix.CLONE_NEWPID | unix.CLONE_NEWIPC,
		},
		{
			name:       "all",
			namespaces: []NamespaceType{NEWNS, NEWPID, NEWUTS, NEWIPC, NEWNET},
			expected:   unix.CLONE_NEWNS | unix.CLONE_NEWPID | unix.CLONE_NEWUTS | unix.CLONE_NEWIPC | unix.CLONE_NEWNET,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ns Namespaces
			for _, typ := range tt.namespaces {
				ns.Add(typ)
			}
			if got := ns.CloneFlags(); got != tt.expected {
				t.Errorf("CloneFlags() = %#x, expected %#x", got, tt.expected)
			}
		})
	}
}

func TestNamespacesAddIsIdempotent(t *testing.T) {
	var ns Namespaces
	ns.Add(NEWNET)
	ns.Add(NEWNET)
	if len(ns) != 1 {
		t.Errorf("expected a single namespace entry, got %d", len(ns))
	}
	if !ns.Contains(NEWNET) {
		t.Error("expected namespaces to contain NEWNET")
	}
	if ns.Contains(NEWPID) {
		t.Error("did not expect namespaces to contain NEWPID")
	}
}
