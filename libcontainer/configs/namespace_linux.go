package configs

import "golang.org/x/sys/unix"

type NamespaceType string

const (
	NEWNET NamespaceType = "NEWNET"
	NEWPID NamespaceType = "NEWPID"
	NEWNS  NamespaceType = "NEWNS"
	NEWUTS NamespaceType = "NEWUTS"
	NEWIPC NamespaceType = "NEWIPC"
)

// Namespace defines configuration for a single namespace created with the
// container.
type Namespace struct {
	Type NamespaceType `json:"type"`
}

type Namespaces []Namespace

var namespaceInfo = map[NamespaceType]int{
	NEWNET: unix.CLONE_NEWNET,
	NEWPID: unix.CLONE_NEWPID,
	NEWNS:  unix.CLONE_NEWNS,
	NEWUTS: unix.CLONE_NEWUTS,
	NEWIPC: unix.CLONE_NEWIPC,
}

func (n *Namespaces) index(t NamespaceType) int {
	for i, ns := range *n {
		if ns.Type == t {
			return i
		}
	}
	return -1
}

func (n *Namespaces) Contains(t NamespaceType) bool {
	return n.index(t) != -1
}

func (n *Namespaces) Add(t NamespaceType) {
	if n.Contains(t) {
		return
	}
	*n = append(*n, Namespace{Type: t})
}

// CloneFlags derives the namespace-creating bitmask for the clone. SIGCHLD,
// the child-termination signal, is supplied by the launcher at clone time and
// is not part of this mask.
func (n *Namespaces) CloneFlags() uintptr {
	var flag int
	for _, ns := range *n {
		flag |= namespaceInfo[ns.Type]
	}
	return uintptr(flag)
}
