package configs

type Cgroup struct {
	// Root is the pre-created cgroup v2 directory the per-container node
	// is created under. The memory controller must already be enabled in
	// its cgroup.subtree_control.
	Root string `json:"root"`

	// Resources contains the cgroup settings applied to the node.
	Resources *Resources `json:"resources"`
}

type Resources struct {
	// MemoryMax is the hard memory limit in bytes written to memory.max.
	// Zero means unlimited; memory.low is derived from it by the manager.
	MemoryMax int64 `json:"memory_max"`
}
