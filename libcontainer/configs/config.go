package configs

// Config holds the normalized operator intent for a single container launch.
// It is built once, from CLI flags or from a bundle's config.json, and is not
// modified after validation.
type Config struct {
	// Path to a directory containing the container's root filesystem. When
	// empty the container keeps the host's mount view.
	Rootfs string `json:"rootfs"`

	// Hostname optionally sets the container's hostname.
	Hostname string `json:"hostname"`

	// Domainname optionally sets the container's NIS domain name.
	Domainname string `json:"domainname"`

	// IP is the IPv4 address assigned to the container's eth0 on the
	// bridge network. A non-empty IP implies a network namespace.
	IP string `json:"ip"`

	// Cgroups specifies the cgroup v2 node and resource limits the
	// container is placed into by the agent.
	Cgroups *Cgroup `json:"cgroups"`

	// Namespaces specifies the namespaces created when cloning the
	// container process. A namespace not listed here is shared with the
	// agent.
	Namespaces Namespaces `json:"namespaces"`

	// Command is the raw, whitespace-separated command line run inside the
	// container. It is tokenized just before exec; there is no shell
	// quoting.
	Command string `json:"command"`

	// Verbose enables debug logging on both sides of the clone.
	Verbose bool `json:"verbose"`
}
