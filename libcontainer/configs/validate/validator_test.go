package validate

import (
	"strings"
	"testing"

	"github.com/mini_container/libcontainer/configs"
)

func validConfig(t *testing.T) *configs.Config {
	t.Helper()
	config := &configs.Config{
		Rootfs:     t.TempDir(),
		Hostname:   "ctr",
		Domainname: "lan",
		IP:         "10.0.0.2",
		Command:    "/bin/true",
	}
	config.Namespaces.Add(configs.NEWNS)
	config.Namespaces.Add(configs.NEWUTS)
	config.Namespaces.Add(configs.NEWNET)
	return config
}

func TestValidate(t *testing.T) {
	if err := Validate(validConfig(t)); err != nil {
		t.Errorf("expected config to be valid: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*configs.Config)
	}{
		{
			name: "missing command",
			mutate: func(c *configs.Config) {
				c.Command = "  \t "
			},
		},
		{
			name: "relative rootfs",
			mutate: func(c *configs.Config) {
				c.Rootfs = "rootfs"
			},
		},
		{
			name: "nonexistent rootfs",
			mutate: func(c *configs.Config) {
				c.Rootfs = "/does/not/exist"
			},
		},
		{
			name: "hostname too long",
			mutate: func(c *configs.Config) {
				c.Hostname = strings.Repeat("a", hostNameMax+1)
			},
		},
		{
			name: "domain name too long",
			mutate: func(c *configs.Config) {
				c.Domainname = strings.Repeat("a", nisDomainNameMax+1)
			},
		},
		{
			name: "hostname without UTS namespace",
			mutate: func(c *configs.Config) {
				c.Namespaces = configs.Namespaces{{Type: configs.NEWNS}, {Type: configs.NEWNET}}
			},
		},
		{
			name: "ip not IPv4",
			mutate: func(c *configs.Config) {
				c.IP = "fd00::2"
			},
		},
		{
			name: "ip not an address",
			mutate: func(c *configs.Config) {
				c.IP = "10.0.0"
			},
		},
		{
			name: "ip without network namespace",
			mutate: func(c *configs.Config) {
				c.Namespaces = configs.Namespaces{{Type: configs.NEWNS}, {Type: configs.NEWUTS}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig(t)
			tt.mutate(config)
			if err := Validate(config); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}
