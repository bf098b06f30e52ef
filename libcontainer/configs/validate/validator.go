package validate

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/mini_container/libcontainer/configs"
)

const (
	// HOST_NAME_MAX and the NIS domain name limit from <limits.h>.
	hostNameMax      = 64
	nisDomainNameMax = 64
)

type check func(config *configs.Config) error

func Validate(config *configs.Config) error {
	checks := []check{
		command,
		rootfs,
		hostname,
		domainname,
		ip,
	}
	for _, c := range checks {
		if err := c(config); err != nil {
			return err
		}
	}
	return nil
}

func command(config *configs.Config) error {
	if len(strings.Fields(config.Command)) == 0 {
		return errors.New("no command specified")
	}
	return nil
}

// rootfs validates that the rootfs is an absolute path and is not a symlink
// to somewhere else on the host filesystem.
func rootfs(config *configs.Config) error {
	if config.Rootfs == "" {
		return nil
	}
	if _, err := os.Stat(config.Rootfs); err != nil {
		return fmt.Errorf("invalid rootfs: %w", err)
	}
	cleaned, err := filepath.Abs(config.Rootfs)
	if err != nil {
		return fmt.Errorf("invalid rootfs: %w", err)
	}
	if cleaned, err = filepath.EvalSymlinks(cleaned); err != nil {
		return fmt.Errorf("invalid rootfs: %w", err)
	}
	if filepath.Clean(config.Rootfs) != cleaned {
		return errors.New("invalid rootfs: not an absolute path, or a symlink")
	}
	return nil
}

func hostname(config *configs.Config) error {
	if config.Hostname == "" {
		return nil
	}
	if len(config.Hostname) > hostNameMax {
		return fmt.Errorf("invalid hostname: longer than %d bytes", hostNameMax)
	}
	if !config.Namespaces.Contains(configs.NEWUTS) {
		return errors.New("unable to set hostname without a private UTS namespace")
	}
	return nil
}

func domainname(config *configs.Config) error {
	if config.Domainname == "" {
		return nil
	}
	if len(config.Domainname) > nisDomainNameMax {
		return fmt.Errorf("invalid domain name: longer than %d bytes", nisDomainNameMax)
	}
	if !config.Namespaces.Contains(configs.NEWUTS) {
		return errors.New("unable to set domain name without a private UTS namespace")
	}
	return nil
}

func ip(config *configs.Config) error {
	if config.IP == "" {
		return nil
	}
	parsed := net.ParseIP(config.IP)
	if parsed == nil || parsed.To4() == nil {
		return fmt.Errorf("invalid container IP %q: not an IPv4 address", config.IP)
	}
	if !config.Namespaces.Contains(configs.NEWNET) {
		return errors.New("unable to assign an IP without a private network namespace")
	}
	return nil
}
