package network

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

// Setup configures the container side of the network namespace: loopback,
// the eth0 address, and the default route via the bridge. The address is
// assigned and the link brought up before the route is added; the route
// needs the link up.
func Setup(ip string) error {
	if err := setupLoopback(); err != nil {
		return err
	}
	eth0, err := netlink.LinkByName(ContainerIfname)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", ContainerIfname, err)
	}
	addr, err := netlink.ParseAddr(fmt.Sprintf("%s/%d", ip, PrefixLen))
	if err != nil {
		return fmt.Errorf("parsing container address %q: %w", ip, err)
	}
	if err := netlink.AddrAdd(eth0, addr); err != nil {
		return fmt.Errorf("assigning %s to %s: %w", addr.IPNet, ContainerIfname, err)
	}
	if err := netlink.LinkSetUp(eth0); err != nil {
		return fmt.Errorf("bringing %s up: %w", ContainerIfname, err)
	}
	return addDefaultRoute(eth0)
}

func setupLoopback() error {
	lo, err := netlink.LinkByName("lo")
	if err != nil {
		return fmt.Errorf("looking up lo: %w", err)
	}
	if err := netlink.LinkSetUp(lo); err != nil {
		return fmt.Errorf("bringing lo up: %w", err)
	}
	return nil
}

func addDefaultRoute(link netlink.Link) error {
	gw := net.ParseIP(BridgeAddr)
	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        gw,
	}
	if err := netlink.RouteAdd(route); err != nil {
		return fmt.Errorf("adding default route via %s: %w", BridgeAddr, err)
	}
	return nil
}
