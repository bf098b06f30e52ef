// Package network wires the container into a host bridge network. The host
// side runs in the agent after the clone and before the sync signal; the
// container side runs inside the new network namespace before the rootfs
// pivot. Everything here mutates global kernel state; the only per-container
// key is the child pid.
package network

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/coreos/go-iptables/iptables"
	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

const (
	// BridgeName is the host bridge all containers attach to.
	BridgeName = "br0"
	// BridgeAddr is the bridge address, used as the containers' gateway.
	BridgeAddr = "10.0.0.1"
	// PrefixLen is the prefix length of the bridge network.
	PrefixLen = 16

	// ContainerIfname is the veth peer name inside the container.
	ContainerIfname = "eth0"

	ipForwardProcFile = "/proc/sys/net/ipv4/ip_forward"
)

// VethName returns the host-side veth interface name for a container pid.
func VethName(pid int) string {
	return "veth" + strconv.Itoa(pid)
}

// BridgeCIDR returns the bridge network in CIDR notation, e.g. "10.0.0.0/16".
func BridgeCIDR() string {
	_, ipnet, err := net.ParseCIDR(fmt.Sprintf("%s/%d", BridgeAddr, PrefixLen))
	if err != nil {
		// The operands are package constants; this cannot fail at runtime.
		panic(err)
	}
	return ipnet.String()
}

// masqueradeRuleArgs is the POSTROUTING rule that NATs container traffic
// leaving the bridge network.
func masqueradeRuleArgs() []string {
	return []string{"-s", BridgeCIDR(), "-j", "MASQUERADE"}
}

// Prepare sets up the host side of the container network: bridge, veth pair
// into the container's network namespace, forwarding, and NAT. Bridge
// creation and bridge address assignment tolerate pre-existing state so that
// concurrent and repeated launches share one bridge.
func Prepare(pid int) error {
	br, err := ensureBridge()
	if err != nil {
		return err
	}
	if err := netlink.LinkSetUp(br); err != nil {
		return fmt.Errorf("bringing %s up: %w", BridgeName, err)
	}
	if err := ensureBridgeAddr(br); err != nil {
		return err
	}
	hostVeth, err := createVethPair(pid)
	if err != nil {
		return err
	}
	if err := netlink.LinkSetUp(hostVeth); err != nil {
		return fmt.Errorf("bringing %s up: %w", VethName(pid), err)
	}
	if err := netlink.LinkSetMaster(hostVeth, br); err != nil {
		return fmt.Errorf("enslaving %s to %s: %w", VethName(pid), BridgeName, err)
	}
	if err := enableIPForwarding(); err != nil {
		return err
	}
	return ensureMasquerade()
}

// ensureBridge returns the bridge link, creating it if it does not exist yet.
func ensureBridge() (netlink.Link, error) {
	link, err := netlink.LinkByName(BridgeName)
	if err == nil {
		return link, nil
	}
	var notFound netlink.LinkNotFoundError
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("looking up bridge %s: %w", BridgeName, err)
	}
	linkAttrs := netlink.NewLinkAttrs()
	linkAttrs.Name = BridgeName
	bridge := &netlink.Bridge{LinkAttrs: linkAttrs}
	if err := netlink.LinkAdd(bridge); err != nil && !errors.Is(err, unix.EEXIST) {
		return nil, fmt.Errorf("creating bridge %s: %w", BridgeName, err)
	}
	return netlink.LinkByName(BridgeName)
}

func ensureBridgeAddr(br netlink.Link) error {
	addr, err := bridgeAddr()
	if err != nil {
		return err
	}
	if err := netlink.AddrAdd(br, addr); err != nil {
		if errors.Is(err, unix.EEXIST) {
			logrus.Debugf("bridge %s already has address %s", BridgeName, addr.IPNet)
			return nil
		}
		return fmt.Errorf("assigning %s to %s: %w", addr.IPNet, BridgeName, err)
	}
	return nil
}

// bridgeAddr builds the bridge address with its broadcast address, the
// equivalent of "ip addr add 10.0.0.1/16 brd + dev br0".
func bridgeAddr() (*netlink.Addr, error) {
	addr, err := netlink.ParseAddr(fmt.Sprintf("%s/%d", BridgeAddr, PrefixLen))
	if err != nil {
		return nil, fmt.Errorf("parsing bridge address: %w", err)
	}
	addr.Broadcast = broadcastAddr(addr.IPNet)
	return addr, nil
}

func broadcastAddr(ipnet *net.IPNet) net.IP {
	ip := ipnet.IP.To4()
	if ip == nil {
		return nil
	}
	mask := ipnet.Mask
	brd := make(net.IP, len(ip))
	for i := range ip {
		brd[i] = ip[i] | ^mask[i]
	}
	return brd
}

// createVethPair creates veth<pid> on the host with its peer already placed
// into the container's network namespace, selected by pid.
func createVethPair(pid int) (netlink.Link, error) {
	name := VethName(pid)
	linkAttrs := netlink.NewLinkAttrs()
	linkAttrs.Name = name
	veth := &netlink.Veth{
		LinkAttrs:     linkAttrs,
		PeerName:      ContainerIfname,
		PeerNamespace: netlink.NsPid(pid),
	}
	if err := netlink.LinkAdd(veth); err != nil {
		return nil, fmt.Errorf("creating veth pair %s/%s: %w", name, ContainerIfname, err)
	}
	return netlink.LinkByName(name)
}

func enableIPForwarding() error {
	if err := os.WriteFile(ipForwardProcFile, []byte("1"), 0o644); err != nil {
		return fmt.Errorf("enabling IPv4 forwarding: %w", err)
	}
	return nil
}

// ensureMasquerade installs the NAT rule for the bridge network. AppendUnique
// keeps repeated launches from stacking duplicate rules.
func ensureMasquerade() error {
	ipt, err := iptables.NewWithProtocol(iptables.ProtocolIPv4)
	if err != nil {
		return fmt.Errorf("creating iptables handle: %w", err)
	}
	if err := ipt.AppendUnique("nat", "POSTROUTING", masqueradeRuleArgs()...); err != nil {
		return fmt.Errorf("installing MASQUERADE rule for %s: %w", BridgeCIDR(), err)
	}
	return nil
}
