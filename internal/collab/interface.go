package collab

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// InterfaceBinding is the immutable tuple a scan needs to craft outbound
// frames: source IPv4, source MAC, next-hop MAC, and interface name.
type InterfaceBinding struct {
	Name       string
	SourceIP   net.IP
	SourceMAC  net.HardwareAddr
	NextHopMAC net.HardwareAddr
}

// InterfaceResolver resolves an interface name (or "" for auto-selection)
// into an InterfaceBinding.
type InterfaceResolver interface {
	Resolve(name string) (InterfaceBinding, error)
}

// ErrNoInterface is returned when no usable non-loopback, administratively
// up IPv4 interface can be found.
var ErrNoInterface = fmt.Errorf("collab: no usable interface")

// DefaultInterfaceResolver enumerates net.Interfaces() and resolves the
// next-hop MAC via the kernel's ARP/neighbor table (best-effort: if the
// table has no entry yet, FallbackGatewayMAC is used instead, since
// forcing an ARP resolution requires sending traffic this package does not
// own).
type DefaultInterfaceResolver struct {
	// FallbackGatewayMAC is used when the neighbor table has no entry for
	// the resolved gateway, e.g. in containers where ARP traffic is
	// restricted.
	FallbackGatewayMAC net.HardwareAddr
}

// Resolve implements InterfaceResolver.
func (r DefaultInterfaceResolver) Resolve(name string) (InterfaceBinding, error) {
	iface, err := pickInterface(name)
	if err != nil {
		return InterfaceBinding{}, err
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return InterfaceBinding{}, fmt.Errorf("collab: addrs for %s: %w", iface.Name, err)
	}
	srcIP := firstIPv4(addrs)
	if srcIP == nil {
		return InterfaceBinding{}, fmt.Errorf("%w: %s has no IPv4 address", ErrNoInterface, iface.Name)
	}

	nextHop := r.FallbackGatewayMAC
	if gwIP, err := defaultGateway(iface.Name); err == nil {
		if mac, err := neighborMAC(gwIP); err == nil {
			nextHop = mac
		}
	}
	if nextHop == nil {
		return InterfaceBinding{}, fmt.Errorf("%w: could not resolve next-hop MAC for %s", ErrNoInterface, iface.Name)
	}

	return InterfaceBinding{
		Name:       iface.Name,
		SourceIP:   srcIP,
		SourceMAC:  iface.HardwareAddr,
		NextHopMAC: nextHop,
	}, nil
}

func pickInterface(name string) (net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return net.Interface{}, fmt.Errorf("collab: list interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if name != "" && iface.Name != name {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if addrs, err := iface.Addrs(); err != nil || firstIPv4(addrs) == nil {
			continue
		}
		return iface, nil
	}
	return net.Interface{}, fmt.Errorf("%w: %q", ErrNoInterface, name)
}

func firstIPv4(addrs []net.Addr) net.IP {
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		if v4 := ipNet.IP.To4(); v4 != nil {
			return v4
		}
	}
	return nil
}

// defaultGateway parses /proc/net/route for the default route (destination
// 00000000) owned by iface. Linux-specific, matching this stack's other
// platform assumptions (golang.org/x/sys/unix).
func defaultGateway(iface string) (net.IP, error) {
	f, err := os.Open("/proc/net/route")
	if err != nil {
		return nil, fmt.Errorf("collab: open /proc/net/route: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Scan() // header
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		if fields[0] != iface || fields[1] != "00000000" {
			continue
		}
		gw, err := hexLEToIP(fields[2])
		if err != nil {
			return nil, err
		}
		return gw, nil
	}
	return nil, fmt.Errorf("collab: no default route for %s", iface)
}

func hexLEToIP(hex string) (net.IP, error) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("collab: parse route gateway %q: %w", hex, err)
	}
	return net.IPv4(byte(v), byte(v>>8), byte(v>>16), byte(v>>24)), nil
}

// neighborMAC looks up ip's hardware address in /proc/net/arp.
func neighborMAC(ip net.IP) (net.HardwareAddr, error) {
	f, err := os.Open("/proc/net/arp")
	if err != nil {
		return nil, fmt.Errorf("collab: open /proc/net/arp: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Scan() // header
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		if fields[0] != ip.String() {
			continue
		}
		mac, err := net.ParseMAC(fields[3])
		if err != nil {
			return nil, fmt.Errorf("collab: parse arp entry %q: %w", fields[3], err)
		}
		return mac, nil
	}
	return nil, fmt.Errorf("collab: no arp entry for %s", ip)
}
