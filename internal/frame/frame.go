// Package frame implements the Packet Codec: crafting outbound
// Ethernet/IPv4/UDP/DNS query frames and parsing inbound IPv4 payloads back
// into DNS responses. It sits directly on top of internal/dns for the DNS
// section and leaves link-layer I/O to internal/linkio.
package frame

import (
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/jroosing/hydrabrute/internal/correlation"
	"github.com/jroosing/hydrabrute/internal/dns"
	"github.com/jroosing/hydrabrute/internal/pool"
)

// ipIdentification is an arbitrary non-zero IPv4 identification value. No
// fragmentation is expected at these datagram sizes, so a single fixed
// value is sufficient.
const ipIdentification = 0x1234

// serializeBufPool reuses gopacket serialize buffers across query builds;
// the Send Engine and retry consumer both call BuildQuery at high rates
// once bandwidth pacing allows it, so avoiding one allocation per frame
// matters.
var serializeBufPool = pool.New(func() gopacket.SerializeBuffer {
	return gopacket.NewSerializeBuffer()
})

// QuerySpec describes one outbound query frame.
type QuerySpec struct {
	SrcMAC   net.HardwareAddr
	DstMAC   net.HardwareAddr
	SrcIP    net.IP
	DstIP    net.IP
	SrcPort  int
	TID      uint16
	Question string
}

// BuildQuery crafts a complete Ethernet/IPv4/UDP/DNS A-record query frame
// for spec.Question, ready to hand to Link I/O's emit.
func BuildQuery(spec QuerySpec) ([]byte, error) {
	msg := dns.Packet{
		Header: dns.Header{ID: spec.TID, Flags: dns.RDFlag},
		Questions: []dns.Question{
			{Name: spec.Question, Type: uint16(dns.TypeA), Class: uint16(dns.ClassIN)},
		},
	}
	payload, err := msg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("frame: marshal dns query: %w", err)
	}

	eth := &layers.Ethernet{
		SrcMAC:       spec.SrcMAC,
		DstMAC:       spec.DstMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Id:       ipIdentification,
		Flags:    layers.IPv4DontFragment,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    spec.SrcIP,
		DstIP:    spec.DstIP,
	}
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(spec.SrcPort), //nolint:gosec // slot is bounds-checked to [10001,60000)
		DstPort: 53,
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, fmt.Errorf("frame: set checksum network layer: %w", err)
	}

	buf := serializeBufPool.Get()
	defer serializeBufPool.Put(buf)
	buf.Clear()

	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, gopacket.Payload(payload)); err != nil {
		return nil, fmt.Errorf("frame: serialize layers: %w", err)
	}

	out := make([]byte, len(buf.Bytes()))
	copy(out, buf.Bytes())
	return out, nil
}

// Response is one parsed, correlation-relevant inbound DNS response.
type Response struct {
	TID      uint16
	SrcPort  int
	DstPort  int
	Question string
	Answers  []dns.Record
}

// ErrNotDNSResponse is returned when an inbound IPv4 payload is not a
// UDP/53 DNS response (wrong protocol, wrong source port, or QR=0).
var ErrNotDNSResponse = fmt.Errorf("frame: not a dns response")

// ParseResponse parses an inbound IPv4 payload (the frame already trimmed
// of its Ethernet header by Link I/O) into a Response. Non-UDP, non-DNS,
// and source-port-≠-53 payloads are rejected with ErrNotDNSResponse.
func ParseResponse(ipPayload []byte) (Response, error) {
	packet := gopacket.NewPacket(ipPayload, layers.LayerTypeIPv4, gopacket.NoCopy)
	udpLayer := packet.Layer(layers.LayerTypeUDP)
	if udpLayer == nil {
		return Response{}, ErrNotDNSResponse
	}
	udp, ok := udpLayer.(*layers.UDP)
	if !ok || udp.SrcPort != 53 {
		return Response{}, ErrNotDNSResponse
	}

	msg, err := dns.ParseResponseBounded(udp.Payload)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrNotDNSResponse, err)
	}

	resp := Response{
		TID:     msg.Header.ID,
		SrcPort: int(udp.SrcPort),
		DstPort: int(udp.DstPort),
		Answers: msg.Answers,
	}
	if len(msg.Questions) > 0 {
		resp.Question = msg.Questions[0].Name
	}
	return resp, nil
}

// CorrelationIndex recovers the correlation index a Response belongs to,
// returning ok=false when the response's high-tid does not match flagID.
func CorrelationIndex(resp Response, flagID int) (index int32, ok bool) {
	hi, flagID2 := correlation.SplitTID(resp.TID)
	if hi != flagID {
		return 0, false
	}
	return correlation.Index(flagID2, resp.DstPort), true
}
