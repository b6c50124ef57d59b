// Package linkio implements Link I/O: opening a live Ethernet capture and
// exposing emit/receive_loop contracts over it. Receive & Dispatch and the
// Send Engine are its only callers; it knows nothing about DNS, scans, or
// correlation.
package linkio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// pollTimeout bounds each ReadPacketData call so the stop signal is
// observed promptly.
const pollTimeout = 500 * time.Millisecond

// maxConsecutiveErrors is the small threshold of consecutive receive
// errors after which the receive loop gives up.
const maxConsecutiveErrors = 10

// snapLen is generous for Ethernet+IPv4+UDP+DNS frames; DNS responses over
// UDP are never larger than a handful of KB in this engine's non-EDNS
// query shape.
const snapLen = 4096

// Handle wraps a live pcap capture, serialising writes behind a plain
// mutex around the critical section.
type Handle struct {
	mu     sync.Mutex
	pcap   *pcap.Handle
	logger *slog.Logger
}

// Open starts a live, promiscuous capture on iface.
func Open(iface string, logger *slog.Logger) (*Handle, error) {
	if logger == nil {
		logger = slog.Default()
	}
	warnIfFileDescriptorLimitLow(logger)

	h, err := pcap.OpenLive(iface, snapLen, true, pollTimeout)
	if err != nil {
		return nil, fmt.Errorf("linkio: open %s: %w", iface, err)
	}
	return &Handle{pcap: h, logger: logger}, nil
}

// Close releases the underlying capture handle.
func (h *Handle) Close() {
	h.pcap.Close()
}

// Emit enqueues one complete Ethernet frame for transmission. Errors are
// logged, not returned as fatal — a single dropped frame does not halt the
// scan.
func (h *Handle) Emit(frame []byte) {
	h.mu.Lock()
	err := h.pcap.WritePacketData(frame)
	h.mu.Unlock()
	if err != nil {
		h.logger.Warn("linkio: emit failed", "error", err)
	}
}

// Sink receives the IPv4 payload of one inbound frame (Ethernet header
// already trimmed).
type Sink func(ipPayload []byte)

// ReceiveLoop reads frames until ctx is done or a run of
// maxConsecutiveErrors read errors occurs. Each accepted frame's IPv4
// payload is handed to sink.
func (h *Handle) ReceiveLoop(ctx context.Context, sink Sink) {
	consecutiveErrors := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		data, _, err := h.pcap.ReadPacketData()
		switch {
		case errors.Is(err, pcap.NextErrorTimeoutExpired):
			consecutiveErrors = 0
			continue
		case err != nil:
			consecutiveErrors++
			h.logger.Warn("linkio: receive error", "error", err, "consecutive", consecutiveErrors)
			if consecutiveErrors >= maxConsecutiveErrors {
				h.logger.Error("linkio: aborting receive loop after repeated errors")
				return
			}
			continue
		}
		consecutiveErrors = 0

		payload := ethernetPayload(data)
		if payload == nil {
			continue
		}
		sink(payload)
	}
}

// ethernetPayload strips the Ethernet header from a captured frame,
// returning the IPv4 payload. Non-IPv4 frames are discarded.
func ethernetPayload(data []byte) []byte {
	packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.NoCopy)
	ethLayer := packet.Layer(layers.LayerTypeEthernet)
	if ethLayer == nil {
		return nil
	}
	eth, ok := ethLayer.(*layers.Ethernet)
	if !ok || eth.EthernetType != layers.EthernetTypeIPv4 {
		return nil
	}
	return eth.LayerPayload()
}
