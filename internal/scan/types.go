package scan

import (
	"context"

	"github.com/jroosing/hydrabrute/internal/linkio"
)

// LinkIO is the narrow capability Send Engine and Receive & Dispatch need
// from Link I/O: emit a frame, and run a receive loop pushing IPv4
// payloads to a sink. Modelled as an interface (not a concrete *pcap
// handle) so tests can substitute an in-memory fake.
type LinkIO interface {
	Emit(frame []byte)
	ReceiveLoop(ctx context.Context, sink linkio.Sink)
}

// retryCommand is the pre-built tuple the Timeout Loop hands to the retry
// channel; the retry consumer emits it without re-allocating an index.
type retryCommand struct {
	Name     string
	Resolver string
	SrcPort  int
	TID      uint16
	Depth    int
}
