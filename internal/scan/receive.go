package scan

import (
	"context"
	"time"

	"github.com/jroosing/hydrabrute/internal/correlation"
	"github.com/jroosing/hydrabrute/internal/discovery"
	"github.com/jroosing/hydrabrute/internal/dns"
	"github.com/jroosing/hydrabrute/internal/frame"
)

// receiveDispatch is the single consumer of the Link I/O receive stream.
// It never suspends on CPU work; it suspends only on its inbound channel
// read.
func (c *Controller) receiveDispatch(ctx context.Context) {
	inbound := make(chan []byte, 1024)
	go c.link.ReceiveLoop(ctx, func(payload []byte) {
		select {
		case inbound <- payload:
		default:
			// Backpressure: drop rather than block the receive loop, which
			// must keep polling for the stop signal.
		}
	})

	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-inbound:
			c.dispatchOne(payload)
		}
	}
}

// dispatchOne implements one pass of Receive & Dispatch's steps 1-5.
func (c *Controller) dispatchOne(payload []byte) {
	resp, err := frame.ParseResponse(payload)
	if err != nil {
		return
	}

	index, ok := frame.CorrelationIndex(resp, c.flagID)
	if !ok {
		return
	}

	rec, found := c.table.Delete(index)
	if !found {
		return
	}
	flagID2, slot := correlation.Decompose(index)
	c.allocator.Release(correlation.Allocation{FlagID2: flagID2, Slot: slot, Index: index})

	for _, answer := range resp.Answers {
		recordType, ok := mapRecordType(answer.Type)
		if !ok {
			continue
		}
		text, ok := answer.RDataText()
		if !ok {
			continue
		}
		c.store.Add(discovery.Name{
			QueriedName: rec.Name,
			RDataText:   text,
			RecordType:  recordType,
			ObservedAt:  time.Now(),
		})
	}
}

func mapRecordType(rrType uint16) (discovery.RecordType, bool) {
	switch dns.RecordType(rrType) {
	case dns.TypeA:
		return discovery.TypeA, true
	case dns.TypeCNAME:
		return discovery.TypeCNAME, true
	case dns.TypeNS:
		return discovery.TypeNS, true
	case dns.TypeMX:
		return discovery.TypeMX, true
	case dns.TypeTXT:
		return discovery.TypeTXT, true
	default:
		return "", false
	}
}
