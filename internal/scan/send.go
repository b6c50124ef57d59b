package scan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jroosing/hydrabrute/internal/correlation"
	"github.com/jroosing/hydrabrute/internal/frame"
)

// queryAccountingUnit is the byte count charged to the bandwidth pacer per
// query frame: real query frames run roughly 60-90 bytes, and 64 is the
// accounting unit used for pacing.
const queryAccountingUnit = 64

// sendEngine enumerates every (label, domain) pair and emits one A-record
// query for each, registering a QueryRecord in the Correlation Table
// before transmitting.
func (c *Controller) sendEngine(ctx context.Context) error {
	labels, err := c.cfg.LabelSource.Labels(ctx)
	if err != nil {
		return fmt.Errorf("scan: load labels: %w", err)
	}

	for _, root := range c.cfg.TargetRoots {
		depth := len(strings.Split(root, "."))
		for _, label := range labels {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			name := label + "." + root
			c.bucket.Admit(queryAccountingUnit)

			alloc, err := c.allocator.Allocate(ctx)
			if err != nil {
				return ctx.Err()
			}
			resolver := c.pickResolver()
			tid := correlation.TID(c.flagID, alloc.FlagID2)

			record := correlation.Record{
				Name:       name,
				Resolver:   resolver,
				SentAt:     time.Now(),
				RetryCount: 0,
				Depth:      depth,
			}
			if err := c.table.Append(alloc.Index, record); err != nil {
				c.logger.Warn("send engine: append collided, skipping", "index", alloc.Index, "error", err)
				continue
			}

			c.emitQuery(name, resolver, alloc.Slot, tid)
		}
	}
	return nil
}

// emitQuery crafts and transmits one query frame.
func (c *Controller) emitQuery(name, resolver string, srcPort int, tid uint16) {
	spec := frame.QuerySpec{
		SrcMAC:   c.binding.SourceMAC,
		DstMAC:   c.binding.NextHopMAC,
		SrcIP:    c.binding.SourceIP,
		DstIP:    parseIPv4(resolver),
		SrcPort:  srcPort,
		TID:      tid,
		Question: name,
	}
	raw, err := frame.BuildQuery(spec)
	if err != nil {
		c.logger.Warn("send engine: build query failed", "name", name, "error", err)
		return
	}
	c.link.Emit(raw)
}
