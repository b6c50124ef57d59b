package scan

import (
	"context"
	"math/rand"
	"time"

	"github.com/jroosing/hydrabrute/internal/correlation"
	"github.com/jroosing/hydrabrute/internal/frame"
)

// retryPacingThreshold and the sleep bounds below spread load: once a
// timeout batch exceeds 100 entries, retries are interleaved with random
// 100-400us sleeps instead of firing back to back.
const (
	retryPacingThreshold = 100
	retrySleepMin        = 100 * time.Microsecond
	retrySleepSpan       = 300 * time.Microsecond
)

// timeoutRetryLoop periodically scans the Correlation Table for expired
// entries, reassigns a resolver, bumps the retry counter, and re-emits via
// the retry channel; drops entries exceeding the retry cap.
func (c *Controller) timeoutRetryLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		expired := c.table.TimeoutScan(c.cfg.Retry.QueryTimeout, correlation.DefaultMaxReturn)
		if len(expired) == 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.cfg.Retry.IdlePollInterval):
			}
			continue
		}

		pace := len(expired) > retryPacingThreshold
		for _, entry := range expired {
			c.handleExpired(entry)
			if pace {
				time.Sleep(retrySleepMin + time.Duration(rand.Int63n(int64(retrySleepSpan)))) //nolint:gosec // load-spreading jitter, not security sensitive
			}
		}
	}
}

func (c *Controller) handleExpired(entry correlation.Entry) {
	if entry.Record.RetryCount >= c.cfg.Retry.MaxRetries {
		// Already removed by TimeoutScan; the slot is deliberately not
		// released so it is reclaimed only at scan end.
		return
	}

	resolver := c.pickResolver()
	rec := entry.Record
	rec.Resolver = resolver
	rec.RetryCount++
	rec.SentAt = time.Now()

	if err := c.table.Append(entry.Index, rec); err != nil {
		c.logger.Warn("retry loop: re-append collided", "index", entry.Index, "error", err)
		return
	}

	flagID2, slot := correlation.Decompose(entry.Index)
	cmd := retryCommand{
		Name:     rec.Name,
		Resolver: resolver,
		SrcPort:  slot,
		TID:      correlation.TID(c.flagID, flagID2),
		Depth:    rec.Depth,
	}
	select {
	case c.retryCh <- cmd:
	default:
		c.logger.Warn("retry loop: retry channel full, dropping retry", "name", rec.Name)
	}
}

// retryConsumer drains the retry channel and emits precisely the
// pre-built (name, resolver, src_port, tid) tuple without re-allocating an
// index. It suspends on its channel recv with a 1-second timeout so the
// stop signal is observed.
func (c *Controller) retryConsumer(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.retryCh:
			c.bucket.Admit(queryAccountingUnit)
			spec := frame.QuerySpec{
				SrcMAC:   c.binding.SourceMAC,
				DstMAC:   c.binding.NextHopMAC,
				SrcIP:    c.binding.SourceIP,
				DstIP:    parseIPv4(cmd.Resolver),
				SrcPort:  cmd.SrcPort,
				TID:      cmd.TID,
				Question: cmd.Name,
			}
			raw, err := frame.BuildQuery(spec)
			if err != nil {
				c.logger.Warn("retry consumer: build query failed", "name", cmd.Name, "error", err)
				continue
			}
			c.link.Emit(raw)
		case <-time.After(time.Second):
		}
	}
}
