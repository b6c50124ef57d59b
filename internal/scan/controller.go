package scan

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jroosing/hydrabrute/internal/collab"
	"github.com/jroosing/hydrabrute/internal/correlation"
	"github.com/jroosing/hydrabrute/internal/discovery"
	"github.com/jroosing/hydrabrute/internal/linkio"
	"github.com/jroosing/hydrabrute/internal/pacer"
)

// Phase names the Scan Controller's state machine states.
type Phase int

const (
	Initializing Phase = iota
	ProbingWildcards
	Emitting
	Draining
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Initializing:
		return "Initializing"
	case ProbingWildcards:
		return "Probing Wildcards"
	case Emitting:
		return "Emitting"
	case Draining:
		return "Draining"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Result is what a completed scan returns: the frozen discovery set and
// its summary.
type Result struct {
	Names   []discovery.Name
	Summary discovery.Summary
}

// Controller drives one scan instance end to end. All mutable
// coordination state (Correlation Table, Index Allocator, DiscoveredName
// store, WildcardCache) is instance-scoped, so a process may run several
// Controllers concurrently.
type Controller struct {
	cfg Config

	phase atomic.Int32
	stop  atomic.Bool

	binding collab.InterfaceBinding
	link    LinkIO
	flagID  int

	table     *correlation.Table
	allocator *correlation.Allocator
	bucket    *pacer.Bucket
	wildcards *discovery.WildcardCache
	store     *discovery.Store

	retryCh chan retryCommand

	logger *slog.Logger
}

// newForTest builds a Controller with caller-supplied link/binding. Run
// calls it after opening Link I/O itself; tests that cannot open a real
// pcap handle call it directly with a fake LinkIO.
func newForTest(cfg Config, link LinkIO, binding collab.InterfaceBinding) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bytesPerSec, err := resolveBandwidth(cfg.Bandwidth, binding.Name)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:       cfg,
		binding:   binding,
		link:      link,
		flagID:    correlation.NewFlagID(),
		table:     correlation.NewTable(),
		allocator: correlation.NewAllocator(),
		bucket:    pacer.NewBucket(bytesPerSec),
		wildcards: discovery.NewWildcardCache(),
		store:     discovery.NewStore(),
		retryCh:   make(chan retryCommand, 1024),
		logger:    cfg.Logger.With("scan_id", cfg.ScanID.String()),
	}
	c.phase.Store(int32(Initializing))
	return c, nil
}

// resolveBandwidth returns the configured max_bytes_per_sec, or, when the
// caller left bandwidth unset, falls back to an auto-detected conservative
// cap derived from the interface's own reported throughput.
func resolveBandwidth(bandwidth, iface string) (int64, error) {
	if bandwidth != "" {
		return pacer.ParseBandwidth(bandwidth)
	}
	return pacer.AutoDetectMaxBytesPerSec(iface, pacer.SampleInterfaceBytesPerSec)
}

// Run opens Link I/O on the configured interface and executes the scan to
// completion, returning the frozen result. It blocks until the scan
// reaches the Stopped phase.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	binding, err := cfg.InterfaceResolver.Resolve(cfg.Interface)
	if err != nil {
		return Result{}, fmt.Errorf("scan: resolve interface: %w", err)
	}
	handle, err := linkio.Open(binding.Name, cfg.Logger)
	if err != nil {
		return Result{}, err
	}
	defer handle.Close()

	c, err := newForTest(cfg, handle, binding)
	if err != nil {
		return Result{}, err
	}
	return c.execute(ctx)
}

// Phase returns the controller's current phase.
func (c *Controller) Phase() Phase {
	return Phase(c.phase.Load())
}

func (c *Controller) setPhase(p Phase) {
	c.phase.Store(int32(p))
	if !c.cfg.Silent {
		c.logger.Info("scan phase change", "phase", p.String())
	}
}

func (c *Controller) execute(ctx context.Context) (Result, error) {
	c.setPhase(Initializing)
	if !c.cfg.Silent {
		c.logger.Info("scan initialized", "flag_id", c.flagID, "interface", c.binding.Name)
	}

	if !c.cfg.SkipWildcard {
		c.setPhase(ProbingWildcards)
		c.probeWildcards(ctx)
	}

	c.setPhase(Emitting)
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); c.receiveDispatch(workerCtx) }()
	go func() { defer wg.Done(); c.timeoutRetryLoop(workerCtx) }()
	go func() { defer wg.Done(); c.retryConsumer(workerCtx) }()

	if err := c.sendEngine(ctx); err != nil {
		c.logger.Warn("send engine error", "error", err)
	}

	c.setPhase(Draining)
	c.drain()

	c.setPhase(Stopped)
	c.stop.Store(true)
	cancelWorkers()

	joined := make(chan struct{})
	go func() { wg.Wait(); close(joined) }()
	select {
	case <-joined:
	case <-time.After(c.cfg.Drain.WorkerJoinTimeout):
		c.logger.Warn("scan: worker join timeout, proceeding with partial drain")
	}

	names := c.store.Snapshot()
	if !c.cfg.SkipWildcard {
		names = c.wildcards.Suppress(names)
	}
	return Result{Names: names, Summary: discovery.Summarize(names)}, nil
}

func (c *Controller) probeWildcards(ctx context.Context) {
	for _, root := range c.cfg.TargetRoots {
		ips, err := c.cfg.WildcardProber.Probe(ctx, root)
		if err != nil {
			c.logger.Warn("wildcard probe failed", "root", root, "error", err)
			continue
		}
		for _, ip := range ips {
			c.wildcards.Record(root, ip.String())
		}
	}
}

func (c *Controller) drain() {
	consecutiveEmpty := 0
	deadline := time.Now().Add(c.cfg.Drain.HardCap)
	for {
		if c.table.IsEmpty() {
			consecutiveEmpty++
		} else {
			consecutiveEmpty = 0
		}
		if consecutiveEmpty >= c.cfg.Drain.RequiredEmpty {
			return
		}
		if time.Now().After(deadline) {
			c.logger.Warn("scan: drain hard cap reached, returning partial results")
			return
		}
		time.Sleep(c.cfg.Drain.ProbeInterval)
	}
}

func (c *Controller) pickResolver() string {
	return c.cfg.Resolvers[rand.Intn(len(c.cfg.Resolvers))] //nolint:gosec // resolver choice is not security sensitive
}
