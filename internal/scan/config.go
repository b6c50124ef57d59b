// Package scan wires the Correlation Table, Index Allocator, Send Engine,
// Receive & Dispatch, Timeout/Retry Loop, and Bandwidth Pacer into a single
// runnable ScanController, using a typed Config with a Validate method and
// sub-structs for tunable knobs.
package scan

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/jroosing/hydrabrute/internal/collab"
)

// RetryConfig groups the timeout/retry loop's tunables. Defaults match the
// engine's fixed timeouts; they are not meant to be tuned per scan, but are
// exposed as a sub-struct for override in tests.
type RetryConfig struct {
	QueryTimeout     time.Duration
	MaxRetries       int
	IdlePollInterval time.Duration
}

// DefaultRetryConfig returns the engine's fixed retry timing.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		QueryTimeout:     5 * time.Second,
		MaxRetries:       5,
		IdlePollInterval: 500 * time.Millisecond,
	}
}

// DrainConfig groups the quiescence-wait tunables for the Draining phase.
type DrainConfig struct {
	ProbeInterval     time.Duration
	RequiredEmpty     int
	HardCap           time.Duration
	WorkerJoinTimeout time.Duration
}

// DefaultDrainConfig returns the engine's fixed drain timing.
func DefaultDrainConfig() DrainConfig {
	return DrainConfig{
		ProbeInterval:     time.Second,
		RequiredEmpty:     5,
		HardCap:           5 * time.Minute,
		WorkerJoinTimeout: 5 * time.Second,
	}
}

// Config is the full configuration surface for one scan, plus the ambient
// Logger/ScanID fields and narrow collaborator overrides used by tests.
type Config struct {
	TargetRoots []string
	Labels      []string
	LabelFile   string
	Resolvers   []string
	Interface   string
	Bandwidth   string

	SkipWildcard bool
	Silent       bool

	Retry RetryConfig
	Drain DrainConfig

	Logger *slog.Logger
	ScanID uuid.UUID

	LabelSource       collab.LabelSource
	InterfaceResolver collab.InterfaceResolver
	WildcardProber    collab.WildcardProber
	ResultSink        collab.ResultSink
}

// defaultResolvers is used when Config.Resolvers is empty.
var defaultResolvers = []string{"8.8.8.8", "1.1.1.1", "9.9.9.9"}

// ErrNoResolvers is returned by Validate if resolver resolution would
// leave the scan with an empty resolver set, which cannot happen given
// defaultResolvers but is checked explicitly for defence against a caller
// passing an empty slice through a non-nil pointer path.
var ErrNoResolvers = fmt.Errorf("scan: no resolvers configured")

// Validate fills in defaults and rejects configurations the scan cannot
// start with; configuration errors surface at scan start, not mid-run.
func (c *Config) Validate() error {
	if len(c.TargetRoots) == 0 {
		return fmt.Errorf("scan: target_roots must not be empty")
	}
	if len(c.Resolvers) == 0 {
		c.Resolvers = append([]string(nil), defaultResolvers...)
	}
	if len(c.Resolvers) == 0 {
		return ErrNoResolvers
	}
	for _, r := range c.Resolvers {
		if ip := net.ParseIP(r); ip == nil || ip.To4() == nil {
			return fmt.Errorf("scan: resolver %q is not an IPv4 address", r)
		}
	}
	if c.Retry.QueryTimeout == 0 {
		c.Retry = DefaultRetryConfig()
	}
	if c.Drain.ProbeInterval == 0 {
		c.Drain = DefaultDrainConfig()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.ScanID == uuid.Nil {
		c.ScanID = uuid.New()
	}
	if c.LabelSource == nil {
		c.LabelSource = collab.SelectLabelSource(c.Labels, c.LabelFile)
	}
	if c.InterfaceResolver == nil {
		c.InterfaceResolver = collab.DefaultInterfaceResolver{}
	}
	if c.WildcardProber == nil {
		c.WildcardProber = collab.HostResolverWildcardProber{}
	}
	return nil
}
