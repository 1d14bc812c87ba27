package scan

import (
	"errors"
	"fmt"
)

// Scan modes. The mode picks the worker preset and decides whether the
// probe falls back to TCP reachability checks when ICMP goes unanswered.
const (
	ModeFast = "fast"
	ModeDeep = "deep"
)

// Worker-pool presets per mode.
const (
	FastModeWorkers = 100
	DeepModeWorkers = 30
)

// Config describes the parameters of a scan run.
type Config struct {
	// Subnet is the CIDR block to sweep. Empty means auto-detect via
	// DetectNetwork.
	Subnet string `json:"subnet"`
	// Mode is ModeFast or ModeDeep. Empty defaults to ModeFast.
	Mode string `json:"mode"`
	// Workers bounds the number of in-flight probes. Zero means the
	// mode's preset.
	Workers int `json:"workers"`
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", ErrInvalidRange)
	}
	switch c.Mode {
	case "", ModeFast, ModeDeep:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRange, c.Mode)
	}
	return nil
}

func (c Config) mode() string {
	if c.Mode == "" {
		return ModeFast
	}
	return c.Mode
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	if c.mode() == ModeDeep {
		return DeepModeWorkers
	}
	return FastModeWorkers
}

// DeviceRecord captures the identity resolved for a single responding host.
// Records are created once by a successful probe and never mutated. The
// field set and order is the boundary contract consumed by the export layer.
type DeviceRecord struct {
	IP         string `json:"ip"`
	Hostname   string `json:"hostname"`
	MAC        string `json:"mac"`
	DeviceType string `json:"device_type"`
	ScanTime   string `json:"scan_time"`
}

// UnknownMAC is the sentinel stored when no neighbor-table entry resolves.
const UnknownMAC = "Unknown"

// Progress summarises how far a scan has advanced.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

var (
	// ErrNoNetwork indicates every network auto-detection strategy failed.
	ErrNoNetwork = errors.New("no local network could be detected")
	// ErrInvalidRange indicates the scan range or configuration is unusable.
	ErrInvalidRange = errors.New("invalid scan range")
)
