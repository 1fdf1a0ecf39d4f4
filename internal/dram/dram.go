// Package dram provides a minimal reference device collaborator
// satisfying the memory-system core's DRAM contract (spec §4.9). It
// performs no timing simulation; it exists so the core's documented
// external interface has a concrete, satisfiable collaborator.
package dram

import (
	"github.com/arkhadem/ramulator2/internal/constants"
	"github.com/arkhadem/ramulator2/internal/interfaces"
)

// Config configures a Stub device.
type Config struct {
	// ChannelCount is reported by LevelSize("channel").
	ChannelCount int
	// BankGroupCount is reported by LevelSize("bank_group").
	BankGroupCount int
	// BankCount is reported by LevelSize("bank").
	BankCount int
	// TCKPs is reported by Timing("tCK_ps").
	TCKPs float64
}

// Stub is the reference DRAM device: a bag of queryable constants and a
// notional clock, with no electrical timing behind it.
type Stub struct {
	channelCount   int
	bankGroupCount int
	bankCount      int
	tCKPs          float64
	clk            uint64
}

// New constructs a Stub from cfg, filling in defaults for zero fields.
func New(cfg Config) *Stub {
	channelCount := cfg.ChannelCount
	if channelCount <= 0 {
		channelCount = constants.DefaultChannelCount
	}
	bankGroupCount := cfg.BankGroupCount
	if bankGroupCount <= 0 {
		bankGroupCount = 4
	}
	bankCount := cfg.BankCount
	if bankCount <= 0 {
		bankCount = bankGroupCount * 4
	}
	tCKPs := cfg.TCKPs
	if tCKPs <= 0 {
		tCKPs = 1250 // 0.8 GHz notional clock, matching a DDR4-era default
	}
	return &Stub{
		channelCount:   channelCount,
		bankGroupCount: bankGroupCount,
		bankCount:      bankCount,
		tCKPs:          tCKPs,
	}
}

// Tick advances the stub's notional internal clock by one memory-system
// cycle. It has no other effect.
func (s *Stub) Tick() {
	s.clk++
}

// LevelSize reports the configured size of the named addressing level.
// Unknown level names return 0.
func (s *Stub) LevelSize(level string) int {
	switch level {
	case "channel":
		return s.channelCount
	case "bank_group":
		return s.bankGroupCount
	case "bank":
		return s.bankCount
	default:
		return 0
	}
}

// Timing reports the named timing parameter. Only "tCK_ps" is populated;
// every other name returns 0, since this stub performs no timing
// simulation.
func (s *Stub) Timing(name string) float64 {
	if name == "tCK_ps" {
		return s.tCKPs
	}
	return 0
}

// Clock returns the stub's notional cycle count, for tests and diagnostics.
func (s *Stub) Clock() uint64 {
	return s.clk
}

var _ interfaces.DRAM = (*Stub)(nil)
