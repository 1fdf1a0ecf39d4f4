package ramulator

import (
	"sync"

	"github.com/arkhadem/ramulator2/internal/interfaces"
)

// StubController is a minimal interfaces.Controller test double: it
// accepts up to Capacity in-flight commands (0 means unlimited) and
// retires the oldest one on each Tick, calling its Complete(). It tracks
// call counts for test assertions, mirroring the teacher's MockBackend.
type StubController struct {
	// Capacity bounds in-flight commands; zero means unlimited.
	Capacity int
	// RejectAll makes every Send call fail regardless of capacity, for
	// exercising overflow-queue retry behavior deterministically.
	RejectAll bool

	mu        sync.Mutex
	pending   []interfaces.Command
	sendCalls int
	tickCalls int
	accepted  int
	rejected  int
}

// NewStubController constructs a StubController with the given capacity
// (0 means unlimited).
func NewStubController(capacity int) *StubController {
	return &StubController{Capacity: capacity}
}

// Send implements interfaces.Controller.
func (c *StubController) Send(cmd interfaces.Command) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sendCalls++
	if c.RejectAll {
		c.rejected++
		return false
	}
	if c.Capacity > 0 && len(c.pending) >= c.Capacity {
		c.rejected++
		return false
	}
	c.pending = append(c.pending, cmd)
	c.accepted++
	return true
}

// Tick implements interfaces.Controller: it retires the oldest pending
// command, if any, calling its Complete().
func (c *StubController) Tick() {
	c.mu.Lock()
	c.tickCalls++
	if len(c.pending) == 0 {
		c.mu.Unlock()
		return
	}
	cmd := c.pending[0]
	c.pending = c.pending[1:]
	c.mu.Unlock()

	cmd.Complete()
}

// SendCalls returns the number of times Send was invoked.
func (c *StubController) SendCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendCalls
}

// TickCalls returns the number of times Tick was invoked.
func (c *StubController) TickCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickCalls
}

// Accepted returns the number of Send calls that returned true.
func (c *StubController) Accepted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accepted
}

// Rejected returns the number of Send calls that returned false.
func (c *StubController) Rejected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rejected
}

// Pending returns the number of commands currently held.
func (c *StubController) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

var _ interfaces.Controller = (*StubController)(nil)

// StubDRAM is a minimal interfaces.DRAM test double.
type StubDRAM struct {
	Channels      int
	BankGroups    int
	Banks         int
	TCKPs         float64
	mu            sync.Mutex
	tickCalls     int
}

// NewStubDRAM constructs a StubDRAM reporting the given channel count;
// other levels default to 4 bank groups of 4 banks each.
func NewStubDRAM(channels int) *StubDRAM {
	return &StubDRAM{Channels: channels, BankGroups: 4, Banks: 16, TCKPs: 1250}
}

// Tick implements interfaces.DRAM.
func (d *StubDRAM) Tick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tickCalls++
}

// LevelSize implements interfaces.DRAM.
func (d *StubDRAM) LevelSize(level string) int {
	switch level {
	case "channel":
		return d.Channels
	case "bank_group":
		return d.BankGroups
	case "bank":
		return d.Banks
	default:
		return 0
	}
}

// Timing implements interfaces.DRAM.
func (d *StubDRAM) Timing(name string) float64 {
	if name == "tCK_ps" {
		return d.TCKPs
	}
	return 0
}

// TickCalls returns the number of times Tick was invoked.
func (d *StubDRAM) TickCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tickCalls
}

var _ interfaces.DRAM = (*StubDRAM)(nil)
