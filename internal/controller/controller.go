// Package controller provides a reference per-channel DRAM controller
// satisfying the memory-system core's Controller contract (spec §4.8). It
// is a concrete downstream for tests, examples, and the CLI demo — not a
// timing-accurate model.
package controller

import (
	"sync"

	"github.com/arkhadem/ramulator2/internal/constants"
	"github.com/arkhadem/ramulator2/internal/interfaces"
	"github.com/arkhadem/ramulator2/internal/logging"
	"github.com/arkhadem/ramulator2/internal/queue"
)

// AcceptPolicy decides whether a controller accepts the nth Send call
// (n counts from 1, includes both accepted and rejected prior calls).
type AcceptPolicy interface {
	Accept(n uint64) bool
}

// AlwaysAccept never rejects on policy grounds; the bounded queue is the
// only source of backpressure.
type AlwaysAccept struct{}

// Accept implements AcceptPolicy.
func (AlwaysAccept) Accept(uint64) bool { return true }

// RejectEveryKth rejects every Kth call regardless of queue occupancy,
// simulating a controller with occasional scheduling stalls.
type RejectEveryKth struct {
	K uint64
}

// Accept implements AcceptPolicy.
func (p RejectEveryKth) Accept(n uint64) bool {
	if p.K == 0 {
		return true
	}
	return n%p.K != 0
}

// Config configures a Controller.
type Config struct {
	// Depth is the in-flight command capacity; Send rejects once it is
	// reached. Zero means constants.DefaultControllerDepth.
	Depth int
	// Latency is the number of ticks a command spends in flight before its
	// callback fires. Zero means 1 (retires on the next tick).
	Latency int
	// ShardSize is the backing store's lock granularity in bytes. Zero
	// means constants.DefaultShardSize.
	ShardSize int
	// StoreSize is the backing store's total addressable size in bytes.
	// Zero means ShardSize (a single shard).
	StoreSize int64
	// Policy gates acceptance beyond the depth check. Nil means
	// AlwaysAccept.
	Policy AcceptPolicy

	Logger   *logging.Logger
	Observer Observer
}

// Observer receives controller-level events, separate from the
// memory-system core's Observer since the two run at different scopes.
type Observer interface {
	ObserveAccept()
	ObserveReject()
	ObserveRetire()
}

// NoOpObserver implements Observer with no-ops.
type NoOpObserver struct{}

// ObserveAccept implements Observer.
func (NoOpObserver) ObserveAccept() {}

// ObserveReject implements Observer.
func (NoOpObserver) ObserveReject() {}

// ObserveRetire implements Observer.
func (NoOpObserver) ObserveRetire() {}

type inflightEntry struct {
	cmd       interfaces.Command
	remaining int
}

// Controller is the reference implementation of interfaces.Controller. Send
// and Tick are mutex-guarded: unlike the memory-system core, which is
// driven cooperatively from a single goroutine, a Controller may also be
// polled (Occupancy) from another goroutine, so it does not rely on
// single-threaded access (spec §5).
type Controller struct {
	mu sync.Mutex

	depth   int
	latency int
	policy  AcceptPolicy

	ring     *queue.Ring
	entries  []inflightEntry
	store    *byteStore
	attempts uint64

	logger   *logging.Logger
	observer Observer
}

// New constructs a Controller from cfg.
func New(cfg Config) *Controller {
	depth := cfg.Depth
	if depth <= 0 {
		depth = constants.DefaultControllerDepth
	}
	latency := cfg.Latency
	if latency <= 0 {
		latency = 1
	}
	shardSize := cfg.ShardSize
	if shardSize <= 0 {
		shardSize = constants.DefaultShardSize
	}
	storeSize := cfg.StoreSize
	if storeSize <= 0 {
		storeSize = int64(shardSize)
	}
	policy := cfg.Policy
	if policy == nil {
		policy = AlwaysAccept{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	observer := cfg.Observer
	if observer == nil {
		observer = NoOpObserver{}
	}

	return &Controller{
		depth:    depth,
		latency:  latency,
		policy:   policy,
		ring:     queue.NewRing(depth),
		store:    newByteStore(storeSize, shardSize),
		logger:   logger,
		observer: observer,
	}
}

// Send implements interfaces.Controller.
func (c *Controller) Send(cmd interfaces.Command) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attempts++
	if !c.policy.Accept(c.attempts) {
		c.observer.ObserveReject()
		return false
	}
	if !c.ring.Push(cmd) {
		c.observer.ObserveReject()
		return false
	}

	c.entries = append(c.entries, inflightEntry{cmd: cmd, remaining: c.latency})
	c.observer.ObserveAccept()
	return true
}

// Tick implements interfaces.Controller: it ages every in-flight command by
// one tick and retires (pops, fires the callback of) every entry that has
// reached zero, in FIFO order.
func (c *Controller) Tick() {
	c.mu.Lock()
	for i := range c.entries {
		c.entries[i].remaining--
	}

	retired := 0
	for retired < len(c.entries) && c.entries[retired].remaining <= 0 {
		retired++
	}

	var done []inflightEntry
	if retired > 0 {
		done = append(done, c.entries[:retired]...)
		c.entries = append([]inflightEntry(nil), c.entries[retired:]...)
		for range done {
			c.ring.Pop()
		}
	}
	c.mu.Unlock()

	// Callbacks fire outside the lock: a callback may re-enter the memory
	// system, which must not be holding this controller's mutex while that
	// happens.
	for _, e := range done {
		e.cmd.Complete()
		c.observer.ObserveRetire()
	}
}

// ReadByte returns the byte stored at addr, resolving it through the
// sharded backing store (spec §4.8's "observable data-movement semantics").
func (c *Controller) ReadByte(addr int64) byte {
	return c.store.read(addr)
}

// WriteByte stores data at addr in the backing store.
func (c *Controller) WriteByte(addr int64, data byte) {
	c.store.write(addr, data)
}

// Occupancy returns the number of commands currently in flight.
func (c *Controller) Occupancy() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ring.Len()
}

var _ interfaces.Controller = (*Controller)(nil)
