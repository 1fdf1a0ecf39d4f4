// Package ramulator implements the decoder/dispatcher core of an
// Accelerator-in-Memory (AiM) DRAM subsystem: a host-request queue, an ISR
// decode table, per-channel overflow queues absorbing controller
// backpressure, a stall counter enforcing blocking-command semantics, and
// a completion-callback protocol that preserves host program order.
package ramulator

import (
	"math/bits"

	"github.com/arkhadem/ramulator2/internal/constants"
	"github.com/arkhadem/ramulator2/internal/interfaces"
	"github.com/arkhadem/ramulator2/internal/logging"
)

// Config configures a MemorySystem.
type Config struct {
	// Controllers is indexed by channel; its length is the channel count
	// this memory system dispatches across.
	Controllers []interfaces.Controller
	DRAM        interfaces.DRAM

	Logger   *logging.Logger
	Observer Observer

	// QueueCapacity overrides the default ISR_SIZE bound; zero means use
	// constants.ISRSize. Tests shrink this to exercise queue-full rejection
	// without enqueuing 2^21 requests.
	QueueCapacity int
}

// MemorySystem is the decoder/dispatcher core. Per spec §5, it is
// cooperative and single-threaded: Send, Tick, and Receive are all meant
// to be invoked from one scheduler goroutine (a controller's Tick may call
// back into Receive synchronously), so no internal locking is used. A
// caller that drives controllers from separate goroutines must serialize
// calls into MemorySystem itself.
type MemorySystem struct {
	controllers   []interfaces.Controller
	dram          interfaces.DRAM
	queueCapacity int

	logger   *logging.Logger
	observer Observer

	cfr *cfrStore

	queue []*Request // host-request FIFO; index 0 is the head

	overflow []overflowQueue // one per channel

	stalledAiMRequests int
	clk                uint64

	// headFullyDispatched is set by decodeHead once every command emitted
	// from the current head request has been accepted by its controller
	// (or the head emitted none at all); Phase 4 consults it to decide
	// whether the head can pop this tick.
	headFullyDispatched bool
}

// overflowQueue is a per-channel FIFO of commands rejected by that
// channel's controller, retried every tick (spec §4's Phase 1). Its backing
// slice is pre-sized to constants.DefaultOverflowCapacity; it still grows
// past that under sustained backpressure, the initial capacity just avoids
// reallocation for the common case.
type overflowQueue struct {
	pending []*Request
}

func newOverflowQueue() overflowQueue {
	return overflowQueue{pending: make([]*Request, 0, constants.DefaultOverflowCapacity)}
}

func (q *overflowQueue) push(r *Request) { q.pending = append(q.pending, r) }
func (q *overflowQueue) empty() bool     { return len(q.pending) == 0 }
func (q *overflowQueue) front() *Request {
	if q.empty() {
		return nil
	}
	return q.pending[0]
}
func (q *overflowQueue) pop() {
	q.pending = q.pending[1:]
}

// NewMemorySystem constructs a MemorySystem over cfg.Controllers,
// one per channel.
func NewMemorySystem(cfg Config) *MemorySystem {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = NoOpObserver{}
	}
	cap := cfg.QueueCapacity
	if cap == 0 {
		cap = constants.ISRSize
	}
	overflow := make([]overflowQueue, len(cfg.Controllers))
	for i := range overflow {
		overflow[i] = newOverflowQueue()
	}

	ms := &MemorySystem{
		controllers:   cfg.Controllers,
		dram:          cfg.DRAM,
		queueCapacity: cap,
		logger:        cfg.Logger,
		observer:      cfg.Observer,
		cfr:           newCFRStore(),
		overflow:      overflow,
	}
	return ms
}

// channelCount returns the number of wired controllers.
func (ms *MemorySystem) channelCount() int {
	return len(ms.controllers)
}

// Send accepts req for later decode, or rejects it if the host queue is at
// capacity (spec §4.3).
func (ms *MemorySystem) Send(req *Request) bool {
	if len(ms.queue) >= ms.queueCapacity {
		ms.observer.ObserveSend(false)
		return false
	}

	switch req.Type {
	case TypeRead, TypeWrite:
		ms.observer.ObserveTypeRegion(req.Type.String(), req.Region.String())
	case TypeAIM:
		ms.observer.ObserveOpcode(req.Opcode.String())
	}

	ms.queue = append(ms.queue, req)
	ms.observer.ObserveSend(true)
	return true
}

// Tick advances the memory system by one clock (spec §4.4). It returns any
// fatal Configuration error encountered while decoding; the caller is
// expected to abort the simulation on a non-nil return, per spec §7.
func (ms *MemorySystem) Tick() error {
	ms.observer.ObserveTick()

	wasRemaining, isRemaining := ms.drainOverflow()

	// Phase 2: completion of the drained host request.
	if ms.stalledAiMRequests == 0 && wasRemaining && !isRemaining {
		ms.popHead()
		ms.advanceClocks()
		return nil
	}

	// Phase 3: decode head.
	var decodeErr error
	decoded := false
	if ms.stalledAiMRequests == 0 && !wasRemaining && len(ms.queue) > 0 {
		decodeErr = ms.decodeHead()
		decoded = true
	}

	// Phase 4: same-tick pop. headFullyDispatched is only meaningful
	// immediately after decodeHead ran this tick; it is not consulted
	// otherwise so a stale value from an earlier tick can never leak in.
	if decoded && decodeErr == nil && ms.stalledAiMRequests == 0 && len(ms.queue) > 0 && ms.headFullyDispatched {
		ms.popHead()
	}

	ms.advanceClocks()
	return decodeErr
}

// advanceClocks implements Phase 5.
func (ms *MemorySystem) advanceClocks() {
	ms.clk++
	if ms.dram != nil {
		ms.dram.Tick()
	}
	for _, c := range ms.controllers {
		c.Tick()
	}
}

// drainOverflow implements Phase 1, returning (wasRemaining, isRemaining).
func (ms *MemorySystem) drainOverflow() (bool, bool) {
	wasRemaining := false
	for i := range ms.overflow {
		if !ms.overflow[i].empty() {
			wasRemaining = true
			break
		}
	}

	for c := 0; c < len(ms.overflow); c++ {
		for !ms.overflow[c].empty() {
			cmd := ms.overflow[c].front()
			if ms.controllers[c].Send(cmd) {
				ms.overflow[c].pop()
				continue
			}
			break
		}
	}

	isRemaining := false
	for i := range ms.overflow {
		if !ms.overflow[i].empty() {
			isRemaining = true
			break
		}
	}
	return wasRemaining, isRemaining
}

// popHead invokes the head request's callback (if any) and removes it from
// the queue.
func (ms *MemorySystem) popHead() {
	if len(ms.queue) == 0 {
		return
	}
	head := ms.queue[0]
	ms.queue = ms.queue[1:]
	if head.Callback != nil {
		head.Callback(head)
	}
}

// Receive is the completion entry point for controllers (spec §4.6),
// typically invoked synchronously from within a controller's Tick while
// this memory system's own Tick is on the call stack.
func (ms *MemorySystem) Receive(req *Request) error {
	if len(ms.queue) == 0 || ms.queue[0].HostReqID != req.HostReqID {
		return NewConfigurationError("memorysystem", "receive", "completion host_req_id does not match queue head")
	}

	ms.stalledAiMRequests--
	if ms.stalledAiMRequests == 0 {
		ms.popHead()
	}
	return nil
}

// channelIndices returns the ascending channel indices set in mask,
// validating that no bit above bit 7 is set (spec §9 open question:
// masks above MAX_CHANNEL_COUNT are rejected rather than silently
// mishandled).
func channelIndices(mask int) ([]int, error) {
	if mask>>constants.MaxChannelCount != 0 {
		return nil, NewConfigurationError("memorysystem", "decode", "channel mask sets a bit above MAX_CHANNEL_COUNT")
	}
	var out []int
	m := mask
	for m != 0 {
		lowest := m & -m
		out = append(out, bits.TrailingZeros(uint(lowest)))
		m &^= lowest
	}
	return out, nil
}

func popcount(mask int) int {
	return bits.OnesCount(uint(mask))
}
