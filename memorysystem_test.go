package ramulator

import (
	"testing"

	"github.com/arkhadem/ramulator2/internal/controller"
	"github.com/arkhadem/ramulator2/internal/interfaces"
)

// newSimpleSystem builds a MemorySystem over channelCount StubControllers,
// each with unlimited capacity, and a StubDRAM of matching channel count.
// StubControllers retire their oldest pending command on every Tick (no
// configurable latency), so scenarios that only care about accept/reject
// shape use this.
func newSimpleSystem(channelCount int) (*MemorySystem, []*StubController) {
	return newSimpleSystemWithCapacity(channelCount, 0)
}

func newSimpleSystemWithCapacity(channelCount, queueCapacity int) (*MemorySystem, []*StubController) {
	stubs := make([]*StubController, channelCount)
	controllers := make([]interfaces.Controller, channelCount)
	for i := range stubs {
		stubs[i] = NewStubController(0)
		controllers[i] = stubs[i]
	}
	ms := NewMemorySystem(Config{
		Controllers:   controllers,
		DRAM:          NewStubDRAM(channelCount),
		QueueCapacity: queueCapacity,
	})
	return ms, stubs
}

// newLatentSystem builds a MemorySystem over channelCount reference
// controllers with a two-tick retirement latency, so a blocking command's
// accept and retire are observably on different memory-system ticks.
func newLatentSystem(channelCount int) (*MemorySystem, []*controller.Controller) {
	refs := make([]*controller.Controller, channelCount)
	controllers := make([]interfaces.Controller, channelCount)
	for i := range refs {
		refs[i] = controller.New(controller.Config{Latency: 2})
		controllers[i] = refs[i]
	}
	ms := NewMemorySystem(Config{
		Controllers: controllers,
		DRAM:        NewStubDRAM(channelCount),
	})
	return ms, refs
}

func TestScenario1_SingleChannelWriteThenRead(t *testing.T) {
	ms, controllers := newLatentSystem(1)

	writeDone := false
	ms.Send(&Request{
		Type: TypeWrite, Region: RegionMEM, ChannelMask: 0,
		RowAddr: 5, ColAddr: 0,
		Callback: func(*Request) { writeDone = true },
	})
	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !writeDone {
		t.Error("expected the non-blocking write to pop on the same tick its command was accepted")
	}

	readDone := false
	ms.Send(&Request{
		Type: TypeRead, Region: RegionMEM, ChannelMask: 0,
		RowAddr: 5, ColAddr: 0,
		Callback: func(*Request) { readDone = true },
	})
	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if readDone {
		t.Error("expected the blocking read to not pop until the controller retires it")
	}
	if occ := controllers[0].Occupancy(); occ != 1 {
		t.Errorf("expected one in-flight command on channel 0, got %d", occ)
	}
	if err := ms.Tick(); err != nil { // controller's 2-tick latency elapses here
		t.Fatalf("tick: %v", err)
	}
	if !readDone {
		t.Error("expected the blocking read to pop once the controller retired its command")
	}
}

func TestScenario2_CFRRoundTrip(t *testing.T) {
	ms, controllers := newSimpleSystem(1)

	cfrDone := false
	ms.Send(&Request{Type: TypeWrite, Region: RegionCFR, Addr: int64(CFRBroadcast), Data: 1, Callback: func(*Request) { cfrDone = true }})
	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !cfrDone {
		t.Error("expected CFR write to pop in one tick with no controller traffic")
	}
	if controllers[0].SendCalls() != 0 {
		t.Errorf("expected no controller traffic for a CFR write, got %d sends", controllers[0].SendCalls())
	}

	ms.Send(&Request{Type: TypeAIM, Opcode: ISR_MAC_SBK, ChannelMask: 1, BankIndex: 0, RowAddr: 0, ColAddr: 0})
	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if controllers[0].SendCalls() != 1 {
		t.Fatalf("expected the MAC command to reach channel 0, got %d sends", controllers[0].SendCalls())
	}
}

func TestScenario3_OpsizeFanOut(t *testing.T) {
	ms, controllers := newSimpleSystem(3)

	ms.Send(&Request{
		Type: TypeAIM, Opcode: ISR_WR_SBK,
		ChannelMask: 0b00000101, OpSize: 3, ColAddr: 10, BankIndex: 0, RowAddr: 0,
	})
	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if controllers[1].SendCalls() != 0 {
		t.Errorf("channel 1 not in the mask, expected zero sends, got %d", controllers[1].SendCalls())
	}
	if controllers[0].SendCalls() != 3 || controllers[2].SendCalls() != 3 {
		t.Fatalf("expected 3 commands to channels 0 and 2 each, got ch0=%d ch2=%d", controllers[0].SendCalls(), controllers[2].SendCalls())
	}
}

func TestScenario4_Backpressure(t *testing.T) {
	ms, controllers := newSimpleSystem(8)
	controllers[3].RejectAll = true

	popped := false
	ms.Send(&Request{
		Type: TypeAIM, Opcode: ISR_WR_ABK, ChannelMask: 0xFF, RowAddr: 0, ColAddr: 0,
		Callback: func(*Request) { popped = true },
	})
	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if popped {
		t.Error("expected the host request to remain queued while channel 3 still holds an overflow entry")
	}
	if controllers[3].Pending() != 0 {
		t.Error("channel 3 rejects everything; it should hold nothing")
	}

	controllers[3].RejectAll = false
	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !popped {
		t.Error("expected the overflow entry to drain and the (non-blocking) host request to pop once channel 3 accepts")
	}
}

func TestScenario5_BlockingAccounting(t *testing.T) {
	ms, controllers := newLatentSystem(4)

	popped := false
	ms.Send(&Request{Type: TypeAIM, Opcode: ISR_EOC, Callback: func(*Request) { popped = true }})
	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if popped {
		t.Error("ISR_EOC is blocking on every channel; should not pop before any retire")
	}
	for _, c := range controllers {
		if occ := c.Occupancy(); occ != 1 {
			t.Errorf("expected one in-flight EOC command per channel, got %d", occ)
		}
	}

	if err := ms.Tick(); err != nil { // every channel's 2-tick latency elapses here
		t.Fatalf("tick: %v", err)
	}
	if !popped {
		t.Error("expected the host request to pop once all four channels retired their EOC command")
	}
}

func TestScenario6_QueueFullRejection(t *testing.T) {
	ms, _ := newSimpleSystemWithCapacity(1, 2)

	if !ms.Send(&Request{Type: TypeWrite, Region: RegionGPR}) {
		t.Fatal("expected first send to be accepted")
	}
	if !ms.Send(&Request{Type: TypeWrite, Region: RegionGPR}) {
		t.Fatal("expected second send to be accepted, queue at capacity but not over")
	}
	if ms.Send(&Request{Type: TypeWrite, Region: RegionGPR}) {
		t.Fatal("expected third send to be rejected, queue at capacity")
	}
}

func TestQueueCapacity_IncrementsISRQueueFullByExactlyOne(t *testing.T) {
	m := NewMetrics()
	o := NewMetricsObserver(m)
	ms, _ := newSimpleSystemWithCapacity(1, 1)
	ms.observer = o

	ms.Send(&Request{Type: TypeWrite, Region: RegionGPR})
	ms.Send(&Request{Type: TypeWrite, Region: RegionGPR})

	if snap := m.Snapshot(); snap.ISRQueueFull != 1 {
		t.Errorf("ISRQueueFull = %d, want 1", snap.ISRQueueFull)
	}
}

func TestLaw_IdempotentRetryLeavesStateUnchangedExceptTick(t *testing.T) {
	ms, controllers := newSimpleSystem(1)
	controllers[0].RejectAll = true

	ms.Send(&Request{Type: TypeAIM, Opcode: ISR_WR_ABK, ChannelMask: 1, RowAddr: 0, ColAddr: 0})
	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	before := controllers[0].Pending()

	if err := ms.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	after := controllers[0].Pending()

	if before != 0 || after != 0 {
		t.Errorf("a fully-rejecting controller should never report pending commands, got before=%d after=%d", before, after)
	}
	if controllers[0].SendCalls() < 2 {
		t.Error("expected the overflow entry to be retried on the following tick")
	}
}
