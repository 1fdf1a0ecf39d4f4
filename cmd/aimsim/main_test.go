package main

import (
	"testing"

	ramulator "github.com/arkhadem/ramulator2"
	"github.com/arkhadem/ramulator2/internal/controller"
	"github.com/arkhadem/ramulator2/internal/dram"
	"github.com/arkhadem/ramulator2/internal/interfaces"
)

// TestSyntheticStream_DrainsWithoutFatalError exercises the same
// stream/wiring shape runSimulation uses and would have caught opcodes in
// syntheticStream that violate their own isr.go descriptor (e.g. a
// channelCountEqOne opcode offered with a multi-bit mask), which Tick
// reports as a fatal Configuration error and the real CLI treats as a
// reason to abort instead of draining the stream.
func TestSyntheticStream_DrainsWithoutFatalError(t *testing.T) {
	const channelCount = 4

	controllers := make([]interfaces.Controller, channelCount)
	for i := range controllers {
		controllers[i] = controller.New(controller.Config{})
	}
	ms := ramulator.NewMemorySystem(ramulator.Config{
		Controllers: controllers,
		DRAM:        dram.New(dram.Config{ChannelCount: channelCount}),
	})

	stream := syntheticStream(channelCount)
	pending := len(stream)
	for _, req := range stream {
		req := req
		req.Callback = func(*ramulator.Request) { pending-- }
		if !ms.Send(req) {
			t.Fatalf("host queue rejected a synthetic request")
		}
	}

	const maxTicks = 10_000
	ticks := 0
	for ; ticks < maxTicks && pending > 0; ticks++ {
		if err := ms.Tick(); err != nil {
			t.Fatalf("tick %d: %v", ticks, err)
		}
	}
	if pending > 0 {
		t.Fatalf("synthetic stream did not drain after %d ticks, %d requests still pending", maxTicks, pending)
	}
}
