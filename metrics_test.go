package ramulator

import "testing"

func TestMetrics_SnapshotStartsAtZero(t *testing.T) {
	m := NewMetrics()
	snap := m.Snapshot()

	if snap.Cycles != 0 || snap.ISRQueueFull != 0 || snap.WaitReadStalls != 0 {
		t.Errorf("expected all-zero snapshot, got %+v", snap)
	}
	if len(snap.TypeRegion) != 6 {
		t.Errorf("expected 6 pre-registered (type,region) counters, got %d", len(snap.TypeRegion))
	}
	if len(snap.Opcode) != len(opcodeNames) {
		t.Errorf("expected %d pre-registered opcode counters, got %d", len(opcodeNames), len(snap.Opcode))
	}
}

func TestMetricsObserver_ObserveSendTracksQueueFull(t *testing.T) {
	m := NewMetrics()
	o := NewMetricsObserver(m)

	o.ObserveSend(true)
	o.ObserveSend(false)
	o.ObserveSend(false)

	snap := m.Snapshot()
	if snap.ISRQueueFull != 2 {
		t.Errorf("ISRQueueFull = %d, want 2", snap.ISRQueueFull)
	}
}

func TestMetricsObserver_ObserveTickIncrementsCycles(t *testing.T) {
	m := NewMetrics()
	o := NewMetricsObserver(m)

	for i := 0; i < 5; i++ {
		o.ObserveTick()
	}

	if snap := m.Snapshot(); snap.Cycles != 5 {
		t.Errorf("Cycles = %d, want 5", snap.Cycles)
	}
}

func TestMetricsObserver_ObserveOpcodeRecordsByName(t *testing.T) {
	m := NewMetrics()
	o := NewMetricsObserver(m)

	o.ObserveOpcode(ISR_WR_SBK.String())
	o.ObserveOpcode(ISR_WR_SBK.String())
	o.ObserveOpcode(ISR_EOC.String())

	snap := m.Snapshot()
	if snap.Opcode[ISR_WR_SBK.String()] != 2 {
		t.Errorf("Opcode[ISR_WR_SBK] = %d, want 2", snap.Opcode[ISR_WR_SBK.String()])
	}
	if snap.Opcode[ISR_EOC.String()] != 1 {
		t.Errorf("Opcode[ISR_EOC] = %d, want 1", snap.Opcode[ISR_EOC.String()])
	}
}

func TestMetricsObserver_ObserveTypeRegionRecordsByPair(t *testing.T) {
	m := NewMetrics()
	o := NewMetricsObserver(m)

	o.ObserveTypeRegion(TypeRead.String(), RegionMEM.String())
	o.ObserveTypeRegion(TypeWrite.String(), RegionCFR.String())
	o.ObserveTypeRegion(TypeRead.String(), RegionMEM.String())

	snap := m.Snapshot()
	if got := snap.TypeRegion["Read_MEM"]; got != 2 {
		t.Errorf("TypeRegion[Read_MEM] = %d, want 2", got)
	}
	if got := snap.TypeRegion["Write_CFR"]; got != 1 {
		t.Errorf("TypeRegion[Write_CFR] = %d, want 1", got)
	}
}

func TestMetricsObserver_ObserveWaitStall(t *testing.T) {
	m := NewMetrics()
	o := NewMetricsObserver(m)

	o.ObserveWaitStall()
	o.ObserveWaitStall()

	if snap := m.Snapshot(); snap.WaitReadStalls != 2 {
		t.Errorf("WaitReadStalls = %d, want 2", snap.WaitReadStalls)
	}
}

func TestNoOpObserver_DoesNotPanic(t *testing.T) {
	o := NoOpObserver{}
	o.ObserveSend(true)
	o.ObserveTick()
	o.ObserveReject(0)
	o.ObserveOpcode("ISR_EOC")
	o.ObserveTypeRegion("Read", "MEM")
	o.ObserveWaitStall()
}
