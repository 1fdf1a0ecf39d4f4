package ramulator

import "sync/atomic"

// Metrics tracks the monotone statistics spec §6 requires the memory
// system to expose, at the same per-opcode and per-(type,region)
// granularity the original source registers (spec §10.6): one counter per
// AiM opcode, one per (type, region) pair, plus the aggregate counters.
type Metrics struct {
	Cycles          atomic.Uint64
	ISRQueueFull    atomic.Uint64
	WaitReadStalls  atomic.Uint64

	typeRegion map[typeRegionKey]*atomic.Uint64
	opcode     map[Opcode]*atomic.Uint64
}

type typeRegionKey struct {
	t Type
	r Region
}

// NewMetrics creates a zeroed Metrics instance with every counter
// pre-registered so Snapshot() always reports a complete set, matching the
// original source's init()-time stat registration.
func NewMetrics() *Metrics {
	m := &Metrics{
		typeRegion: make(map[typeRegionKey]*atomic.Uint64),
		opcode:     make(map[Opcode]*atomic.Uint64),
	}
	for _, t := range []Type{TypeRead, TypeWrite} {
		for _, r := range []Region{RegionGPR, RegionCFR, RegionMEM} {
			m.typeRegion[typeRegionKey{t, r}] = &atomic.Uint64{}
		}
	}
	for op := range opcodeNames {
		m.opcode[op] = &atomic.Uint64{}
	}
	return m
}

func (m *Metrics) recordTypeRegion(t Type, r Region) {
	if c, ok := m.typeRegion[typeRegionKey{t, r}]; ok {
		c.Add(1)
	}
}

func (m *Metrics) recordOpcode(op Opcode) {
	if c, ok := m.opcode[op]; ok {
		c.Add(1)
	}
}

// MetricsSnapshot is a point-in-time, plain-struct view of Metrics for
// programmatic consumption (the CLI's end-of-run summary table, tests).
type MetricsSnapshot struct {
	Cycles         uint64
	ISRQueueFull   uint64
	WaitReadStalls uint64
	TypeRegion     map[string]uint64
	Opcode         map[string]uint64
}

// Snapshot returns a consistent-enough snapshot of all counters. Exact
// atomicity across counters is not guaranteed (matching the original's
// plain-integer stats, which carry the same property under a
// single-threaded scheduler); each individual counter is read atomically.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Cycles:         m.Cycles.Load(),
		ISRQueueFull:   m.ISRQueueFull.Load(),
		WaitReadStalls: m.WaitReadStalls.Load(),
		TypeRegion:     make(map[string]uint64, len(m.typeRegion)),
		Opcode:         make(map[string]uint64, len(m.opcode)),
	}
	for k, v := range m.typeRegion {
		snap.TypeRegion[k.t.String()+"_"+k.r.String()] = v.Load()
	}
	for k, v := range m.opcode {
		snap.Opcode[k.String()] = v.Load()
	}
	return snap
}

// Observer receives the memory system's events (Config.Observer).
// MetricsObserver records them into a Metrics; NoOpObserver discards them.
type Observer interface {
	ObserveSend(accepted bool)
	ObserveTick()
	ObserveReject(channel int)
	ObserveOpcode(opcode string)
	ObserveTypeRegion(t, region string)
	ObserveWaitStall()
}

// NoOpObserver discards every event.
type NoOpObserver struct{}

func (NoOpObserver) ObserveSend(bool)                 {}
func (NoOpObserver) ObserveTick()                     {}
func (NoOpObserver) ObserveReject(int)                {}
func (NoOpObserver) ObserveOpcode(string)             {}
func (NoOpObserver) ObserveTypeRegion(string, string) {}
func (NoOpObserver) ObserveWaitStall()                {}

// MetricsObserver implements Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
	sends   atomic.Uint64
	rejects atomic.Uint64
}

// NewMetricsObserver creates an observer that records onto m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveSend(accepted bool) {
	o.sends.Add(1)
	if !accepted {
		o.metrics.ISRQueueFull.Add(1)
	}
}

func (o *MetricsObserver) ObserveTick() {
	o.metrics.Cycles.Add(1)
}

func (o *MetricsObserver) ObserveReject(channel int) {
	o.rejects.Add(1)
}

func (o *MetricsObserver) ObserveOpcode(opcode string) {
	for op, name := range opcodeNames {
		if name == opcode {
			o.metrics.recordOpcode(op)
			return
		}
	}
}

func (o *MetricsObserver) ObserveTypeRegion(t, region string) {
	var typ Type
	switch t {
	case TypeRead.String():
		typ = TypeRead
	case TypeWrite.String():
		typ = TypeWrite
	default:
		return
	}
	var reg Region
	switch region {
	case RegionGPR.String():
		reg = RegionGPR
	case RegionCFR.String():
		reg = RegionCFR
	case RegionMEM.String():
		reg = RegionMEM
	default:
		return
	}
	o.metrics.recordTypeRegion(typ, reg)
}

func (o *MetricsObserver) ObserveWaitStall() {
	o.metrics.WaitReadStalls.Add(1)
}

var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
