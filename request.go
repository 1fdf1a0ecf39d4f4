package ramulator

import "sync/atomic"

// Type is the top-level kind of a Request (spec §3).
type Type int

const (
	TypeRead Type = iota
	TypeWrite
	TypeAIM
)

func (t Type) String() string {
	switch t {
	case TypeRead:
		return "Read"
	case TypeWrite:
		return "Write"
	case TypeAIM:
		return "AIM"
	default:
		return "Unknown"
	}
}

// Region is the memory-access region of a Read/Write request (spec §3).
type Region int

const (
	RegionGPR Region = iota
	RegionCFR
	RegionMEM
)

func (r Region) String() string {
	switch r {
	case RegionGPR:
		return "GPR"
	case RegionCFR:
		return "CFR"
	case RegionMEM:
		return "MEM"
	default:
		return "Unknown"
	}
}

// aimReqIDCounter is the globally monotonic AiM_req_id source (spec
// invariant: "AiM_req_id is strictly monotonically increasing across the
// simulation"). It lives at package scope because a simulation may run
// several MemorySystem instances (e.g. in tests) that must still never
// collide on identifiers when compared against each other.
var aimReqIDCounter atomic.Int64

func nextAiMReqID() int64 {
	return aimReqIDCounter.Add(1)
}

// Callback is invoked exactly once when a Request's effects have fully
// committed. The decoder rewrites a command's Callback before offering it
// to a controller so that completion routes back through the memory
// system's receiver rather than straight to the host.
type Callback func(req *Request)

// Request is the unit of work flowing through the memory system: a host
// instruction before decode, or a per-channel command after fan-out.
type Request struct {
	Type   Type
	Opcode Opcode // meaningful only when Type == TypeAIM
	Region Region // meaningful only for Read/Write

	Addr int64 // linear host address (CFR addressing, bookkeeping)
	Data int64 // payload for CFR writes

	ChannelMask int // one-hot mask for AIM; raw channel index for MEM Read/Write (spec §9)
	BankIndex   int // -1 if absent
	RowAddr     int64
	ColAddr     int64
	OpSize      int // -1 treated as 1

	AFM       int64
	Broadcast int
	EwmulBG   int64

	HostReqID int64
	AiMReqID  int64

	AddrVec [5]int64 // [channel, bank_group, bank, row, column], -1 where inapplicable

	Callback Callback
}

// GetHostReqID / GetAiMReqID / Complete satisfy interfaces.Command so
// *Request can be offered to a controller without the controller package
// importing this one.
func (r *Request) GetHostReqID() int64 { return r.HostReqID }
func (r *Request) GetAiMReqID() int64  { return r.AiMReqID }

// Complete fires the command's callback, if any. A reference controller
// calls this once it has finished servicing the command; commands whose
// decode was non-blocking carry no callback and Complete is a no-op.
func (r *Request) Complete() {
	if r.Callback != nil {
		r.Callback(r)
	}
}

// Clone returns a shallow copy of r suitable for per-channel / per-iteration
// fan-out: every emitted command starts from the host request's fields and
// is then given its own AddrVec, AiMReqID, and Callback.
func (r *Request) Clone() *Request {
	c := getPooledRequest()
	*c = *r
	c.AddrVec = newAddrVec()
	return c
}

// newAddrVec returns the "inapplicable" sentinel vector.
func newAddrVec() [5]int64 {
	return [5]int64{-1, -1, -1, -1, -1}
}

// applyAddrMapping resolves the command's AddrVec for channel index c, per
// spec §4.5.
func applyAddrMapping(cmd *Request, channel int) {
	cmd.AddrVec[0] = int64(channel)
	if cmd.BankIndex == -1 {
		cmd.AddrVec[1] = -1
		cmd.AddrVec[2] = -1
	} else {
		cmd.AddrVec[1] = int64(cmd.BankIndex / 4)
		cmd.AddrVec[2] = int64(cmd.BankIndex % 4)
	}
	cmd.AddrVec[3] = cmd.RowAddr
	cmd.AddrVec[4] = cmd.ColAddr
}
