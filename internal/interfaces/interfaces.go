// Package interfaces provides internal interface definitions shared
// between the memory-system core and its reference collaborators. They are
// kept separate from the root package to avoid import cycles between the
// core, internal/controller, and internal/dram.
package interfaces

// Command is the minimal shape the memory-system core needs from a decoded
// per-channel command in order to offer it to a controller. It is
// satisfied by the root package's *Request.
type Command interface {
	// GetHostReqID is the host request this command was derived from.
	GetHostReqID() int64
	// GetAiMReqID is the decoder-assigned monotonic command identifier.
	GetAiMReqID() int64
	// Complete fires the command's completion callback, if any. A
	// controller calls this once the command has finished servicing.
	Complete()
}

// Controller is the contract a per-channel DRAM controller collaborator
// must satisfy (spec §6 "Outbound to controllers").
type Controller interface {
	// Send offers a command for acceptance; false means the caller must
	// retry the same command on a later tick (overflow).
	Send(cmd Command) bool
	// Tick advances the controller by one memory-system clock.
	Tick()
}

// DRAM is the contract for the device-level collaborator queried at
// construction and ticked once per memory-system clock (spec §6).
type DRAM interface {
	Tick()
	LevelSize(level string) int
	Timing(name string) float64
}

