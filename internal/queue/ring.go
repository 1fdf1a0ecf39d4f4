// Package queue provides a bounded FIFO of in-flight commands for the
// reference controller (spec §4.8). It plays the role the teacher's queue
// package gives its per-tag depth tracking: a fixed-capacity holding area
// the controller drains on its own schedule rather than the caller's.
package queue

import "github.com/arkhadem/ramulator2/internal/interfaces"

// Ring is a fixed-capacity FIFO of interfaces.Command. It is not safe for
// concurrent use; the reference controller that owns one holds its own
// mutex around every access.
type Ring struct {
	depth   int
	pending []interfaces.Command
}

// NewRing constructs a Ring that holds at most depth in-flight commands.
func NewRing(depth int) *Ring {
	if depth <= 0 {
		depth = 1
	}
	return &Ring{depth: depth}
}

// Full reports whether the ring is at capacity.
func (r *Ring) Full() bool {
	return len(r.pending) >= r.depth
}

// Len returns the number of commands currently held.
func (r *Ring) Len() int {
	return len(r.pending)
}

// Depth returns the ring's configured capacity.
func (r *Ring) Depth() int {
	return r.depth
}

// Push appends cmd, returning false if the ring is already full.
func (r *Ring) Push(cmd interfaces.Command) bool {
	if r.Full() {
		return false
	}
	r.pending = append(r.pending, cmd)
	return true
}

// Front returns the oldest command without removing it, or nil if empty.
func (r *Ring) Front() interfaces.Command {
	if len(r.pending) == 0 {
		return nil
	}
	return r.pending[0]
}

// Pop removes and returns the oldest command, or nil if empty.
func (r *Ring) Pop() interfaces.Command {
	if len(r.pending) == 0 {
		return nil
	}
	cmd := r.pending[0]
	r.pending = r.pending[1:]
	return cmd
}
