package ramulator

import (
	"errors"
	"fmt"
)

// Kind categorizes an Error per the three error kinds the decoder
// distinguishes: fatal configuration problems, recoverable backpressure
// signals, and informational conditions that are logged and dropped.
type Kind string

const (
	KindConfiguration  Kind = "configuration"
	KindBackpressure   Kind = "backpressure"
	KindInformational  Kind = "informational"
)

// Error is the structured error type returned by the memory system's
// decode and receive paths and by the CFR store.
type Error struct {
	Op        string // operation that failed, e.g. "send", "tick", "receive"
	Component string // component that raised it, e.g. "memorysystem", "cfr"
	Kind      Kind
	Msg       string
	Inner     error
}

func (e *Error) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("ramulator: %s: %s: %s", e.Component, e.Op, e.Msg)
	}
	return fmt.Sprintf("ramulator: %s: %s", e.Op, e.Msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is compares errors by Kind, so callers can write
// errors.Is(err, ramulator.ErrConfiguration) without matching the message.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if te, ok := target.(*Error); ok {
		return e.Kind == te.Kind
	}
	return false
}

// Sentinel Errors usable with errors.Is to check a returned error's Kind.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrBackpressure  = &Error{Kind: KindBackpressure}
	ErrInformational = &Error{Kind: KindInformational}
)

// NewConfigurationError builds a fatal configuration error.
func NewConfigurationError(component, op, msg string) *Error {
	return &Error{Component: component, Op: op, Kind: KindConfiguration, Msg: msg}
}

// NewBackpressureError builds a recoverable backpressure error. It is used
// only where the caller needs an error value (e.g. a host-queue-full
// report to a caller that wants the reason); the controller offer path
// itself uses a plain bool per spec §6, never an error, to keep the hot
// path allocation-free.
func NewBackpressureError(component, op, msg string) *Error {
	return &Error{Component: component, Op: op, Kind: KindBackpressure, Msg: msg}
}

// NewInformationalError builds a non-fatal, logged-and-dropped error.
func NewInformationalError(component, op, msg string) *Error {
	return &Error{Component: component, Op: op, Kind: KindInformational, Msg: msg}
}

// WrapError wraps an existing error with component/op context, preserving
// its Kind if it is already a structured Error.
func WrapError(component, op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	var e *Error
	if errors.As(inner, &e) {
		return &Error{Component: component, Op: op, Kind: e.Kind, Msg: e.Msg, Inner: inner}
	}
	return &Error{Component: component, Op: op, Kind: KindConfiguration, Msg: inner.Error(), Inner: inner}
}

// IsKind reports whether err is a structured Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
