package session

import "sync/atomic"

// State is one of the three states shared by both peers' state machines.
type State int32

const (
	StateWaitHello State = iota
	StateTransmit
	StateWaitHangup
)

func (s State) String() string {
	switch s {
	case StateWaitHello:
		return "WaitHello"
	case StateTransmit:
		return "Transmit"
	case StateWaitHangup:
		return "WaitHangup"
	default:
		return "Unknown"
	}
}

// stateBox stores a State atomically so a session's current state can be
// read from a logging call on another goroutine without a data race.
type stateBox struct {
	v atomic.Int32
}

func (b *stateBox) set(s State) {
	b.v.Store(int32(s))
}

func (b *stateBox) get() State {
	return State(b.v.Load())
}
