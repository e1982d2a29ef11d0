// Package nonce derives the per-operation AEAD nonce from a session's IV
// and a shared monotonic counter.
package nonce

import (
	"encoding/binary"

	"bsend/internal/wire"
)

// Generator produces the nonce sequence for one session: a single
// counter sequence shared by both endpoints, with no direction bit.
// Sender and receiver advance in lockstep — the k-th seal call on one
// side pairs with the k-th open call on the other.
type Generator struct {
	iv      uint32
	counter uint64
}

// New creates a Generator for the given session IV. The counter starts
// at 0 and is pre-incremented on the first call to Next, so the first
// nonce emitted uses counter=1.
func New(iv uint32) *Generator {
	return &Generator{iv: iv}
}

// Next increments the counter and returns the next nonce: the 4-byte
// big-endian IV followed by the 8-byte big-endian counter.
func (g *Generator) Next() wire.Nonce {
	g.counter++

	var n wire.Nonce
	binary.BigEndian.PutUint32(n[0:4], g.iv)
	binary.BigEndian.PutUint64(n[4:12], g.counter)
	return n
}

// Counter returns the current counter value, mainly for tests asserting
// lockstep advancement between sender and receiver.
func (g *Generator) Counter() uint64 {
	return g.counter
}
