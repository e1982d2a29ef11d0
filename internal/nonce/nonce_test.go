package nonce

import (
	"encoding/binary"
	"testing"
)

func TestNextStartsAtCounterOne(t *testing.T) {
	g := New(0x12345678)
	n := g.Next()

	if gotIV := binary.BigEndian.Uint32(n[0:4]); gotIV != 0x12345678 {
		t.Errorf("iv = %#x, want %#x", gotIV, 0x12345678)
	}
	if gotCounter := binary.BigEndian.Uint64(n[4:12]); gotCounter != 1 {
		t.Errorf("counter = %d, want 1", gotCounter)
	}
}

func TestNextIsMonotonic(t *testing.T) {
	g := New(1)
	for want := uint64(1); want <= 10; want++ {
		n := g.Next()
		got := binary.BigEndian.Uint64(n[4:12])
		if got != want {
			t.Fatalf("Next() counter = %d, want %d", got, want)
		}
	}
	if g.Counter() != 10 {
		t.Errorf("Counter() = %d, want 10", g.Counter())
	}
}

func TestNextNeverRepeats(t *testing.T) {
	g := New(7)
	seen := make(map[[12]byte]bool)
	for i := 0; i < 1000; i++ {
		n := g.Next()
		if seen[n] {
			t.Fatalf("nonce %x repeated at iteration %d", n, i)
		}
		seen[n] = true
	}
}
