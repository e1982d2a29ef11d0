package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidHeader is returned when a header fails to decode.
var ErrInvalidHeader = errors.New("wire: invalid header")

// Header is the fixed 12-byte prefix of every wire message: a one-byte
// type discriminant, seven bytes of padding, and a big-endian four-byte
// payload length in bytes 8-11. 12 bytes was chosen to keep type and len
// independently aligned; the seven pad bytes are reserved and always zero.
type Header struct {
	Type MessageType
	Len  uint32
}

// Encode serializes h to its fixed 12-byte wire form.
func (h Header) Encode() [HeaderSize]byte {
	var buf [HeaderSize]byte
	buf[0] = byte(h.Type)
	binary.BigEndian.PutUint32(buf[8:12], h.Len)
	return buf
}

// DecodeHeader parses a 12-byte buffer into a Header. It rejects buffers
// of the wrong size and message types outside the legal set.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) != HeaderSize {
		return Header{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidHeader, HeaderSize, len(buf))
	}

	t := MessageType(buf[0])
	if !t.IsValid() {
		return Header{}, fmt.Errorf("%w: unknown message type %d", ErrInvalidHeader, buf[0])
	}

	return Header{
		Type: t,
		Len:  binary.BigEndian.Uint32(buf[8:12]),
	}, nil
}
