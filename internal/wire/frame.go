package wire

import (
	"fmt"
	"io"
)

// FrameReader reads headers and payloads from an io.Reader, looping over
// short reads so callers never observe partial-message semantics.
type FrameReader struct {
	r      io.Reader
	header [HeaderSize]byte
}

// NewFrameReader wraps r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// ReadHeader reads and decodes the next 12-byte header.
func (fr *FrameReader) ReadHeader() (Header, error) {
	if _, err := io.ReadFull(fr.r, fr.header[:]); err != nil {
		return Header{}, fmt.Errorf("wire: read header: %w", err)
	}
	return DecodeHeader(fr.header[:])
}

// ReadPayload reads exactly len(buf) bytes of payload following a header.
func (fr *FrameReader) ReadPayload(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if _, err := io.ReadFull(fr.r, buf); err != nil {
		return fmt.Errorf("wire: read payload: %w", err)
	}
	return nil
}

// FrameWriter writes headers and payloads to an io.Writer.
type FrameWriter struct {
	w io.Writer
}

// NewFrameWriter wraps w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteMessage writes a header for (msgType, len(payload)) followed by
// payload, as a single logical message.
func (fw *FrameWriter) WriteMessage(msgType MessageType, payload []byte) error {
	h := Header{Type: msgType, Len: uint32(len(payload))}
	buf := h.Encode()

	if _, err := fw.w.Write(buf[:]); err != nil {
		return fmt.Errorf("wire: write header: %w", err)
	}
	if len(payload) > 0 {
		if _, err := fw.w.Write(payload); err != nil {
			return fmt.Errorf("wire: write payload: %w", err)
		}
	}
	return nil
}
