package session

import (
	"encoding/binary"
	"errors"
	"io"
	"log/slog"

	"bsend/internal/logging"
	"bsend/internal/nonce"
	"bsend/internal/transport"
	"bsend/internal/wire"
)

// Sender drives the sending side of one session: it reads from src,
// performs the handshake, seals and transmits blocks, and runs the
// shutdown exchange. It never closes conn itself; the receiver owns
// the transport close.
type Sender struct {
	conn   transport.Conn
	key    []byte
	log    *logging.Session
	state  stateBox
	reader *wire.FrameReader
	writer *wire.FrameWriter

	seal  *wire.AEAD
	open  *wire.AEAD
	nonce *nonce.Generator

	block     []byte // reused BLOCK_SIZE+TagLen buffer
	bytesSent uint64
}

// NewSender builds a Sender over conn with the given pre-shared key.
// The AEAD instances and nonce generator are created during the
// handshake once the receiver's IV is known.
func NewSender(conn transport.Conn, key []byte, log *slog.Logger) *Sender {
	s := &Sender{
		conn:   conn,
		key:    key,
		log:    logging.NewSession(log, "sender"),
		reader: wire.NewFrameReader(connReader{conn}),
		writer: wire.NewFrameWriter(connWriter{conn}),
		block:  make([]byte, wire.BlockSize+wire.TagLen),
	}
	s.state.set(StateWaitHello)
	return s
}

// connReader and connWriter adapt transport.Conn's exact-size contract
// to io.Reader/io.Writer so wire.FrameReader/FrameWriter can use it
// directly; each Read/Write call fully satisfies its buffer.
type connReader struct{ c transport.Conn }

func (r connReader) Read(p []byte) (int, error) {
	if err := r.c.ReadExact(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

type connWriter struct{ c transport.Conn }

func (w connWriter) Write(p []byte) (int, error) {
	if err := w.c.WriteAll(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Run executes the full sender state machine: handshake, then transfer
// src to completion, then shutdown. It returns a *Error on any failure.
func (s *Sender) Run(src io.Reader) error {
	if err := s.handshake(); err != nil {
		return err
	}
	s.state.set(StateTransmit)
	s.log.HandshakeComplete(s.state.get().String())

	if err := s.transmit(src); err != nil {
		return err
	}
	s.state.set(StateWaitHangup)

	return s.shutdown()
}

func (s *Sender) handshake() error {
	// Step 1: send ReqIV.
	if err := s.writer.WriteMessage(wire.TypeReqIV, nil); err != nil {
		return wrap(KindTransport, err)
	}

	// Step 2: receive RepIV, extract iv.
	h, err := s.reader.ReadHeader()
	if err != nil {
		return wrap(KindTransport, err)
	}
	if h.Type != wire.TypeRepIV || h.Len != wire.IVSize {
		return wrap(KindUnexpectedMessage, errors.New("expected RepIV with 4-byte payload"))
	}
	ivBuf := make([]byte, wire.IVSize)
	if err := s.reader.ReadPayload(ivBuf); err != nil {
		return wrap(KindTransport, err)
	}
	iv := binary.BigEndian.Uint32(ivBuf)

	seal, err := wire.NewAEAD(s.key)
	if err != nil {
		return wrap(KindCrypto, err)
	}
	open, err := wire.NewAEAD(s.key)
	if err != nil {
		return wrap(KindCrypto, err)
	}
	s.seal = seal
	s.open = open
	s.nonce = nonce.New(iv)

	// Step 3: seal and send the magic Hello.
	magic := make([]byte, 4, 4+wire.TagLen)
	binary.BigEndian.PutUint32(magic, wire.Magic)
	magic = magic[:cap(magic)]
	sealedLen := s.seal.SealInPlace(s.nonce.Next(), magic, 4)
	if err := s.writer.WriteMessage(wire.TypeHello, magic[:sealedLen]); err != nil {
		return wrap(KindTransport, err)
	}

	// Step 4: receive and open the receiver's Hello.
	h, err = s.reader.ReadHeader()
	if err != nil {
		return wrap(KindTransport, err)
	}
	if h.Type != wire.TypeHello || h.Len != 4+wire.TagLen {
		return wrap(KindUnexpectedMessage, errors.New("expected Hello with sealed magic payload"))
	}
	helloBuf := make([]byte, h.Len)
	if err := s.reader.ReadPayload(helloBuf); err != nil {
		return wrap(KindTransport, err)
	}
	if _, err := s.open.OpenInPlace(s.nonce.Next(), helloBuf); err != nil {
		return wrap(KindCrypto, err)
	}

	return nil
}

func (s *Sender) transmit(src io.Reader) error {
	plaintext := s.block[:wire.BlockSize]

	for {
		n, readErr := io.ReadFull(src, plaintext)
		if n > 0 {
			sealedLen := s.seal.SealInPlace(s.nonce.Next(), s.block, n)
			if err := s.writer.WriteMessage(wire.TypeBlock, s.block[:sealedLen]); err != nil {
				return wrap(KindTransport, err)
			}
			s.bytesSent += uint64(n)
			s.log.BlockSent(n)
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
				return nil
			}
			return wrap(KindIO, readErr)
		}
	}
}

func (s *Sender) shutdown() error {
	if err := s.writer.WriteMessage(wire.TypeGoodbye, nil); err != nil {
		return wrap(KindTransport, err)
	}

	h, err := s.reader.ReadHeader()
	if err != nil {
		return wrap(KindTransport, err)
	}
	if h.Type != wire.TypeGoodbye || h.Len != 0 {
		return wrap(KindUnexpectedMessage, errors.New("expected Goodbye"))
	}

	s.log.Complete(s.bytesSent)
	return nil
}
