package session

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"

	"bsend/internal/logging"
	"bsend/internal/nonce"
	"bsend/internal/transport"
	"bsend/internal/wire"
)

// Receiver drives the receiving side of one session: it performs the
// handshake (choosing the session IV), opens and writes blocks to dst,
// and runs the shutdown exchange. It is the party that closes conn.
type Receiver struct {
	conn   transport.Conn
	key    []byte
	log    *logging.Session
	state  stateBox
	reader *wire.FrameReader
	writer *wire.FrameWriter

	seal  *wire.AEAD
	open  *wire.AEAD
	nonce *nonce.Generator

	block []byte // reused BLOCK_SIZE+TagLen buffer

	bytesWritten uint64
}

// NewReceiver builds a Receiver over conn with the given pre-shared key.
func NewReceiver(conn transport.Conn, key []byte, log *slog.Logger) *Receiver {
	r := &Receiver{
		conn:   conn,
		key:    key,
		log:    logging.NewSession(log, "receiver"),
		reader: wire.NewFrameReader(connReader{conn}),
		writer: wire.NewFrameWriter(connWriter{conn}),
		block:  make([]byte, wire.BlockSize+wire.TagLen),
	}
	r.state.set(StateWaitHello)
	return r
}

// Run executes the full receiver state machine: handshake, then write
// decrypted blocks to dst until Goodbye, then shutdown and close conn.
func (r *Receiver) Run(dst io.Writer) error {
	if err := r.handshake(); err != nil {
		return err
	}
	r.state.set(StateTransmit)
	r.log.HandshakeComplete(r.state.get().String())

	if err := r.transmit(dst); err != nil {
		return err
	}
	r.state.set(StateWaitHangup)

	if err := r.shutdown(); err != nil {
		return err
	}

	if err := r.conn.Close(); err != nil {
		return wrap(KindTransport, err)
	}
	return nil
}

func (r *Receiver) handshake() error {
	// Step 1: receive ReqIV.
	h, err := r.reader.ReadHeader()
	if err != nil {
		return wrap(KindTransport, err)
	}
	if h.Type != wire.TypeReqIV || h.Len != 0 {
		return wrap(KindUnexpectedMessage, errors.New("expected ReqIV"))
	}

	// Step 2: pick a random iv, send RepIV.
	var ivBuf [wire.IVSize]byte
	if _, err := rand.Read(ivBuf[:]); err != nil {
		return wrap(KindCrypto, err)
	}
	iv := binary.BigEndian.Uint32(ivBuf[:])
	if err := r.writer.WriteMessage(wire.TypeRepIV, ivBuf[:]); err != nil {
		return wrap(KindTransport, err)
	}

	seal, err := wire.NewAEAD(r.key)
	if err != nil {
		return wrap(KindCrypto, err)
	}
	open, err := wire.NewAEAD(r.key)
	if err != nil {
		return wrap(KindCrypto, err)
	}
	r.seal = seal
	r.open = open
	r.nonce = nonce.New(iv)

	// Step 3: receive and open the sender's Hello.
	h, err = r.reader.ReadHeader()
	if err != nil {
		return wrap(KindTransport, err)
	}
	if h.Type != wire.TypeHello || h.Len != 4+wire.TagLen {
		return wrap(KindUnexpectedMessage, errors.New("expected Hello with sealed magic payload"))
	}
	helloBuf := make([]byte, h.Len)
	if err := r.reader.ReadPayload(helloBuf); err != nil {
		return wrap(KindTransport, err)
	}
	if _, err := r.open.OpenInPlace(r.nonce.Next(), helloBuf); err != nil {
		return wrap(KindCrypto, err)
	}

	// Step 4: seal and send our own Hello.
	magic := make([]byte, 4, 4+wire.TagLen)
	binary.BigEndian.PutUint32(magic, wire.Magic)
	magic = magic[:cap(magic)]
	sealedLen := r.seal.SealInPlace(r.nonce.Next(), magic, 4)
	if err := r.writer.WriteMessage(wire.TypeHello, magic[:sealedLen]); err != nil {
		return wrap(KindTransport, err)
	}

	return nil
}

func (r *Receiver) transmit(dst io.Writer) error {
	for {
		h, err := r.reader.ReadHeader()
		if err != nil {
			return wrap(KindTransport, err)
		}

		switch h.Type {
		case wire.TypeGoodbye:
			if h.Len != 0 {
				return wrap(KindUnexpectedMessage, errors.New("Goodbye must have no payload"))
			}
			return nil
		case wire.TypeBlock:
			if h.Len > wire.MaxBlockFrameLen {
				return wrap(KindCodec, errors.New("block frame exceeds maximum length"))
			}
			buf := r.block[:h.Len]
			if err := r.reader.ReadPayload(buf); err != nil {
				return wrap(KindTransport, err)
			}
			plaintext, err := r.open.OpenInPlace(r.nonce.Next(), buf)
			if err != nil {
				return wrap(KindCrypto, err)
			}
			if _, err := dst.Write(plaintext); err != nil {
				return wrap(KindIO, err)
			}
			r.bytesWritten += uint64(len(plaintext))
			r.log.BlockReceived(len(plaintext))
		default:
			return wrap(KindUnexpectedMessage, errors.New("unexpected message type in Transmit"))
		}
	}
}

func (r *Receiver) shutdown() error {
	if err := r.writer.WriteMessage(wire.TypeGoodbye, nil); err != nil {
		return wrap(KindTransport, err)
	}

	r.log.Complete(r.bytesWritten)
	return nil
}
