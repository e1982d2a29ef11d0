// Package transport adapts a single QUIC connection into the blocking,
// byte-oriented read/write pair the session state machines need. QUIC
// supplies connection establishment, retransmission, and congestion
// control over UDP; this package hides its stream/connection lifecycle
// behind a plain Conn.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/quic-go/quic-go"
)

// ALPNProtocol is the single ALPN identifier negotiated on every QUIC
// handshake performed by this package.
const ALPNProtocol = "bsend/1"

// DefaultIdleTimeout is used when no idle timeout is configured.
const DefaultIdleTimeout = 30 * time.Second

// Conn is a blocking, bidirectional byte stream over one QUIC stream of
// one QUIC connection: read exactly N bytes, write all N bytes, close.
type Conn interface {
	// ReadExact fills buf completely or returns an error. It loops over
	// short reads so callers never see partial-message semantics.
	ReadExact(buf []byte) error

	// WriteAll writes every byte of buf, looping over partial writes.
	WriteAll(buf []byte) error

	// Close shuts the underlying stream and connection down.
	Close() error
}

type quicConn struct {
	conn   quic.Connection
	stream quic.Stream
}

func (c *quicConn) ReadExact(buf []byte) error {
	_, err := io.ReadFull(c.stream, buf)
	if err != nil {
		return fmt.Errorf("transport: read: %w", err)
	}
	return nil
}

func (c *quicConn) WriteAll(buf []byte) error {
	for len(buf) > 0 {
		n, err := c.stream.Write(buf)
		if err != nil {
			return fmt.Errorf("transport: write: %w", err)
		}
		buf = buf[n:]
	}
	return nil
}

func (c *quicConn) Close() error {
	var errs []error
	if err := c.stream.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.conn.CloseWithError(0, "session closed"); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Connect dials address and opens the session's one bidirectional
// stream. This is the sender side of the transport bootstrap.
func Connect(ctx context.Context, address string, idleTimeout time.Duration) (Conn, error) {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true, // the pre-shared AEAD key authenticates the peer, not this certificate
		NextProtos:         []string{ALPNProtocol},
		MinVersion:         tls.VersionTLS13,
	}
	quicConfig := &quic.Config{
		MaxIdleTimeout:  idleTimeout,
		KeepAlivePeriod: idleTimeout / 2,
	}

	conn, err := quic.DialAddr(ctx, address, tlsConfig, quicConfig)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", address, err)
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "stream open failed")
		return nil, fmt.Errorf("transport: open stream: %w", err)
	}

	return &quicConn{conn: conn, stream: stream}, nil
}

// BindAndAccept listens on address, accepts exactly one peer connection
// and that connection's one stream, then stops listening. It is the
// receiver side of the transport bootstrap; backlog is implicitly 1
// because this tool never serves more than one session per listener.
func BindAndAccept(ctx context.Context, address string, cert tls.Certificate, idleTimeout time.Duration) (Conn, error) {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{ALPNProtocol},
		MinVersion:   tls.VersionTLS13,
	}
	quicConfig := &quic.Config{
		MaxIdleTimeout:  idleTimeout,
		KeepAlivePeriod: idleTimeout / 2,
	}

	listener, err := quic.ListenAddr(address, tlsConfig, quicConfig)
	if err != nil {
		return nil, fmt.Errorf("transport: listen %s: %w", address, err)
	}
	defer func() { _ = listener.Close() }()

	conn, err := listener.Accept(ctx)
	if err != nil {
		return nil, fmt.Errorf("transport: accept: %w", err)
	}

	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "stream accept failed")
		return nil, fmt.Errorf("transport: accept stream: %w", err)
	}

	return &quicConn{conn: conn, stream: stream}, nil
}
