//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/x/netcore/conn.go
//

package relay

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bassosimone/safeconn"
)

// NewObserveConnFunc returns a new [*ObserveConnFunc] with default logging.
//
// The cfg argument contains the common configuration for relay operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewObserveConnFunc(cfg *Config, logger SLogger) *ObserveConnFunc {
	return &ObserveConnFunc{
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// ObserveConnFunc observes a [net.Conn] to log I/O operations.
//
// The command stream towards the design application goes through the
// observed conn, hence every read and write of a command exchange shows
// up at [slog.LevelDebug], while closing shows up at [slog.LevelInfo].
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ObserveConnFunc struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewObserveConnFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewObserveConnFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewObserveConnFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[net.Conn, net.Conn] = &ObserveConnFunc{}

// Call wraps the [net.Conn] so that its I/O operations are logged.
func (op *ObserveConnFunc) Call(ctx context.Context, conn net.Conn) (net.Conn, error) {
	observed := &observedConn{
		conn: conn,
		op:   op,
		endpoint: []any{
			slog.String("localAddr", safeconn.LocalAddr(conn)),
			slog.String("protocol", safeconn.Network(conn)),
			slog.String("remoteAddr", safeconn.RemoteAddr(conn)),
		},
	}
	return observed, nil
}

// observedConn observes a [net.Conn].
type observedConn struct {
	closeonce sync.Once
	conn      net.Conn
	op        *ObserveConnFunc

	// endpoint holds the address attributes shared by all events,
	// computed once since the addresses do not change.
	endpoint []any
}

// attrs returns the endpoint attributes followed by extra.
func (c *observedConn) attrs(extra ...any) []any {
	return append(append(make([]any, 0, len(c.endpoint)+len(extra)), c.endpoint...), extra...)
}

// Close implements [net.Conn].
//
// Subsequent calls return [net.ErrClosed], consistent with Go's standard
// library behavior for closed connections.
func (c *observedConn) Close() (err error) {
	err = net.ErrClosed
	c.closeonce.Do(func() {
		t0 := c.op.TimeNow()
		c.op.Logger.Info("closeStart", c.attrs(slog.Time("t", t0))...)

		err = c.conn.Close()

		c.op.Logger.Info("closeDone", c.attrs(
			slog.Any("err", err),
			slog.String("errClass", c.op.ErrClassifier.Classify(err)),
			slog.Time("t0", t0),
			slog.Time("t", c.op.TimeNow()),
		)...)
	})
	return
}

// LocalAddr implements [net.Conn].
func (c *observedConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr implements [net.Conn].
func (c *observedConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Read implements [net.Conn].
func (c *observedConn) Read(buf []byte) (int, error) {
	return c.observeIO("read", buf, c.conn.Read)
}

// Write implements [net.Conn].
func (c *observedConn) Write(data []byte) (int, error) {
	return c.observeIO("write", data, c.conn.Write)
}

// observeIO runs a read or a write between its Start/Done events.
func (c *observedConn) observeIO(name string, buf []byte, fn func([]byte) (int, error)) (int, error) {
	t0 := c.op.TimeNow()
	c.op.Logger.Debug(name+"Start", c.attrs(
		slog.Int("ioBufferSize", len(buf)),
		slog.Time("t", t0),
	)...)

	count, err := fn(buf)

	c.op.Logger.Debug(name+"Done", c.attrs(
		slog.Int("ioBytesCount", count),
		slog.Any("err", err),
		slog.String("errClass", c.op.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
		slog.Time("t", c.op.TimeNow()),
	)...)

	return count, err
}

// SetDeadline implements [net.Conn].
func (c *observedConn) SetDeadline(t time.Time) error {
	return c.observeDeadline("setDeadline", t, c.conn.SetDeadline)
}

// SetReadDeadline implements [net.Conn].
func (c *observedConn) SetReadDeadline(t time.Time) error {
	return c.observeDeadline("setReadDeadline", t, c.conn.SetReadDeadline)
}

// SetWriteDeadline implements [net.Conn].
func (c *observedConn) SetWriteDeadline(t time.Time) error {
	return c.observeDeadline("setWriteDeadline", t, c.conn.SetWriteDeadline)
}

// observeDeadline logs a deadline change and then applies it.
func (c *observedConn) observeDeadline(name string, t time.Time, fn func(time.Time) error) error {
	c.op.Logger.Debug(name, c.attrs(
		slog.Time("deadline", t),
		slog.Time("t", c.op.TimeNow()),
	)...)
	return fn(t)
}
