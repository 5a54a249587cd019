// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/bassosimone/safeconn"
)

// ConnState is the lifecycle state of a [*Conn].
type ConnState int32

const (
	// ConnStateIdle is the state of a new [*Conn].
	ConnStateIdle ConnState = iota

	// ConnStateConnecting means [*Conn.Connect] is in progress.
	ConnStateConnecting

	// ConnStateConnected means the stream is open.
	ConnStateConnected

	// ConnStateClosed is terminal.
	ConnStateClosed
)

// String implements [fmt.Stringer].
func (s ConnState) String() string {
	switch s {
	case ConnStateIdle:
		return "idle"
	case ConnStateConnecting:
		return "connecting"
	case ConnStateConnected:
		return "connected"
	case ConnStateClosed:
		return "closed"
	default:
		return fmt.Sprintf("ConnState(%d)", int32(s))
	}
}

// Conn is one transient link to the design application.
//
// The lifecycle is Idle, Connecting, Connected, Closed; a failed connect
// goes from Connecting straight to Closed, and nothing leaves Closed.
//
// A Conn performs no locking of its own besides keeping its state readable
// from any goroutine: it must only be used from the operation [Execute]
// hands it to, which guarantees that at most one Conn is connected at
// any time.
//
// Construct using [NewConn].
type Conn struct {
	// conn is the owned stream, set once connected.
	conn net.Conn

	// dec reads successive responses from conn.
	dec *json.Decoder

	// dial is the endpoint/connect/observe pipeline.
	dial Func[Unit, net.Conn]

	// state holds a ConnState.
	state atomic.Int32

	// ErrClassifier classifies errors for structured logging.
	ErrClassifier ErrClassifier

	// Logger is the SLogger to use.
	Logger SLogger

	// TimeNow is the function to get the current time.
	TimeNow func() time.Time
}

// NewConn returns an idle [*Conn] bound to [Config.Address].
//
// The cfg argument contains the common configuration for relay operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewConn(cfg *Config, logger SLogger) *Conn {
	return &Conn{
		dial: Compose3(
			NewEndpointFunc(cfg.Address()),
			NewConnectFunc(cfg, logger),
			NewObserveConnFunc(cfg, logger),
		),
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// State returns the current [ConnState].
func (c *Conn) State() ConnState {
	return ConnState(c.state.Load())
}

// IsConnected returns whether the stream is open.
func (c *Conn) IsConnected() bool {
	return c.State() == ConnStateConnected
}

// Connect opens the stream, waiting at most [Config.ConnectTimeout].
//
// It returns [ErrConnState] unless the Conn is idle. On failure the Conn
// is closed and the error is [ErrConnectTimeout] (wrapped), a
// [*ConnectError], or the context error. The ctx only bounds the connect
// wait: once connected, the stream stays open until [*Conn.Close] or a
// transport failure.
//
// When Close runs while connecting, the new stream is closed and Connect
// returns [ErrConnState].
func (c *Conn) Connect(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(ConnStateIdle), int32(ConnStateConnecting)) {
		return ErrConnState
	}
	conn, err := c.dial.Call(ctx, Unit{})
	if err != nil {
		c.state.CompareAndSwap(int32(ConnStateConnecting), int32(ConnStateClosed))
		return err
	}
	c.conn = conn
	c.dec = json.NewDecoder(conn)
	if !c.state.CompareAndSwap(int32(ConnStateConnecting), int32(ConnStateConnected)) {
		conn.Close()
		return ErrConnState
	}
	return nil
}

// SendCommand writes the command and waits for the corresponding response
// on the same stream.
//
// On success, it returns the raw JSON success value. The error is a
// [*CommandError] when the design application reports a failure, a
// [*SerializationError] when encoding the command or decoding the response
// fails, [ErrNotConnected] when not connected, or a transport error. Any
// failure that leaves the stream out of sync closes the Conn.
func (c *Conn) SendCommand(ctx context.Context, name string, params any) (json.RawMessage, error) {
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}
	t0 := c.TimeNow()
	deadline, _ := ctx.Deadline()
	c.logCommandStart(name, t0, deadline)
	result, err := c.exchange(name, params, t0)
	c.logCommandDone(name, t0, deadline, err)
	return result, err
}

// exchange performs one request/response round trip.
func (c *Conn) exchange(name string, params any, t0 time.Time) (json.RawMessage, error) {
	request, err := encodeCommand(name, params)
	if err != nil {
		return nil, err
	}
	c.logWireMessage("commandRequest", name, "rawRequest", request, t0)

	if _, err := c.conn.Write(request); err != nil {
		c.Close()
		return nil, fmt.Errorf("relay: send %s: %w", name, err)
	}

	var response json.RawMessage
	if err := c.dec.Decode(&response); err != nil {
		c.Close()
		if isDecodeError(err) {
			return nil, &SerializationError{Command: name, Op: "decode", Err: err}
		}
		return nil, fmt.Errorf("relay: receive %s: %w", name, err)
	}
	c.logWireMessage("commandResponse", name, "rawResponse", response, t0)

	return classifyResponse(name, response)
}

// Close closes the stream if open.
//
// It is a no-op returning nil on an idle or already closed Conn. While
// connecting, it marks the Conn closed and [*Conn.Connect] closes the
// stream it obtains.
func (c *Conn) Close() error {
	for {
		state := c.State()
		if state == ConnStateIdle || state == ConnStateClosed {
			return nil
		}
		if c.state.CompareAndSwap(int32(state), int32(ConnStateClosed)) {
			if state == ConnStateConnecting {
				return nil
			}
			break
		}
	}
	return c.conn.Close()
}

func (c *Conn) logCommandStart(name string, t0 time.Time, deadline time.Time) {
	c.Logger.Info(
		"commandStart",
		slog.String("command", name),
		slog.Time("deadline", deadline),
		slog.String("localAddr", safeconn.LocalAddr(c.conn)),
		slog.String("protocol", safeconn.Network(c.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(c.conn)),
		slog.Time("t", t0),
	)
}

func (c *Conn) logCommandDone(name string, t0 time.Time, deadline time.Time, err error) {
	c.Logger.Info(
		"commandDone",
		slog.String("command", name),
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", c.ErrClassifier.Classify(err)),
		slog.String("localAddr", safeconn.LocalAddr(c.conn)),
		slog.String("protocol", safeconn.Network(c.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(c.conn)),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}

// logWireMessage records a raw command or response as seen on the wire.
func (c *Conn) logWireMessage(event, name, key string, raw []byte, t0 time.Time) {
	c.Logger.Info(
		event,
		slog.String("command", name),
		slog.String(key, string(raw)),
		slog.String("localAddr", safeconn.LocalAddr(c.conn)),
		slog.String("protocol", safeconn.Network(c.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(c.conn)),
		slog.Time("t0", t0),
		slog.Time("t", c.TimeNow()),
	)
}
