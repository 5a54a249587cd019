//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/x/netcore/dialer.go
//

package relay

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/bassosimone/safeconn"
)

// Dialer abstracts the [*net.Dialer] behavior.
//
// By making [*ConnectFunc] depend on an abstract implementation we
// allow for unit testing and for using alternative dialers.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NewConnectFunc returns a new [*ConnectFunc].
//
// The cfg argument contains the common configuration for relay operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewConnectFunc(cfg *Config, logger SLogger) *ConnectFunc {
	return &ConnectFunc{
		Dialer:        cfg.Dialer,
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		Timeout:       cfg.ConnectTimeout,
		TimeNow:       cfg.TimeNow,
	}
}

// ConnectFunc dials a host:port address using TCP.
//
// The wait resolves exactly once: the dial succeeds, the dial fails, or
// [ConnectFunc.Timeout] elapses (or the caller's context is done), whichever
// happens first. On timeout or cancellation, the dial context is canceled
// and Call waits for the dial to return, closing its connection if any, so
// no stray connection survives the call.
//
// Returns either a valid [net.Conn] or an error, never both. The error is
// [ErrConnectTimeout] (wrapped) on timeout, a [*ConnectError] on transport
// failure, or the caller's context error if the context is done first.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ConnectFunc struct {
	// Dialer is the [Dialer] to use.
	//
	// Set by [NewConnectFunc] from [Config.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConnectFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewConnectFunc] to the user-provided logger.
	Logger SLogger

	// Timeout bounds the connect wait. Zero or negative means [DefaultConnectTimeout].
	//
	// Set by [NewConnectFunc] from [Config.ConnectTimeout].
	Timeout time.Duration

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewConnectFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[string, net.Conn] = &ConnectFunc{}

// connectResult is the outcome of a single dial attempt.
type connectResult struct {
	conn net.Conn
	err  error
}

// Call invokes the [*ConnectFunc] to connect to the given host:port address.
func (op *ConnectFunc) Call(ctx context.Context, address string) (net.Conn, error) {
	timeout := op.Timeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	t0 := op.TimeNow()
	deadline := t0.Add(timeout)
	dialCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	op.logConnectStart(address, t0, deadline)

	// buffered so the dialing goroutine never blocks on send
	resultch := make(chan connectResult, 1)
	go func() {
		conn, err := op.Dialer.DialContext(dialCtx, "tcp", address)
		resultch <- connectResult{conn, err}
	}()

	var (
		conn net.Conn
		err  error
	)
	select {
	case res := <-resultch:
		conn, err = res.conn, res.err
		switch {
		case err != nil && ctx.Err() != nil:
			conn, err = nil, ctx.Err()
		case err != nil:
			conn, err = nil, &ConnectError{Address: address, Err: err}
		}
	case <-timer.C:
		err = fmt.Errorf("%w: %s", ErrConnectTimeout, address)
		cancel()
		drainConnectResult(resultch)
	case <-ctx.Done():
		err = ctx.Err()
		cancel()
		drainConnectResult(resultch)
	}

	op.logConnectDone(address, t0, deadline, conn, err)
	return conn, err
}

// drainConnectResult waits for the dial that lost the race and closes its
// connection, so that Call never returns with a socket still open.
func drainConnectResult(resultch <-chan connectResult) {
	if res := <-resultch; res.conn != nil {
		res.conn.Close()
	}
}

func (op *ConnectFunc) logConnectStart(address string, t0 time.Time, deadline time.Time) {
	op.Logger.Info(
		"connectStart",
		slog.Time("deadline", deadline),
		slog.String("protocol", "tcp"),
		slog.String("remoteAddr", address),
		slog.Time("t", t0),
	)
}

func (op *ConnectFunc) logConnectDone(
	address string, t0 time.Time, deadline time.Time, conn net.Conn, err error) {
	op.Logger.Info(
		"connectDone",
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", op.ErrClassifier.Classify(err)),
		slog.String("localAddr", safeconn.LocalAddr(conn)),
		slog.String("protocol", "tcp"),
		slog.String("remoteAddr", address),
		slog.Time("t0", t0),
		slog.Time("t", op.TimeNow()),
	)
}
