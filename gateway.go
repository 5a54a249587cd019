// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// Gateway serializes access to the design application.
//
// Every [Execute] holds an access ticket for its whole duration: the
// tickets come from a FIFO semaphore of capacity one, so invocations run
// one at a time, in arrival order, and never overlap their connect,
// send, or receive phases.
//
// A Gateway is safe for concurrent use by multiple goroutines.
//
// Construct using [NewGateway].
type Gateway struct {
	// arrivals numbers ticket requests for logging.
	arrivals atomic.Uint64

	// cfg is the configuration used for each [*Conn].
	cfg *Config

	// tickets is the access ticket queue.
	tickets *semaphore.Weighted

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewGateway] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewGateway] from [Config.TimeNow].
	TimeNow func() time.Time
}

// NewGateway returns a new [*Gateway].
//
// The cfg argument contains the common configuration for relay operations
// and must not be modified once the gateway is in use.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewGateway(cfg *Config, logger SLogger) *Gateway {
	return &Gateway{
		cfg:     cfg,
		tickets: semaphore.NewWeighted(1),
		Logger:  logger,
		TimeNow: cfg.TimeNow,
	}
}

// Execute runs op with exclusive access to the design application.
//
// It waits for an access ticket, connects a fresh [*Conn], invokes op with
// it and, however control leaves (success, failure, timeout, panic), closes
// the Conn and then releases the ticket.
//
// The result and error of op are returned unchanged. When connecting fails,
// op does not run and the error is [ErrConnectTimeout] (wrapped) or a
// [*ConnectError]. When ctx is done while waiting for the ticket, the
// context error is returned and nothing needs releasing.
//
// All log events of one invocation carry the same spanID (see [NewSpanID]).
func Execute[T any](ctx context.Context, gw *Gateway, op Func[*Conn, T]) (T, error) {
	var zero T
	logger := withSpanID(gw.Logger, NewSpanID())

	tk, err := gw.acquire(ctx, logger)
	if err != nil {
		return zero, err
	}

	conn := NewConn(gw.cfg, logger)
	defer func() {
		conn.Close()
		tk.release()
	}()

	if !conn.IsConnected() {
		if err := conn.Connect(ctx); err != nil {
			return zero, err
		}
	}

	return op.Call(ctx, conn)
}

// ExecuteCommand sends a single command using a full [Execute] cycle and
// returns the raw JSON success value.
//
// The params are opaque: any value [json.Marshal] accepts, including a
// [json.RawMessage], is relayed without interpretation.
func (gw *Gateway) ExecuteCommand(ctx context.Context, name string, params any) (json.RawMessage, error) {
	return Execute(ctx, gw, FuncAdapter[*Conn, json.RawMessage](
		func(ctx context.Context, conn *Conn) (json.RawMessage, error) {
			return conn.SendCommand(ctx, name, params)
		}))
}

// ticket is a granted access ticket.
type ticket struct {
	arrival uint64
	gw      *Gateway
	logger  SLogger
	once    sync.Once
	t0      time.Time
}

// acquire waits for an access ticket.
func (gw *Gateway) acquire(ctx context.Context, logger SLogger) (*ticket, error) {
	arrival := gw.arrivals.Add(1)
	t0 := gw.TimeNow()
	logger.Info(
		"ticketAcquireStart",
		slog.Uint64("arrival", arrival),
		slog.Time("t", t0),
	)

	err := gw.tickets.Acquire(ctx, 1)

	logger.Info(
		"ticketAcquireDone",
		slog.Uint64("arrival", arrival),
		slog.Any("err", err),
		slog.String("errClass", gw.cfg.ErrClassifier.Classify(err)),
		slog.Time("t0", t0),
		slog.Time("t", gw.TimeNow()),
	)
	if err != nil {
		return nil, err
	}
	return &ticket{arrival: arrival, gw: gw, logger: logger, t0: gw.TimeNow()}, nil
}

// release gives the ticket back; only the first call has effect.
func (tk *ticket) release() {
	tk.once.Do(func() {
		// log first so the event precedes the next holder's ones
		tk.logger.Info(
			"ticketRelease",
			slog.Uint64("arrival", tk.arrival),
			slog.Time("t0", tk.t0),
			slog.Time("t", tk.gw.TimeNow()),
		)
		tk.gw.tickets.Release(1)
	})
}
