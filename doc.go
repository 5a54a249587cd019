// SPDX-License-Identifier: GPL-3.0-or-later

// Package relay serializes command traffic to a design application listening
// on a local TCP endpoint.
//
// # Core Abstraction
//
// The package reuses a single composable interface:
//
//	type Func[A, B any] interface {
//		Call(ctx context.Context, input A) (B, error)
//	}
//
// The dial pipeline of a [*Conn] is built by composing [NewEndpointFunc],
// [ConnectFunc], and [ObserveConnFunc] with [Compose3].
// The operations handed to [Execute] are also Funcs, usually written
// ad hoc with [FuncAdapter].
//
// # Serialized Execution
//
// A [*Gateway] owns a FIFO queue of access tickets with capacity one. Each
// call to [Execute]:
//
//  1. waits for a ticket, in arrival order;
//  2. creates and connects a fresh [*Conn], bounded by [Config.ConnectTimeout];
//  3. runs the operation with the connected Conn;
//  4. closes the Conn and then releases the ticket, however step 2 or 3 ended.
//
// Hence at most one Conn is connected at any time and no two invocations
// interleave their connect, send, or receive phases.
//
// [Gateway.ExecuteCommand] is the common case: one command, one response.
//
// # Wire Format
//
// A command is the JSON object {"command": name, "params": payload} and
// the response is the next complete JSON value read from the same stream.
// A response that is an object whose "error" member is present and not
// null or false is a failure surfaced as [*CommandError]; any other value
// is returned verbatim as [encoding/json.RawMessage].
//
// # Errors
//
// Connect failures are [ErrConnectTimeout] (wrapped) or [*ConnectError];
// encoding or decoding failures are [*SerializationError]. [ErrorKind] maps
// any of them to a stable label and the [ErrClassifier] used for logging
// falls back to the errclass labels for transport errors.
//
// # Observability
//
// All types support structured logging via [SLogger] (compatible with [log/slog]).
// By default, logging is disabled.
//
// Span events come in *Start/*Done pairs (ticketAcquire, connect, command,
// close) and wire observations (commandRequest, commandResponse) carry the
// raw JSON exchanged. I/O-level events (read, write, deadline changes) are
// emitted at [slog.LevelDebug]; all other events use [slog.LevelInfo]. Every
// event of one [Execute] invocation carries the same spanID (see [NewSpanID]).
//
// # Timeout and Context Philosophy
//
// The only timeout the package imposes is the connect timeout. The caller's
// context bounds waiting for a ticket and the connect race. A command
// already sent has no cancellation path and is awaited to completion or
// failure, so the application never executes a command whose response is
// then dropped.
package relay
