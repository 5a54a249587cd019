// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import "context"

// Func is a generic operation that accepts an input and returns a result.
//
// Func instances can be chained using [Compose3] to create
// type-safe pipelines where the output of one operation flows to the input of
// the next. The operations run by [Execute] are Func[*Conn, T] values.
//
// Resource cleanup contract: when a Func receives a closeable resource as input
// and returns an error, it is responsible for closing that resource before returning.
// This ensures that composed pipelines do not leak resources on partial failure.
// The single exception is the [*Conn] handed out by [Execute], which the gateway
// always closes itself.
type Func[A, B any] interface {
	Call(ctx context.Context, input A) (B, error)
}

// FuncAdapter wraps a function as a [Func] implementation.
//
// Use this to create ad-hoc [Func] instances from closures, which is the
// usual way of passing an operation to [Execute]:
//
//	relay.Execute(ctx, gw, relay.FuncAdapter[*relay.Conn, int](
//		func(ctx context.Context, conn *relay.Conn) (int, error) { ... }))
type FuncAdapter[A, B any] func(ctx context.Context, input A) (B, error)

// Call implements [Func].
func (f FuncAdapter[A, B]) Call(ctx context.Context, input A) (B, error) {
	return f(ctx, input)
}
