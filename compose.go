// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import "context"

// Compose3 chains three [Func] stages: each stage receives the output of
// the previous one and the first error stops the chain.
//
// [*Conn] builds its dial chain with it: endpoint, connect, and observe.
func Compose3[A, B, C, D any](op1 Func[A, B], op2 Func[B, C], op3 Func[C, D]) Func[A, D] {
	return FuncAdapter[A, D](func(ctx context.Context, input A) (D, error) {
		var zero D
		b, err := op1.Call(ctx, input)
		if err != nil {
			return zero, err
		}
		c, err := op2.Call(ctx, b)
		if err != nil {
			return zero, err
		}
		return op3.Call(ctx, c)
	})
}

// ConstFunc returns a [Func] ignoring its [Unit] input and always
// yielding value.
func ConstFunc[B any](value B) Func[Unit, B] {
	return FuncAdapter[Unit, B](func(context.Context, Unit) (B, error) {
		return value, nil
	})
}
