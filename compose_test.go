// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose3(t *testing.T) {
	op1 := FuncAdapter[int, int](func(ctx context.Context, n int) (int, error) {
		return n + 1, nil
	})
	op2 := FuncAdapter[int, int](func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})
	op3 := FuncAdapter[int, int](func(ctx context.Context, n int) (int, error) {
		return n - 3, nil
	})

	composed := Compose3[int, int, int, int](op1, op2, op3)
	result, err := composed.Call(context.Background(), 5)

	require.NoError(t, err)
	// (5 + 1) * 2 - 3 = 12 - 3 = 9
	assert.Equal(t, 9, result)
}

// Compose3 runs stages in order and stops at the first failure.
func TestCompose3StopsAtFirstFailure(t *testing.T) {
	tests := []struct {
		// name describes the scenario.
		name string

		// failAt is the stage that fails, empty for none.
		failAt string

		// wantTrace is the expected sequence of stages run.
		wantTrace []string
	}{
		{name: "success", failAt: "", wantTrace: []string{"a", "b", "c"}},
		{name: "first fails", failAt: "a", wantTrace: []string{"a"}},
		{name: "second fails", failAt: "b", wantTrace: []string{"a", "b"}},
		{name: "third fails", failAt: "c", wantTrace: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trace []string
			stage := func(name string) Func[Unit, Unit] {
				return FuncAdapter[Unit, Unit](func(ctx context.Context, u Unit) (Unit, error) {
					trace = append(trace, name)
					if name == tt.failAt {
						return u, errors.New(name + " failed")
					}
					return u, nil
				})
			}

			_, err := Compose3(stage("a"), stage("b"), stage("c")).Call(context.Background(), Unit{})

			if tt.failAt != "" {
				require.EqualError(t, err, tt.failAt+" failed")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantTrace, trace)
		})
	}
}

func TestConstFunc(t *testing.T) {
	t.Run("returns constant string", func(t *testing.T) {
		cf := ConstFunc("constant value")
		result, err := cf.Call(context.Background(), Unit{})

		require.NoError(t, err)
		assert.Equal(t, "constant value", result)
	})

	t.Run("returns constant struct", func(t *testing.T) {
		type myStruct struct {
			X int
			Y string
		}
		want := myStruct{X: 10, Y: "test"}

		cf := ConstFunc(want)
		result, err := cf.Call(context.Background(), Unit{})

		require.NoError(t, err)
		assert.Equal(t, want, result)
	})
}
