// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bassosimone/errclass"
	"github.com/stretchr/testify/assert"
)

func TestDefaultErrClassifier(t *testing.T) {
	tests := []struct {
		// name describes the scenario.
		name string

		// err is the error to classify.
		err error

		// want is the expected label.
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},

		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: errclass.ETIMEDOUT,
		},

		{
			name: "unknown error",
			err:  errors.New("unknown error"),
			want: errclass.EGENERIC,
		},

		{
			name: "connect timeout",
			err:  fmt.Errorf("%w: localhost:8080", ErrConnectTimeout),
			want: KindConnectTimeout,
		},

		{
			name: "command error",
			err:  &CommandError{Command: "echo", Message: "bad"},
			want: KindCommandError,
		},

		{
			name: "serialization error",
			err:  &SerializationError{Command: "echo", Op: "decode", Err: errors.New("x")},
			want: KindSerializationError,
		},

		{
			name: "connect error uses the wrapped errno",
			err:  &ConnectError{Address: "localhost:8080", Err: context.DeadlineExceeded},
			want: errclass.ETIMEDOUT,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultErrClassifier.Classify(tt.err))
		})
	}
}

func TestErrClassifierFunc(t *testing.T) {
	fn := ErrClassifierFunc(func(error) string { return "custom" })
	assert.Equal(t, "custom", fn.Classify(errors.New("x")))
}
