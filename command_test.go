// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCommand(t *testing.T) {
	tests := []struct {
		// name describes the scenario.
		name string

		// params is the payload to encode.
		params any

		// want is the expected JSON.
		want string
	}{
		{
			name:   "struct params",
			params: map[string]any{"dimensions": []any{}},
			want:   `{"command":"create_dimensions","params":{"dimensions":[]}}`,
		},

		{
			name:   "raw params pass through",
			params: json.RawMessage(`{"a":[1,2,{"b":null}]}`),
			want:   `{"command":"create_dimensions","params":{"a":[1,2,{"b":null}]}}`,
		},

		{
			name:   "nil params",
			params: nil,
			want:   `{"command":"create_dimensions","params":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := encodeCommand("create_dimensions", tt.params)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

// Values that JSON cannot represent yield a SerializationError.
func TestEncodeCommandSerializationError(t *testing.T) {
	for _, params := range []any{math.NaN(), make(chan int), json.RawMessage(`{`)} {
		_, err := encodeCommand("echo", params)

		var serialErr *SerializationError
		require.True(t, errors.As(err, &serialErr))
		assert.Equal(t, "encode", serialErr.Op)
		assert.Equal(t, "echo", serialErr.Command)
	}
}

func TestClassifyResponse(t *testing.T) {
	tests := []struct {
		// name describes the scenario.
		name string

		// raw is the response received from the endpoint.
		raw string

		// wantErr is the expected CommandError, nil on success.
		wantErr *CommandError
	}{
		{name: "object result", raw: `{"elementIds":[1,2]}`},
		{name: "array result", raw: `[1,2,3]`},
		{name: "scalar result", raw: `42`},
		{name: "string result mentioning error", raw: `"error"`},
		{name: "null error member", raw: `{"error":null,"ok":true}`},
		{name: "false error member", raw: `{"error":false}`},
		{
			name:    "string error",
			raw:     `{"error":"bad"}`,
			wantErr: &CommandError{Command: "echo", Message: "bad"},
		},
		{
			name:    "object error with code",
			raw:     `{"error":{"code":-32000,"message":"no active view"}}`,
			wantErr: &CommandError{Command: "echo", Kind: "-32000", Message: "no active view"},
		},
		{
			name:    "object error with kind",
			raw:     `{"error":{"kind":"InvalidElement","message":"wall not found"}}`,
			wantErr: &CommandError{Command: "echo", Kind: "InvalidElement", Message: "wall not found"},
		},
		{
			name:    "object error without message",
			raw:     `{"error":{"detail":"x"}}`,
			wantErr: &CommandError{Command: "echo", Message: `{"detail":"x"}`},
		},
		{
			name:    "non string error",
			raw:     `{"error":true}`,
			wantErr: &CommandError{Command: "echo", Message: "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := classifyResponse("echo", json.RawMessage(tt.raw))

			if tt.wantErr != nil {
				var cerr *CommandError
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, tt.wantErr, cerr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.raw, string(result))
		})
	}
}
