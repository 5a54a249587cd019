// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEndpointFunc(t *testing.T) {
	fn := NewEndpointFunc("localhost:8080")
	result, err := fn.Call(context.Background(), Unit{})

	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", result)
}

func TestNewEndpointFuncFromConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Host = "::1"

	fn := NewEndpointFunc(cfg.Address())
	result, err := fn.Call(context.Background(), Unit{})

	require.NoError(t, err)
	assert.Equal(t, "[::1]:8080", result)
}
