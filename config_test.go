// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)

	// Dialer should be set to *net.Dialer
	_, ok := cfg.Dialer.(*net.Dialer)
	assert.True(t, ok, "Dialer should be *net.Dialer")

	// ErrClassifier should be DefaultErrClassifier
	assert.Equal(t, "", cfg.ErrClassifier.Classify(nil))

	// TimeNow should be set and return a valid time
	now := cfg.TimeNow()
	assert.False(t, now.IsZero())

	// The endpoint defaults to the design application's usual listener
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultConnectTimeout, cfg.ConnectTimeout)
}

func TestConfigAddress(t *testing.T) {
	tests := []struct {
		// name describes the scenario.
		name string

		// host is the configured host.
		host string

		// port is the configured port.
		port int

		// want is the expected address.
		want string
	}{
		{
			name: "default endpoint",
			host: "localhost",
			port: 8080,
			want: "localhost:8080",
		},

		{
			name: "IPv4 literal",
			host: "127.0.0.1",
			port: 9000,
			want: "127.0.0.1:9000",
		},

		{
			name: "IPv6 literal is bracketed",
			host: "::1",
			port: 8080,
			want: "[::1]:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Host = tt.host
			cfg.Port = tt.port
			assert.Equal(t, tt.want, cfg.Address())
		})
	}
}
