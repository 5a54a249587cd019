// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"net"
	"strconv"
	"time"
)

// Default endpoint and connect bound used by [NewConfig].
const (
	DefaultHost           = "localhost"
	DefaultPort           = 8080
	DefaultConnectTimeout = 5 * time.Second
)

// Config holds common configuration for relay operations.
//
// Pass this to constructor functions to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// ConnectTimeout bounds the wait for a [*Conn] to connect.
	//
	// Set by [NewConfig] to [DefaultConnectTimeout].
	ConnectTimeout time.Duration

	// Dialer is used by [*ConnectFunc].
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// Host is the host name or address of the design application.
	//
	// Set by [NewConfig] to [DefaultHost].
	Host string

	// Port is the TCP port of the design application.
	//
	// Set by [NewConfig] to [DefaultPort].
	Port int

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		ConnectTimeout: DefaultConnectTimeout,
		Dialer:         &net.Dialer{},
		ErrClassifier:  DefaultErrClassifier,
		Host:           DefaultHost,
		Port:           DefaultPort,
		TimeNow:        time.Now,
	}
}

// Address returns the endpoint address in host:port form.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
