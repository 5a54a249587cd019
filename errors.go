// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"errors"
	"fmt"
)

// ErrConnectTimeout indicates that a [*Conn] did not connect within
// [Config.ConnectTimeout].
var ErrConnectTimeout = errors.New("relay: connect timeout")

// ErrNotConnected is returned by [*Conn.SendCommand] when the
// connection is not in [ConnStateConnected].
var ErrNotConnected = errors.New("relay: not connected")

// ErrConnState is returned by [*Conn.Connect] when the connection
// is not in [ConnStateIdle].
var ErrConnState = errors.New("relay: connect on non-idle connection")

// ConnectError is a transport-level failure while connecting.
type ConnectError struct {
	// Address is the endpoint we tried to reach.
	Address string

	// Err is the underlying dial error.
	Err error
}

var _ error = &ConnectError{}

// Error implements error.
func (e *ConnectError) Error() string {
	return fmt.Sprintf("relay: connect to %s: %s", e.Address, e.Err.Error())
}

// Unwrap returns the underlying dial error.
func (e *ConnectError) Unwrap() error {
	return e.Err
}

// CommandError is an application-level failure reported by the
// design application for a command it received.
type CommandError struct {
	// Command is the command name.
	Command string

	// Kind is the optional error code reported by the endpoint.
	Kind string

	// Message is the error description reported by the endpoint.
	Message string
}

var _ error = &CommandError{}

// Error implements error and returns the endpoint's message verbatim.
func (e *CommandError) Error() string {
	return e.Message
}

// SerializationError is a failure to encode a command or to decode
// the corresponding response.
type SerializationError struct {
	// Command is the command name.
	Command string

	// Op is either "encode" or "decode".
	Op string

	// Err is the underlying codec error.
	Err error
}

var _ error = &SerializationError{}

// Error implements error.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("relay: %s %s: %s", e.Op, e.Command, e.Err.Error())
}

// Unwrap returns the underlying codec error.
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Error kinds returned by [ErrorKind].
const (
	KindConnectTimeout     = "ConnectTimeout"
	KindConnectError       = "ConnectError"
	KindCommandError       = "CommandError"
	KindSerializationError = "SerializationError"
)

// ErrorKind returns the relay error kind of err or an empty string
// when err is nil or does not originate from this package.
func ErrorKind(err error) string {
	var (
		connectErr *ConnectError
		commandErr *CommandError
		serialErr  *SerializationError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnectTimeout):
		return KindConnectTimeout
	case errors.As(err, &connectErr):
		return KindConnectError
	case errors.As(err, &commandErr):
		return KindCommandError
	case errors.As(err, &serialErr):
		return KindSerializationError
	default:
		return ""
	}
}
