// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

// commandRequest is the wire form of a command.
//
// The params are written as-is: a [json.RawMessage] passes through
// verbatim, any other value goes through [json.Marshal].
type commandRequest struct {
	Command string `json:"command"`
	Params  any    `json:"params"`
}

// encodeCommand serializes a command into a single JSON value.
func encodeCommand(name string, params any) ([]byte, error) {
	data, err := json.Marshal(commandRequest{Command: name, Params: params})
	if err != nil {
		return nil, &SerializationError{Command: name, Op: "encode", Err: err}
	}
	return data, nil
}

// isDecodeError tells codec failures apart from transport failures
// surfaced by a [*json.Decoder] reading from the stream.
func isDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// classifyResponse maps a raw response to either the success value or a
// [*CommandError].
//
// A response is a failure when it is a JSON object whose "error" member
// exists and is neither null nor false. The member may be:
//
//   - a string, used as the message;
//   - an object, contributing "message" and, optionally, "code" or "kind";
//   - any other JSON value, whose raw text becomes the message.
//
// Every other response is the raw success value.
func classifyResponse(name string, raw json.RawMessage) (json.RawMessage, error) {
	response := gjson.ParseBytes(raw)
	if !response.IsObject() {
		return raw, nil
	}
	member := response.Get("error")
	if !member.Exists() || member.Type == gjson.Null || member.Type == gjson.False {
		return raw, nil
	}
	return nil, newCommandError(name, member)
}

// newCommandError builds a [*CommandError] from the "error" member.
func newCommandError(name string, member gjson.Result) *CommandError {
	cerr := &CommandError{Command: name}
	switch {
	case member.Type == gjson.String:
		cerr.Message = member.String()
	case member.IsObject():
		cerr.Message = member.Get("message").String()
		if cerr.Message == "" {
			cerr.Message = member.Raw
		}
		for _, key := range []string{"code", "kind"} {
			if kind := member.Get(key); kind.Exists() && kind.Type != gjson.Null {
				cerr.Kind = kind.String()
				break
			}
		}
	default:
		cerr.Message = member.Raw
	}
	return cerr
}
