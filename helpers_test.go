// SPDX-License-Identifier: GPL-3.0-or-later

package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"sync"

	"github.com/bassosimone/netstub"
	"github.com/bassosimone/slogstub"
)

// capturedRecords collects log records from concurrent goroutines.
type capturedRecords struct {
	mu      sync.Mutex
	records []slog.Record
}

// snapshot returns a copy of the records captured so far.
func (c *capturedRecords) snapshot() []slog.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]slog.Record(nil), c.records...)
}

// messages returns the messages of the records captured so far.
func (c *capturedRecords) messages() []string {
	var out []string
	for _, record := range c.snapshot() {
		out = append(out, record.Message)
	}
	return out
}

// newCapturingLogger returns a logger that captures all log records into the
// returned collector. The caller can inspect the collector after exercising
// the code under test to verify which events were emitted.
func newCapturingLogger() (*slog.Logger, *capturedRecords) {
	records := &capturedRecords{}
	handler := &slogstub.FuncHandler{
		EnabledFunc: func(ctx context.Context, level slog.Level) bool {
			return true
		},
		HandleFunc: func(ctx context.Context, record slog.Record) error {
			records.mu.Lock()
			records.records = append(records.records, record)
			records.mu.Unlock()
			return nil
		},
	}
	return slog.New(handler), records
}

// recordAttr returns the string form of the named attribute or "".
func recordAttr(record slog.Record, key string) string {
	var value string
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			value = attr.Value.String()
			return false
		}
		return true
	})
	return value
}

// newMinimalConn returns a [*netstub.FuncConn] with only LocalAddrFunc and
// RemoteAddrFunc set. This is the minimum needed for code that calls
// [safeconn.LocalAddr], [safeconn.RemoteAddr], and [safeconn.Network]
// during construction.
func newMinimalConn() *netstub.FuncConn {
	return &netstub.FuncConn{
		LocalAddrFunc:  func() net.Addr { return &net.TCPAddr{} },
		RemoteAddrFunc: func() net.Addr { return &net.TCPAddr{} },
	}
}

// wireRequest is a request as seen by the fake design application.
type wireRequest struct {
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params"`
}

// fakeApp serves requests on the server side of a [net.Pipe], the way
// the design application serves them on its TCP listener.
type fakeApp struct {
	// respond maps a request to the raw JSON response to write back.
	respond func(req wireRequest) string
}

// echoApp returns the request params as the success value.
func echoApp() *fakeApp {
	return &fakeApp{respond: func(req wireRequest) string {
		return string(req.Params)
	}}
}

// fixedApp returns the same raw response to every request.
func fixedApp(response string) *fakeApp {
	return &fakeApp{respond: func(wireRequest) string {
		return response
	}}
}

// serve handles requests until the client closes the pipe.
func (app *fakeApp) serve(conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	for {
		var req wireRequest
		if err := dec.Decode(&req); err != nil {
			return
		}
		if _, err := conn.Write([]byte(app.respond(req) + "\n")); err != nil {
			return
		}
	}
}

// dialer returns a [*netstub.FuncDialer] connecting to the app through
// a fresh [net.Pipe] on every dial.
func (app *fakeApp) dialer() *netstub.FuncDialer {
	return &netstub.FuncDialer{
		DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
			client, server := net.Pipe()
			go app.serve(server)
			return client, nil
		},
	}
}
