// SPDX-License-Identifier: GPL-3.0-or-later

// Package relaymcp parses the relay MCP command configuration and serves
// the tools over stdio or HTTP.
package relaymcp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/bassosimone/relay"
	"github.com/bassosimone/relay/internal/tools"
	"github.com/caarlos0/env/v11"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const (
	// TransportStdio serves MCP over stdin/stdout.
	TransportStdio = "stdio"

	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP = "http"

	// serverName and serverVersion identify the MCP server.
	serverName    = "relay"
	serverVersion = "v0.1.0"

	// shutdownTimeout bounds the HTTP server graceful shutdown.
	shutdownTimeout = 5 * time.Second
)

// Config holds the relay MCP command configuration.
type Config struct {
	Host             string `env:"RELAY_HOST"               envDefault:"localhost"`
	Port             int    `env:"RELAY_PORT"               envDefault:"8080"`
	ConnectTimeoutMS int    `env:"RELAY_CONNECT_TIMEOUT_MS" envDefault:"5000"`
	Transport        string `env:"RELAY_MCP_TRANSPORT"      envDefault:"stdio"`
	HTTPAddr         string `env:"RELAY_MCP_HTTP_ADDR"      envDefault:"localhost:8081"`
	LogLevel         string `env:"RELAY_LOG_LEVEL"          envDefault:"info"`
}

// ParseConfig parses environment and flags into a Config.
//
// Flags override the environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Host, "host", cfg.Host, "design application host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "design application port")
	fs.IntVar(&cfg.ConnectTimeoutMS, "connect-timeout-ms", cfg.ConnectTimeoutMS, "connect timeout in milliseconds")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the MCP tools and blocks until ctx is done or serving fails.
//
// Logs are written as JSON to stderr, since stdout may carry the stdio transport.
func Run(ctx context.Context, cfg Config) error {
	return run(ctx, cfg, os.Stderr)
}

func run(ctx context.Context, cfg Config, logw io.Writer) error {
	server, logger, err := newServer(cfg, logw)
	if err != nil {
		return err
	}
	switch cfg.Transport {
	case "", TransportStdio:
		return serve(ctx, server, &mcp.StdioTransport{})
	case TransportHTTP:
		return serveHTTP(ctx, server, cfg.HTTPAddr, logger)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// newServer builds the gateway and the MCP server with the tools registered.
func newServer(cfg Config, logw io.Writer) (*mcp.Server, *slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.ConnectTimeoutMS <= 0 {
		return nil, nil, fmt.Errorf("invalid connect timeout %dms", cfg.ConnectTimeoutMS)
	}
	logger := slog.New(slog.NewJSONHandler(logw, &slog.HandlerOptions{Level: level}))

	relayCfg := relay.NewConfig()
	relayCfg.Host = cfg.Host
	relayCfg.Port = cfg.Port
	relayCfg.ConnectTimeout = time.Duration(cfg.ConnectTimeoutMS) * time.Millisecond
	gw := relay.NewGateway(relayCfg, logger)

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	tools.Register(server, gw)
	return server, logger, nil
}

// serve runs server on transport until the session ends or ctx is done.
func serve(ctx context.Context, server *mcp.Server, transport mcp.Transport) error {
	err := server.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// newHTTPHandler returns the streamable HTTP handler for server, accepting
// both HTTP/1.1 and cleartext HTTP/2.
func newHTTPHandler(server *mcp.Server) http.Handler {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	return h2c.NewHandler(handler, &http2.Server{})
}

// serveHTTP serves server at addr until ctx is done.
func serveHTTP(ctx context.Context, server *mcp.Server, addr string, logger *slog.Logger) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return serveHTTPListener(ctx, server, listener, logger)
}

func serveHTTPListener(ctx context.Context, server *mcp.Server, listener net.Listener, logger *slog.Logger) error {
	httpServer := &http.Server{
		Handler:           newHTTPHandler(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()
	logger.Info("httpServeStart", slog.String("localAddr", listener.Addr().String()))

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	logger.Info("httpServeDone", slog.Any("err", err))
	if err != nil {
		return fmt.Errorf("shutdown HTTP: %w", err)
	}
	return nil
}
