// SPDX-License-Identifier: GPL-3.0-or-later

// Package tools exposes design application commands as MCP tools.
//
// Each tool validates its typed input, applies the documented defaults,
// relays the input as the command params through a [CommandExecutor], and
// renders the outcome as a single text content item.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CommandExecutor sends one command to the design application.
//
// It is implemented by [*relay.Gateway].
type CommandExecutor interface {
	ExecuteCommand(ctx context.Context, name string, params any) (json.RawMessage, error)
}

// Point is a location in model space, in millimeters.
type Point struct {
	X float64 `json:"x" jsonschema:"X coordinate in mm"`
	Y float64 `json:"y" jsonschema:"Y coordinate in mm"`
	Z float64 `json:"z" jsonschema:"Z coordinate in mm"`
}

// Register adds all the tools to server.
func Register(server *mcp.Server, executor CommandExecutor) {
	mcp.AddTool(server, CreateDimensionsTool(), CreateDimensionsHandler(executor))
	mcp.AddTool(server, CreatePointBasedElementTool(), CreatePointBasedElementHandler(executor))
}

// runCommand sends the command and renders the outcome.
//
// A success is the response indented with two spaces. A failure is
// reported in the text, prefixed with failurePrefix, and not as a
// protocol error.
func runCommand(ctx context.Context, executor CommandExecutor, name, failurePrefix string, params any) *mcp.CallToolResult {
	raw, err := executor.ExecuteCommand(ctx, name, params)
	if err != nil {
		return textResult(fmt.Sprintf("%s: %s", failurePrefix, err.Error()))
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return textResult(fmt.Sprintf("%s: %s", failurePrefix, err.Error()))
	}
	return textResult(buf.String())
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
