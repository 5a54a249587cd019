// SPDX-License-Identifier: GPL-3.0-or-later

package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// createDimensionsCommand is the command name on the wire.
	createDimensionsCommand = "create_dimensions"

	// DefaultDimensionType is used when a dimension omits its type.
	DefaultDimensionType = "Linear"

	// DefaultElementID selects the default style or the active view.
	DefaultElementID int64 = -1
)

// Dimension describes one dimension annotation to create.
type Dimension struct {
	StartPoint       Point   `json:"startPoint" jsonschema:"Start point of the dimension line (mm)"`
	EndPoint         Point   `json:"endPoint" jsonschema:"End point of the dimension line (mm)"`
	LinePoint        *Point  `json:"linePoint,omitempty" jsonschema:"Location of the dimension line itself (mm). If not provided, defaults to midpoint offset by 1 foot"`
	ElementIDs       []int64 `json:"elementIds,omitempty" jsonschema:"Element IDs to dimension between. If empty, references are auto-detected at start/end points"`
	DimensionType    string  `json:"dimensionType,omitempty" jsonschema:"Dimension type (default: 'Linear')"`
	DimensionStyleID *int64  `json:"dimensionStyleId,omitempty" jsonschema:"Element ID of the dimension style to apply. -1 for default style"`
	ViewID           *int64  `json:"viewId,omitempty" jsonschema:"Element ID of the view to create the dimension in. -1 for active view"`
}

// CreateDimensionsInput is the input of the create_dimensions tool.
type CreateDimensionsInput struct {
	Dimensions []Dimension `json:"dimensions" jsonschema:"Array of dimensions to create"`
}

// withDefaults returns a copy with the omitted optional fields filled in.
func (in CreateDimensionsInput) withDefaults() CreateDimensionsInput {
	out := CreateDimensionsInput{Dimensions: make([]Dimension, 0, len(in.Dimensions))}
	for _, dim := range in.Dimensions {
		if dim.DimensionType == "" {
			dim.DimensionType = DefaultDimensionType
		}
		if dim.DimensionStyleID == nil {
			dim.DimensionStyleID = ptr(DefaultElementID)
		}
		if dim.ViewID == nil {
			dim.ViewID = ptr(DefaultElementID)
		}
		out.Dimensions = append(out.Dimensions, dim)
	}
	return out
}

// CreateDimensionsTool defines the MCP tool schema for creating dimensions.
func CreateDimensionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name: createDimensionsCommand,
		Description: "Create dimension annotations in the current view. Supports dimensioning " +
			"between elements (walls, doors, windows) by element IDs, or between two points " +
			"with automatic reference detection. All coordinates are in millimeters (mm).",
	}
}

// CreateDimensionsHandler relays a create_dimensions request.
func CreateDimensionsHandler(executor CommandExecutor) mcp.ToolHandlerFor[CreateDimensionsInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateDimensionsInput) (*mcp.CallToolResult, any, error) {
		return runCommand(ctx, executor, createDimensionsCommand,
			"Dimension creation failed", input.withDefaults()), nil, nil
	}
}

func ptr[T any](v T) *T {
	return &v
}
