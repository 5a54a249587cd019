// SPDX-License-Identifier: GPL-3.0-or-later

package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// createPointBasedElementCommand is the command name on the wire.
const createPointBasedElementCommand = "create_point_based_element"

// PointBasedElement describes a door, window, or piece of furniture.
type PointBasedElement struct {
	Name          string   `json:"name" jsonschema:"Description of the element (e.g., door, window)"`
	TypeID        *int64   `json:"typeId,omitempty" jsonschema:"The ID of the family type to create"`
	LocationPoint Point    `json:"locationPoint" jsonschema:"The position coordinates where the element will be placed"`
	Width         float64  `json:"width" jsonschema:"Width of the element in mm"`
	Depth         *float64 `json:"depth,omitempty" jsonschema:"Depth of the element in mm"`
	Height        float64  `json:"height" jsonschema:"Height of the element in mm"`
	BaseLevel     float64  `json:"baseLevel" jsonschema:"Base level height"`
	BaseOffset    float64  `json:"baseOffset" jsonschema:"Offset from the base level"`
	Rotation      *float64 `json:"rotation,omitempty" jsonschema:"Rotation angle in degrees (0-360)"`
	HostWallID    *int64   `json:"hostWallId,omitempty" jsonschema:"The ElementId of a specific wall to use as host for doors/windows. If not provided, the nearest wall is auto-detected"`
	FacingFlipped *bool    `json:"facingFlipped,omitempty" jsonschema:"Whether to flip the facing direction of the door/window (default: false)"`
}

// CreatePointBasedElementInput is the input of the create_point_based_element tool.
type CreatePointBasedElementInput struct {
	Data []PointBasedElement `json:"data" jsonschema:"Array of point-based elements to create"`
}

// withDefaults returns a copy with the omitted optional fields filled in.
func (in CreatePointBasedElementInput) withDefaults() CreatePointBasedElementInput {
	out := CreatePointBasedElementInput{Data: make([]PointBasedElement, 0, len(in.Data))}
	for _, elem := range in.Data {
		if elem.FacingFlipped == nil {
			elem.FacingFlipped = ptr(false)
		}
		out.Data = append(out.Data, elem)
	}
	return out
}

// CreatePointBasedElementTool defines the MCP tool schema for creating point-based elements.
func CreatePointBasedElementTool() *mcp.Tool {
	return &mcp.Tool{
		Name: createPointBasedElementCommand,
		Description: "Create one or more point-based elements such as doors, windows, or furniture. " +
			"Supports batch creation with detailed parameters including family type ID, position, " +
			"dimensions, and level information. All units are in millimeters (mm).",
	}
}

// CreatePointBasedElementHandler relays a create_point_based_element request.
func CreatePointBasedElementHandler(executor CommandExecutor) mcp.ToolHandlerFor[CreatePointBasedElementInput, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreatePointBasedElementInput) (*mcp.CallToolResult, any, error) {
		return runCommand(ctx, executor, createPointBasedElementCommand,
			"Create point-based element failed", input.withDefaults()), nil, nil
	}
}
