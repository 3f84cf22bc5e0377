package controllers

import (
	"context"

	"scout/scout/services/toolcall"
	"scout/scout/types"
	"scout/scout/utils/logging"
)

// ToolsController exposes the tool surface directly over HTTP, without
// going through the chat loop.
type ToolsController struct {
	tools ToolExecutor
}

func NewToolsController(tools ToolExecutor) *ToolsController {
	return &ToolsController{tools: tools}
}

func (c *ToolsController) Execute(ctx context.Context, call types.ToolCall) types.ToolResult {
	defer logging.LogDuration(ctx, "tools_execute")()
	return c.tools.Execute(ctx, call)
}

func (c *ToolsController) Catalog() []toolcall.Definition {
	return toolcall.Definitions()
}
