// Package tools implements the tool-invocation dispatch layer: a closed
// registry of named handlers, defensive parameter coercion for the
// untrusted params the agent runtime produces, and per-thread dedupe
// state for idempotent tools.
package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool wraps an MCP tool definition with its local execution logic.
type Tool struct {
	mcp.Tool // Name, Description, InputSchema

	Execute func(ctx context.Context, sess *Session, params map[string]any) Result
}

// Invocation is a tool call produced by the agent runtime. Params are
// untrusted and partially typed; handlers coerce every value
// explicitly.
type Invocation struct {
	InvocationID string         `json:"invocation_id"`
	Name         string         `json:"name"`
	Params       map[string]any `json:"params"`
}

// Result is returned to the agent runtime, which decides how to
// surface it conversationally.
type Result struct {
	Success bool           `json:"success"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Ok builds a successful result with an optional payload.
func Ok(payload map[string]any) Result {
	return Result{Success: true, Payload: payload}
}

// Failed builds a failed result. Failure is data, not an error: the
// agent runtime must keep the turn alive regardless.
func Failed() Result {
	return Result{Success: false}
}
