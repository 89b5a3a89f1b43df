// Package agentrt is the boundary to the hosted agent runtime. The
// orchestrator consumes the Runner interface; the OpenAI-backed
// implementation streams a turn and surfaces text deltas and tool
// invocations as discrete events.
package agentrt

import (
	"context"

	"github.com/openai/openai-go/v3"

	"github.com/cekat/assistant-gateway/pkg/tools"
)

// EventType tags a streamed runtime event.
type EventType string

const (
	// EventTextDelta carries a chunk of assistant text.
	EventTextDelta EventType = "text_delta"
	// EventToolCall carries a complete, accumulated tool invocation.
	EventToolCall EventType = "tool_call"
	// EventDone marks the end of the turn.
	EventDone EventType = "done"
)

// Event is one streamed unit of agent output.
type Event struct {
	Type       EventType
	TextDelta  string
	Invocation *tools.Invocation
}

// Request is one turn's input to the runtime.
type Request struct {
	// Instructions is the assistant's system prompt.
	Instructions string
	// Context is rolling conversation context injected ahead of the
	// user content; empty when the thread has no history.
	Context string
	// Content is the converted user turn (ordered content parts).
	Content []openai.ChatCompletionContentPartUnionParam
	// Tools advertises the dispatchable tool set.
	Tools []*tools.Tool
}

// Runner drives one agent turn. emit is called for each event in
// stream order; Run returns after the final Done event or on error.
// Failed runs are not retried here; retry policy belongs to the user
// re-submitting a message.
type Runner interface {
	Run(ctx context.Context, req Request, emit func(Event)) error
}
