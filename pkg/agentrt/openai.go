package agentrt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/tools"
)

// OpenAIRunner streams turns through the Chat Completions API.
type OpenAIRunner struct {
	client openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAIRunner builds a runner for the given model. baseURL is
// optional and supports proxy deployments.
func NewOpenAIRunner(apiKey, baseURL, model string, log zerolog.Logger) *OpenAIRunner {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIRunner{
		client: openai.NewClient(opts...),
		model:  model,
		log:    log.With().Str("component", "agentrt").Logger(),
	}
}

type activeToolCall struct {
	callID string
	name   string
	args   strings.Builder
}

// Run streams one turn. Tool-call argument deltas are accumulated per
// choice index and emitted as complete invocations once the stream
// ends, matching how the API splits function arguments across chunks.
func (r *OpenAIRunner) Run(ctx context.Context, req Request, emit func(Event)) error {
	params := openai.ChatCompletionNewParams{
		Model:    r.model,
		Messages: buildMessages(req),
		Tools:    toChatTools(req.Tools),
	}

	stream := r.client.Chat.Completions.NewStreaming(ctx, params)
	activeCalls := make(map[int]*activeToolCall)

	for stream.Next() {
		chunk := stream.Current()
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				emit(Event{Type: EventTextDelta, TextDelta: choice.Delta.Content})
			}
			for _, toolDelta := range choice.Delta.ToolCalls {
				idx := int(toolDelta.Index)
				call, ok := activeCalls[idx]
				if !ok {
					call = &activeToolCall{callID: toolDelta.ID}
					activeCalls[idx] = call
				}
				if toolDelta.ID != "" && call.callID == "" {
					call.callID = toolDelta.ID
				}
				if toolDelta.Function.Name != "" {
					call.name = toolDelta.Function.Name
				}
				if toolDelta.Function.Arguments != "" {
					call.args.WriteString(toolDelta.Function.Arguments)
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("agent stream failed: %w", err)
	}

	indexes := make([]int, 0, len(activeCalls))
	for idx := range activeCalls {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		call := activeCalls[idx]
		if call.name == "" {
			continue
		}
		emit(Event{Type: EventToolCall, Invocation: &tools.Invocation{
			InvocationID: invocationID(call.callID),
			Name:         call.name,
			Params:       decodeArgs(call.args.String(), r.log),
		}})
	}

	emit(Event{Type: EventDone})
	return nil
}

func buildMessages(req Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}
	if req.Context != "" {
		messages = append(messages, openai.SystemMessage(req.Context))
	}
	messages = append(messages, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: req.Content,
			},
		},
	})
	return messages
}

func toChatTools(defs []*tools.Tool) []openai.ChatCompletionToolUnionParam {
	var out []openai.ChatCompletionToolUnionParam
	for _, t := range defs {
		var schema map[string]any
		if t.InputSchema != nil {
			if encoded, err := json.Marshal(t.InputSchema); err == nil {
				if err := json.Unmarshal(encoded, &schema); err != nil {
					schema = nil
				}
			}
		}
		function := openai.FunctionDefinitionParam{
			Name:       t.Name,
			Parameters: schema,
		}
		if t.Description != "" {
			function.Description = openai.String(t.Description)
		}
		out = append(out, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: function,
				Type:     constant.ValueOf[constant.Function](),
			},
		})
	}
	return out
}

// decodeArgs parses accumulated function arguments. The runtime's
// output is untrusted; malformed JSON degrades to empty params and the
// handler's own coercion rejects what it must.
func decodeArgs(raw string, log zerolog.Logger) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var params map[string]any
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		log.Warn().Err(err).Msg("Discarding malformed tool arguments")
		return map[string]any{}
	}
	return params
}

func invocationID(callID string) string {
	if callID != "" {
		return callID
	}
	return fmt.Sprintf("call_%s", xid.New().String())
}
