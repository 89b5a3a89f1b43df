package session

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/agentrt"
	"github.com/cekat/assistant-gateway/pkg/convert"
	"github.com/cekat/assistant-gateway/pkg/profile"
	"github.com/cekat/assistant-gateway/pkg/tools"
)

// Sink receives the orchestrator's streamed output. The HTTP layer
// implements it on top of SSE; tests implement it with slices.
type Sink interface {
	TextDelta(delta string)
	ToolResult(inv tools.Invocation, result tools.Result)
}

// Orchestrator drives one conversation thread: it converts incoming
// items, runs the agent, dispatches the tool calls the stream yields,
// and forwards everything to the sink. There is exactly one per open
// thread; switching threads goes through SetThread.
type Orchestrator struct {
	threadID   string
	profile    *profile.Profile
	converter  *convert.Converter
	dispatcher *tools.Dispatcher
	runner     agentrt.Runner
	sess       *tools.Session
	history    *History
	log        zerolog.Logger

	// OnResponseEnd fires after every agent turn, success or failure,
	// so the host can re-enable input. OnError receives turn failures
	// out of band; the orchestrator never retries.
	OnResponseEnd func()
	OnError       func(error)
}

// NewOrchestrator builds an orchestrator bound to threadID.
func NewOrchestrator(threadID string, prof *profile.Profile, conv *convert.Converter, disp *tools.Dispatcher, runner agentrt.Runner, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		threadID:   threadID,
		profile:    prof,
		converter:  conv,
		dispatcher: disp,
		runner:     runner,
		sess:       tools.NewSession(threadID),
		history:    NewHistory(),
		log:        log.With().Str("component", "orchestrator").Str("thread_id", threadID).Logger(),
	}
}

// ThreadID returns the currently active thread.
func (o *Orchestrator) ThreadID() string {
	return o.threadID
}

// History exposes the rolling conversation record.
func (o *Orchestrator) History() *History {
	return o.history
}

// SetThread switches the orchestrator to a different thread. The
// dispatch session's seen-fact set is cleared in full, exactly and
// only when the thread actually changes.
func (o *Orchestrator) SetThread(threadID string) {
	if threadID == o.threadID {
		return
	}
	o.log.Debug().Str("new_thread_id", threadID).Msg("Switching thread")
	o.threadID = threadID
	o.sess.Reset(threadID)
	o.history.Clear()
	o.log = o.log.With().Str("thread_id", threadID).Logger()
}

// Respond runs one agent turn for the given thread item. Streamed text
// and tool results go to sink as they arrive. A turn failure is
// reported through OnError and returned; there is no internal retry.
func (o *Orchestrator) Respond(ctx context.Context, item convert.ThreadItem, sink Sink) error {
	defer func() {
		if o.OnResponseEnd != nil {
			o.OnResponseEnd()
		}
	}()

	o.history.AddUser(item.Text())

	content, err := o.converter.Convert(ctx, item)
	if err != nil {
		o.fail(err)
		return err
	}

	var enabled []*tools.Tool
	for _, t := range o.dispatcher.Tools() {
		if o.profile.ToolEnabled(t.Name) {
			enabled = append(enabled, t)
		}
	}

	req := agentrt.Request{
		Instructions: o.profile.Instructions,
		Context:      o.history.ContextBlock(o.profile.Model, o.profile.ContextTokenBudget),
		Content:      content,
		Tools:        enabled,
	}

	var reply strings.Builder
	err = o.runner.Run(ctx, req, func(ev agentrt.Event) {
		switch ev.Type {
		case agentrt.EventTextDelta:
			reply.WriteString(ev.TextDelta)
			sink.TextDelta(ev.TextDelta)
		case agentrt.EventToolCall:
			result := o.dispatcher.Dispatch(ctx, o.sess, *ev.Invocation)
			sink.ToolResult(*ev.Invocation, result)
		}
	})
	if err != nil {
		o.fail(err)
		return err
	}

	o.history.AddAgent(reply.String())
	return nil
}

func (o *Orchestrator) fail(err error) {
	o.log.Err(err).Msg("Agent turn failed")
	if o.OnError != nil {
		o.OnError(err)
	}
}
