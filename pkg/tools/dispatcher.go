package tools

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/gwerrors"
)

// Dispatcher routes invocations to registered handlers. An
// unrecognized name yields a failed result, never an error: the agent
// runtime keeps the turn alive regardless of unknown tools.
type Dispatcher struct {
	registry *Registry
	log      zerolog.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		log:      log.With().Str("component", "tools").Logger(),
	}
}

// Registry returns the underlying registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Tools returns every registered tool, for handing to the agent
// runtime.
func (d *Dispatcher) Tools() []*Tool {
	return d.registry.All()
}

// Dispatch executes the named tool against the session. Every branch
// resolves to a structured result; an internal fault in a handler is
// recovered and reported as failure rather than escaping into the
// agent runtime's event loop.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *Session, inv Invocation) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Str("tool", inv.Name).
				Str("invocation_id", inv.InvocationID).
				Any("panic", r).
				Msg("Tool handler panicked")
			result = Failed()
		}
	}()

	tool := d.registry.Get(inv.Name)
	if tool == nil || tool.Execute == nil {
		d.log.Debug().
			Err(gwerrors.ErrUnknownTool).
			Str("tool", inv.Name).
			Str("invocation_id", inv.InvocationID).
			Msg("Ignoring unknown tool invocation")
		return Failed()
	}

	result = tool.Execute(ctx, sess, inv.Params)
	d.log.Debug().
		Str("tool", inv.Name).
		Str("invocation_id", inv.InvocationID).
		Bool("success", result.Success).
		Msg("Tool dispatched")
	return result
}
