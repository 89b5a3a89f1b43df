package tools

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/gwerrors"
	"github.com/cekat/assistant-gateway/pkg/nav"
)

const factSaveTimeout = 30 * time.Second

// Hooks are the callbacks the host injects into the builtin tools.
type Hooks struct {
	// OnThemeChange applies a validated color scheme ("light"/"dark").
	OnThemeChange func(scheme string) error

	// SaveFact persists a normalized fact. Invoked on a detached
	// goroutine; its failure reaches OnError, never the tool result.
	SaveFact func(ctx context.Context, factID, factText string) error

	// OnError receives side-effect failures that cannot be reported
	// through the tool result channel.
	OnError func(err error)

	// Navigator executes the deployment's navigation policy.
	Navigator *nav.Navigator

	// Titles resolves page titles for navigation descriptions the
	// agent leaves blank. Nil falls back to path-derived link text.
	Titles *nav.TitleResolver
}

// RegisterBuiltins adds the gateway's client tools to the registry:
// switch_theme, record_fact and navigate_to_url.
func RegisterBuiltins(registry *Registry, hooks Hooks, log zerolog.Logger) {
	log = log.With().Str("component", "tools").Logger()
	registry.Register(switchThemeTool(hooks, log))
	registry.Register(recordFactTool(hooks, log))
	registry.Register(navigateTool(hooks, log))
}

func switchThemeTool(hooks Hooks, log zerolog.Logger) *Tool {
	return &Tool{
		Tool: mcp.Tool{
			Name:        "switch_theme",
			Description: "Switch the chat interface between light and dark color schemes.",
			Annotations: &mcp.ToolAnnotations{Title: "Switch theme"},
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"theme": map[string]any{
						"type":        "string",
						"description": "The color scheme to apply, either 'light' or 'dark'",
						"enum":        []string{"light", "dark"},
					},
				},
				"required": []string{"theme"},
			},
		},
		Execute: func(_ context.Context, sess *Session, params map[string]any) Result {
			scheme := strings.ToLower(ReadString(params, "theme"))
			if scheme != "light" && scheme != "dark" {
				log.Debug().Err(gwerrors.ErrInvalidParams).Str("theme", scheme).Msg("Rejecting unsupported color scheme")
				return Failed()
			}
			if hooks.OnThemeChange != nil {
				if err := hooks.OnThemeChange(scheme); err != nil {
					log.Warn().Err(err).Msg("Theme change callback failed")
					return Failed()
				}
			}
			sess.SetTheme(scheme)
			return Ok(map[string]any{"theme": scheme})
		},
	}
}

func recordFactTool(hooks Hooks, log zerolog.Logger) *Tool {
	return &Tool{
		Tool: mcp.Tool{
			Name:        "record_fact",
			Description: "Record a fact shared by the user so it is saved immediately.",
			Annotations: &mcp.ToolAnnotations{Title: "Record fact"},
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fact_id": map[string]any{
						"type":        "string",
						"description": "Stable identifier for the fact, reused when the same fact is mentioned again",
					},
					"fact_text": map[string]any{
						"type":        "string",
						"description": "The fact itself, as a short sentence",
					},
				},
				"required": []string{"fact_id", "fact_text"},
			},
		},
		Execute: func(ctx context.Context, sess *Session, params map[string]any) Result {
			factID := ReadString(params, "fact_id")
			if factID == "" {
				// Nothing to persist, but the turn stays healthy.
				return Ok(nil)
			}
			// Check-and-insert precedes the side effect: a replayed
			// invocation is an idempotent no-op.
			if !sess.MarkFactSeen(factID) {
				return Ok(map[string]any{"fact_id": factID, "status": "duplicate"})
			}

			text := NormalizeFactText(ReadString(params, "fact_text"))
			if hooks.SaveFact != nil {
				// Fire-and-forget: the result returns without waiting
				// for persistence. The save outlives the invocation's
				// context; failures go to the out-of-band error hook.
				saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), factSaveTimeout)
				go func() {
					defer cancel()
					if err := hooks.SaveFact(saveCtx, factID, text); err != nil {
						log.Error().Err(err).Str("fact_id", factID).Msg("Fact persistence failed")
						if hooks.OnError != nil {
							hooks.OnError(err)
						}
					}
				}()
			}
			return Ok(map[string]any{"fact_id": factID, "status": "saved"})
		},
	}
}

func navigateTool(hooks Hooks, log zerolog.Logger) *Tool {
	return &Tool{
		Tool: mcp.Tool{
			Name:        "navigate_to_url",
			Description: "Navigate the user to a page when they explicitly ask to open or go to it.",
			Annotations: &mcp.ToolAnnotations{Title: "Navigate"},
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "The destination URL",
					},
					"open_in_new_tab": map[string]any{
						"type":        "boolean",
						"description": "Whether to open the page in a new tab (default true)",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "Short human-readable label for the destination",
					},
				},
				"required": []string{"url"},
			},
		},
		Execute: func(ctx context.Context, _ *Session, params map[string]any) Result {
			url := ReadString(params, "url")
			if url == "" {
				log.Debug().Err(gwerrors.ErrMissingURL).Msg("Rejecting navigation without a url")
				return Failed()
			}
			newTab := ReadBool(params, "open_in_new_tab", true)
			description := ReadString(params, "description")
			if description == "" && hooks.Titles != nil {
				description = hooks.Titles.Resolve(ctx, url)
			}
			if description == "" {
				description = nav.LinkText(url)
			}

			if hooks.Navigator != nil {
				if err := hooks.Navigator.Open(ctx, url, newTab); err != nil {
					log.Warn().Err(err).Str("url", url).Msg("Navigation failed")
					return Failed()
				}
			}
			return Ok(map[string]any{"url": url, "description": description})
		},
	}
}

// NormalizeFactText collapses consecutive whitespace into single
// spaces and trims the ends.
func NormalizeFactText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
