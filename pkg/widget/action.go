// Package widget routes widget-originated actions to the correct
// execution context: browser-local (open URL, save a downloaded file)
// or backend-relayed. Every branch resolves to a structured
// ActionResult; nothing escalates into the UI event loop.
package widget

// Action is a UI-originated event from an agent-rendered interactive
// component.
type Action struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
	ItemID  string         `json:"itemId,omitempty"`
}

// Known locally-handled action types. Anything else is relayed to the
// backend widget-action endpoint.
const (
	ActionNavigationOpen = "navigation.open"
	ActionImageDownload  = "image.download"
	ActionImageGenerated = "image_generation.download"
)

// ActionResult is returned to the UI layer after routing.
type ActionResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

func okResult(detail map[string]any) ActionResult {
	return ActionResult{Success: true, Detail: detail}
}

func failedResult(msg string) ActionResult {
	return ActionResult{Success: false, Error: msg}
}

// URL extracts the payload's url field, empty when absent or untyped.
func (a Action) URL() string {
	if a.Payload == nil {
		return ""
	}
	s, _ := a.Payload["url"].(string)
	return s
}
