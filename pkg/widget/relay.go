package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cekat/assistant-gateway/pkg/gwerrors"
)

const relayTimeout = 30 * time.Second

// RelayClient forwards widget actions the UI cannot handle locally to
// the backend's generic widget-action endpoint.
type RelayClient struct {
	Endpoint string
	Client   *http.Client
}

type relayRequest struct {
	Action Action `json:"action"`
	ItemID string `json:"itemId"`
}

// Send posts {action, itemId} and decodes the backend's structured
// result. Non-2xx responses and malformed JSON both count as relay
// failures.
func (rc *RelayClient) Send(ctx context.Context, action Action) (ActionResult, error) {
	client := rc.Client
	if client == nil {
		client = &http.Client{Timeout: relayTimeout}
	}

	body, err := json.Marshal(relayRequest{Action: action, ItemID: action.ItemID})
	if err != nil {
		return ActionResult{}, &gwerrors.RelayError{Endpoint: rc.Endpoint, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.Endpoint, bytes.NewReader(body))
	if err != nil {
		return ActionResult{}, &gwerrors.RelayError{Endpoint: rc.Endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return ActionResult{}, &gwerrors.RelayError{Endpoint: rc.Endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ActionResult{}, &gwerrors.RelayError{Endpoint: rc.Endpoint, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ActionResult{}, &gwerrors.RelayError{Endpoint: rc.Endpoint, Err: err}
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return ActionResult{}, &gwerrors.RelayError{Endpoint: rc.Endpoint, Err: fmt.Errorf("malformed response: %w", err)}
	}
	success, _ := decoded["success"].(bool)
	errMsg, _ := decoded["error"].(string)
	return ActionResult{Success: success, Error: errMsg, Detail: decoded}, nil
}
