package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cekat/assistant-gateway/pkg/attach"
	"github.com/cekat/assistant-gateway/pkg/convert"
	"github.com/cekat/assistant-gateway/pkg/tools"
)

type chatPart struct {
	Text       string      `json:"text,omitempty"`
	Attachment *attach.Ref `json:"attachment,omitempty"`
}

type chatRequest struct {
	ID    string     `json:"id"`
	Parts []chatPart `json:"parts"`
}

// sseSink streams orchestrator output to the client as server-sent
// events.
type sseSink struct {
	c echo.Context
}

func (s *sseSink) emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(s.c.Response(), "event: %s\ndata: %s\n\n", event, data)
	s.c.Response().Flush()
}

func (s *sseSink) TextDelta(delta string) {
	s.emit("text_delta", map[string]string{"delta": delta})
}

func (s *sseSink) ToolResult(inv tools.Invocation, result tools.Result) {
	s.emit("tool_result", map[string]any{
		"invocation_id": inv.InvocationID,
		"name":          inv.Name,
		"success":       result.Success,
		"payload":       result.Payload,
	})
}

func (s *Server) handleChat(c echo.Context) error {
	threadID := c.Param("thread")
	if threadID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "thread id is required")
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid chat request")
	}

	item := convert.ThreadItem{ID: req.ID, Role: convert.RoleUser}
	for _, p := range req.Parts {
		item.Parts = append(item.Parts, convert.Part{Text: p.Text, Attachment: p.Attachment})
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	sink := &sseSink{c: c}
	orch := s.sessions.Get(threadID)
	if err := orch.Respond(c.Request().Context(), item, sink); err != nil {
		sink.emit("error", map[string]string{"error": err.Error()})
	}
	sink.emit("done", map[string]string{"thread_id": threadID})
	return nil
}
