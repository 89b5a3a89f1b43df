package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cekat/assistant-gateway/pkg/attach"
	"github.com/cekat/assistant-gateway/pkg/facts"
	"github.com/cekat/assistant-gateway/pkg/gwerrors"
	"github.com/cekat/assistant-gateway/pkg/widget"
)

const maxUploadBytes = 50 << 20

func (s *Server) handleWidgetAction(c echo.Context) error {
	var action widget.Action
	if err := c.Bind(&action); err != nil {
		return c.JSON(http.StatusBadRequest, widget.ActionResult{
			Success: false,
			Error:   "invalid widget action",
		})
	}
	result := s.widgets.Route(c.Request().Context(), action)
	return c.JSON(http.StatusOK, result)
}

func (s *Server) listFacts(c echo.Context) error {
	saved, err := s.facts.ListSaved(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list facts")
	}
	if saved == nil {
		saved = []facts.Fact{}
	}
	return c.JSON(http.StatusOK, map[string]any{"facts": saved})
}

func (s *Server) saveFact(c echo.Context) error {
	id := c.Param("id")
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "fact text is required")
	}
	fact, err := s.facts.Save(c.Request().Context(), id, body.Text)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save fact")
	}
	return c.JSON(http.StatusOK, fact)
}

func (s *Server) discardFact(c echo.Context) error {
	id := c.Param("id")
	fact, err := s.facts.Discard(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, facts.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "fact not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to discard fact")
	}
	return c.JSON(http.StatusOK, fact)
}

func (s *Server) createAttachment(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		MimeType string `json:"mime_type"`
		Size     int64  `json:"size"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.MimeType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "mime_type is required")
	}
	ref, err := s.attachments.Create(c.Request().Context(), body.Name, body.MimeType, body.Size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create attachment")
	}
	return c.JSON(http.StatusCreated, ref)
}

func (s *Server) uploadAttachment(c echo.Context) error {
	id := c.Param("id")
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxUploadBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read upload")
	}
	if err := s.attachments.Put(c.Request().Context(), id, data); err != nil {
		if gwerrors.IsAttachmentUnavailable(err) {
			return echo.NewHTTPError(http.StatusNotFound, "attachment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store attachment")
	}
	ref, err := s.attachments.Stat(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to stat attachment")
	}
	return c.JSON(http.StatusOK, ref)
}

func (s *Server) downloadAttachment(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	// S3-backed stores hand out a presigned URL instead of proxying
	// the bytes.
	if s3store, ok := s.attachments.(*attach.S3Store); ok {
		url, err := s3store.PresignGet(ctx, id, 15*time.Minute)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "attachment not found")
		}
		return c.Redirect(http.StatusTemporaryRedirect, url)
	}

	ref, err := s.attachments.Stat(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "attachment not found")
	}
	data, err := s.attachments.Read(ctx, ref)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "attachment not found")
	}
	return c.Blob(http.StatusOK, ref.MimeType, data)
}
