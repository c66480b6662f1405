// Transcript viewer handler.
//
// GET /chat renders a read-only, Discord-style transcript from a base64
// payload carried entirely in the `data` query parameter. Decoding and
// grouping are pure (internal/transcript); no storage is involved, so a
// malformed payload is a page-level error with usage guidance, never a
// server error.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shortlink-backend/internal/http/middleware"
	"github.com/tbourn/go-shortlink-backend/internal/transcript"
)

// User-facing decode failure copy, distinguishing "nothing supplied" from
// "supplied but unusable".
const (
	msgNoData        = "No data provided in URL. Add ?data=<base64-encoded-json> to the URL."
	msgNotArray      = "Invalid data format. Expected an array of messages."
	msgDecodeFailure = "Failed to decode or parse data. Make sure it's valid base64-encoded JSON."
)

// ShowTranscript handles GET /chat.
func (h *Handlers) ShowTranscript(c *gin.Context) {
	view := buildTranscriptView(c.Query("data"), time.Now())

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := transcript.Render(c.Writer, view); err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Error().Err(err).Msg("transcript render failed")
	}
}

// buildTranscriptView decodes and groups the payload, mapping each decode
// failure mode to its user-facing message.
func buildTranscriptView(data string, now time.Time) transcript.PageView {
	msgs, err := transcript.Decode(data)
	switch {
	case err == nil:
		return transcript.BuildView(msgs, now)
	case errors.Is(err, transcript.ErrNoData):
		return transcript.ErrorView(msgNoData)
	case errors.Is(err, transcript.ErrNotArray):
		return transcript.ErrorView(msgNotArray)
	default:
		return transcript.ErrorView(msgDecodeFailure)
	}
}
