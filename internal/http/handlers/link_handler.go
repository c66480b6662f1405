// Short-link HTTP handlers.
//
// This file exposes the shortener endpoints:
//   - POST /api/short         (create, bearer-protected)
//   - GET  /api/short         (list, bearer-protected, paginated)
//   - GET  /api/short/{slug}  (redirect)
//   - GET  /short/{slug}      (redirect, path form)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
//
// Wire-format note: creation and resolution keep the envelope their existing
// clients already parse — `{"success":true,"data":{...}}` on 201 and
// `{"error":"..."}` on failure — rather than this package's ErrorResponse.
// Resolution never errors outward at all; it redirects to the site root.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shortlink-backend/internal/domain"
	"github.com/tbourn/go-shortlink-backend/internal/http/middleware"
	"github.com/tbourn/go-shortlink-backend/internal/services"
	"github.com/tbourn/go-shortlink-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// LinkService defines the short-link operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type LinkService interface {
	// Authorize validates the bearer credential in constant time.
	Authorize(token string) error
	// Create persists a new link, generating a slug when none is supplied.
	Create(ctx context.Context, token, url, slug string) (*domain.Link, error)
	// Resolve maps a slug to its redirect target; total, never errors.
	// hit reports whether the slug resolved to a stored URL.
	Resolve(ctx context.Context, slug string) (target string, hit bool)
	// ListPage returns a page of links and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Link, int64, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for short links and the transcript
// viewer. It depends on an abstract service interface to keep transport
// concerns separate from business logic.
type Handlers struct {
	linkSvc LinkService
}

// New constructs and returns a Handlers instance bound to the given service.
func New(linkSvc LinkService) *Handlers {
	return &Handlers{linkSvc: linkSvc}
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. A missing header or any other scheme yields "".
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return h[len("Bearer "):]
}

//
// DTOs
//

// CreateLinkRequest is the JSON payload for creating a short link.
type CreateLinkRequest struct {
	// URL is the absolute target URL (required; not format-validated).
	URL string `json:"url"`
	// Slug optionally fixes the short identifier; one is generated when empty.
	Slug string `json:"slug,omitempty"`
}

// CreateLinkResponse is the success envelope for link creation.
type CreateLinkResponse struct {
	Success bool        `json:"success"`
	Data    domain.Link `json:"data"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListLinksResponse wraps a page of links and pagination information.
type ListLinksResponse struct {
	Links      []domain.Link `json:"links"`
	Pagination Pagination    `json:"pagination"`
}

//
// Helpers
//

// wireError writes the legacy `{"error": "..."}` envelope used by the
// shortener API and logs server-side failures.
func wireError(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().Int("status", status).Str("message", msg).Msg("short link api error")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	return utils.ClampPage(page, pageSize, maxPageSize)
}

//
// Handlers
//

// CreateShortLink handles POST /api/short.
//
// Flow mirrors the public contract exactly: credential first (any failure is
// an undifferentiated 401), then URL presence (400), then insert. Every other
// failure — malformed body, duplicate slug, store outage — collapses to the
// generic 500 so no internal detail leaks.
func (h *Handlers) CreateShortLink(c *gin.Context) {
	token := bearerToken(c)
	if err := h.linkSvc.Authorize(token); err != nil {
		wireError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		wireError(c, http.StatusInternalServerError, "Failed to create short link")
		return
	}

	link, err := h.linkSvc.Create(c.Request.Context(), token, req.URL, req.Slug)
	switch {
	case err == nil:
		middleware.CountLinkCreated()
		ok(c, http.StatusCreated, CreateLinkResponse{Success: true, Data: *link})
	case err == services.ErrUnauthorized:
		wireError(c, http.StatusUnauthorized, "Unauthorized")
	case err == services.ErrURLRequired:
		wireError(c, http.StatusBadRequest, "URL is required")
	default:
		wireError(c, http.StatusInternalServerError, "Failed to create short link")
	}
}

// ResolveShortLink handles GET /short/{slug} and GET /api/short/{slug}.
// Both routes share this handler so the lookup semantics and fallback policy
// cannot drift apart. The response is always a redirect: to the stored URL
// when the slug resolves, to the site root otherwise.
func (h *Handlers) ResolveShortLink(c *gin.Context) {
	target, hit := h.linkSvc.Resolve(c.Request.Context(), c.Param("slug"))
	middleware.CountRedirect(hit)
	c.Redirect(http.StatusTemporaryRedirect, target)
}

// ListShortLinks handles GET /api/short (bearer-protected, paginated).
func (h *Handlers) ListShortLinks(c *gin.Context) {
	if err := h.linkSvc.Authorize(bearerToken(c)); err != nil {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}

	page, pageSize := clampPagination(c)
	items, total, err := h.linkSvc.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "failed to list short links")
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListLinksResponse{
		Links: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
