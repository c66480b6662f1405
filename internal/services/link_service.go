// Package services – LinkService
//
// This file implements the LinkService, which owns both short-link
// operations: authenticated creation and public resolution. Creation
// validates the bearer credential in constant time, fills in a generated
// slug when the caller supplies none, and persists the record. Resolution
// is total: it always yields a redirect target, degrading to the configured
// site root on a miss or store failure (logged server-side, never surfaced).
//
// Service-level errors (ErrUnauthorized, ErrURLRequired, ErrSlugTaken) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-shortlink-backend/internal/domain"
	"github.com/tbourn/go-shortlink-backend/internal/slug"
)

// LinkRepo defines the repository contract required by LinkService.
// Implementations are responsible for persistence of link records.
type LinkRepo interface {
	// CreateLink inserts a new link row; duplicate slugs must surface as
	// gorm.ErrDuplicatedKey.
	CreateLink(ctx context.Context, db *gorm.DB, slug, url string) (*domain.Link, error)

	// GetLinkBySlug fetches a link by slug, or gorm.ErrRecordNotFound.
	GetLinkBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Link, error)

	// CountLinks returns the total number of links for pagination.
	CountLinks(ctx context.Context, db *gorm.DB) (int64, error)

	// ListLinksPage returns a page of links, most recent first.
	ListLinksPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Link, error)
}

// LinkService provides short-link creation, resolution, and listing.
type LinkService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the link repository used by this service.
	Repo LinkRepo

	// AuthToken is the shared secret required by Create. An empty value
	// disables creation entirely (every attempt is unauthorized).
	AuthToken string
	// SiteRoot is the fallback redirect target for unresolvable slugs.
	SiteRoot string

	// NewSlug produces an identifier when the caller supplies no slug.
	// Defaults to slug.New.
	NewSlug func() string
}

// NewLinkService constructs a LinkService with the default slug generator.
func NewLinkService(db *gorm.DB, r LinkRepo, authToken, siteRoot string) *LinkService {
	if siteRoot == "" {
		siteRoot = "/"
	}
	return &LinkService{
		DB:        db,
		Repo:      r,
		AuthToken: authToken,
		SiteRoot:  siteRoot,
		NewSlug:   slug.New,
	}
}

// Authorize checks the presented bearer token against the configured secret.
// The comparison confirms equal length first, then runs a fixed-time byte
// comparison, so timing never correlates with the length of a matching
// prefix. Missing, empty, and wrong tokens all collapse to ErrUnauthorized.
func (s *LinkService) Authorize(token string) error {
	if s.AuthToken == "" || token == "" {
		return ErrUnauthorized
	}
	if len(token) != len(s.AuthToken) {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.AuthToken)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Create validates the bearer token and target URL, resolves the slug
// (caller-supplied verbatim, otherwise generated), and persists the record.
//
// The URL is required but deliberately not format-validated, and slug
// availability is never pre-checked: a duplicate surfaces as ErrSlugTaken
// from the store's unique constraint, which keeps concurrent creates with
// the same slug correct (exactly one insert wins).
func (s *LinkService) Create(ctx context.Context, token, url, sl string) (*domain.Link, error) {
	if err := s.Authorize(token); err != nil {
		return nil, err
	}
	if strings.TrimSpace(url) == "" {
		return nil, ErrURLRequired
	}
	if sl == "" {
		sl = s.NewSlug()
	}

	link, err := s.Repo.CreateLink(ctx, s.DB, sl, url)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return link, nil
}

// Resolve maps a slug to its redirect target. It is total: an empty slug,
// an unknown slug, or a store failure all yield the site root with hit=false.
// Store failures are logged here and never exposed to the caller.
func (s *LinkService) Resolve(ctx context.Context, sl string) (target string, hit bool) {
	if sl == "" {
		return s.SiteRoot, false
	}
	link, err := s.Repo.GetLinkBySlug(ctx, s.DB, sl)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Str("slug", sl).Msg("short link lookup failed")
		}
		return s.SiteRoot, false
	}
	return link.URL, true
}

// ListPage returns a page of links plus the total count. It applies
// defaults for invalid page/pageSize.
func (s *LinkService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Link, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountLinks(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Link{}, 0, nil
	}

	items, err := s.Repo.ListLinksPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
