// Package repo implements the data persistence layer for the link store,
// backed by GORM. This file provides repository functions for the Link model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a link is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - A duplicate slug insert returns gorm.ErrDuplicatedKey (the store's
//     unique constraint is the only arbiter of slug availability; there is
//     deliberately no pre-check).
//   - On other DB errors (connectivity issues, etc.), the raw gorm error
//     is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-shortlink-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateLink inserts a new Link row mapping slug to url. The store assigns
// the ID and creation timestamp.
//
// On success, it returns the persisted Link. A duplicate slug yields
// gorm.ErrDuplicatedKey; other failures return the raw DB error.
func CreateLink(ctx context.Context, db *gorm.DB, slug, url string) (*domain.Link, error) {
	l := &domain.Link{
		Slug: slug,
		URL:  url,
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

// GetLinkBySlug fetches a single link by its slug. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is returned.
func GetLinkBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Link, error) {
	var l domain.Link
	err := db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// CountLinks returns the total number of stored links.
// On DB error, it returns the error.
func CountLinks(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Link{}).
		Count(&total).Error
	return total, err
}

// ListLinksPage returns a paginated slice of links, ordered by creation time
// descending (most recent first). Use CountLinks to obtain the total for
// pagination metadata. On DB error, it returns the error.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListLinksPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Link, error) {
	var out []domain.Link
	err := db.WithContext(ctx).
		Order("created_at desc").
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
