// Package domain defines the persistence model for short links. The type is
// mapped with GORM and forms the core data layer of the shortener.
package domain

import "time"

// Link maps a short slug to its target URL. Links are append-only: once
// created, neither slug nor URL is ever updated or deleted by this system.
//
// Fields:
//   - ID: auto-incrementing primary key assigned by the store.
//   - Slug: unique short identifier used as the redirect path segment.
//   - URL: absolute target URL to redirect to.
//   - CreatedAt: insert timestamp managed by GORM.
type Link struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	Slug      string    `json:"slug"       gorm:"type:varchar(64);not null;uniqueIndex:ux_links_slug"`
	URL       string    `json:"url"        gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Link.
func (Link) TableName() string { return "links" }
