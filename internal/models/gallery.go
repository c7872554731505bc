// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Gallery is an aggregate root: a named image collection with an explicit
// display order maintained by the editor.
type Gallery struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	AuthorID    *int64    `json:"author_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Images []*GalleryImage `json:"images"`
}

// GalleryImage is one image in a gallery. URL points at already-uploaded
// media; uploads themselves happen outside this backend.
type GalleryImage struct {
	ID           int64     `json:"id"`
	IsNew        bool      `json:"is_new"`
	DisplayOrder int       `json:"display_order"`
	URL          string    `json:"url"`
	AltText      string    `json:"alt_text"`
	Caption      string    `json:"caption"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (g *GalleryImage) ItemID() int64         { return g.ID }
func (g *GalleryImage) ItemIsNew() bool       { return g.IsNew }
func (g *GalleryImage) SetDisplayOrder(n int) { g.DisplayOrder = n }
