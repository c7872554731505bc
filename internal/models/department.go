// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Department is an aggregate root: the department page itself plus its
// ordered sections, each of which owns an ordered set of cards.
type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	AuthorID    *int64    `json:"author_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Sections []*Section `json:"sections"`
}

// Section is a content block within a department page. On submission the
// ID of a new section is a client-side placeholder; the real id is assigned
// by the database and threaded down to the section's cards.
type Section struct {
	ID           int64     `json:"id"`
	IsNew        bool      `json:"is_new"`
	DisplayOrder int       `json:"display_order"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Cards []*Card `json:"cards"`
}

func (s *Section) ItemID() int64         { return s.ID }
func (s *Section) ItemIsNew() bool       { return s.IsNew }
func (s *Section) SetDisplayOrder(n int) { s.DisplayOrder = n }

// Card is a highlight tile inside a section (icon, short title, blurb).
type Card struct {
	ID           int64     `json:"id"`
	IsNew        bool      `json:"is_new"`
	DisplayOrder int       `json:"display_order"`
	Icon         string    `json:"icon"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Card) ItemID() int64         { return c.ID }
func (c *Card) ItemIsNew() bool       { return c.IsNew }
func (c *Card) SetDisplayOrder(n int) { c.DisplayOrder = n }
