// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the clinic aggregates the admin backend edits:
// departments, doctors, and galleries, each with ordered child collections.
package models

// Status represents the publishing state of an aggregate root.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)
