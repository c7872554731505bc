// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Doctor is an aggregate root: the doctor profile plus four independently
// ordered child collections (appointment hours, education, experience,
// achievements).
type Doctor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Specialty string    `json:"specialty"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photo_url"`
	Status    Status    `json:"status"`
	AuthorID  *int64    `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AppointmentHours []*AppointmentHour `json:"appointment_hours"`
	Education        []*Education       `json:"education"`
	Experiences      []*Experience      `json:"experiences"`
	Achievements     []*Achievement     `json:"achievements"`
}

// AppointmentHour is one consultation slot on the doctor's weekly schedule.
type AppointmentHour struct {
	ID           int64     `json:"id"`
	IsNew        bool      `json:"is_new"`
	DisplayOrder int       `json:"display_order"`
	DayOfWeek    string    `json:"day_of_week"`
	StartTime    string    `json:"start_time"` // "HH:MM", 24-hour
	EndTime      string    `json:"end_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *AppointmentHour) ItemID() int64         { return a.ID }
func (a *AppointmentHour) ItemIsNew() bool       { return a.IsNew }
func (a *AppointmentHour) SetDisplayOrder(n int) { a.DisplayOrder = n }

// Education is one degree or training entry on the doctor's profile.
type Education struct {
	ID           int64     `json:"id"`
	IsNew        bool      `json:"is_new"`
	DisplayOrder int       `json:"display_order"`
	Degree       string    `json:"degree"`
	Institution  string    `json:"institution"`
	Year         int       `json:"year"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Education) ItemID() int64         { return e.ID }
func (e *Education) ItemIsNew() bool       { return e.IsNew }
func (e *Education) SetDisplayOrder(n int) { e.DisplayOrder = n }

// Experience is one position the doctor has held. EndYear is nil for a
// current position.
type Experience struct {
	ID           int64     `json:"id"`
	IsNew        bool      `json:"is_new"`
	DisplayOrder int       `json:"display_order"`
	Position     string    `json:"position"`
	Organization string    `json:"organization"`
	StartYear    int       `json:"start_year"`
	EndYear      *int      `json:"end_year,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Experience) ItemID() int64         { return e.ID }
func (e *Experience) ItemIsNew() bool       { return e.IsNew }
func (e *Experience) SetDisplayOrder(n int) { e.DisplayOrder = n }

// Achievement is one award or recognition entry.
type Achievement struct {
	ID           int64     `json:"id"`
	IsNew        bool      `json:"is_new"`
	DisplayOrder int       `json:"display_order"`
	Title        string    `json:"title"`
	Year         int       `json:"year"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Achievement) ItemID() int64         { return a.ID }
func (a *Achievement) ItemIsNew() bool       { return a.IsNew }
func (a *Achievement) SetDisplayOrder(n int) { a.DisplayOrder = n }
