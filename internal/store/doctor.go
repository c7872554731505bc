// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"clinicms/internal/models"
	"clinicms/internal/reconcile"
)

// DoctorStore persists Doctor aggregates: the profile row plus four
// independently ordered collections (appointment hours, education,
// experience, achievements), all reconciled in one transaction.
type DoctorStore struct {
	db *sql.DB
}

// NewDoctorStore creates a new DoctorStore with the given database connection.
func NewDoctorStore(db *sql.DB) *DoctorStore {
	return &DoctorStore{db: db}
}

var doctorAppointmentHours = collectionSpec{
	table:     "doctors_appointment_hours",
	parentCol: "doctor_id",
	cols:      []string{"day_of_week", "start_time", "end_time", "display_order"},
}

var doctorEducation = collectionSpec{
	table:     "doctors_education",
	parentCol: "doctor_id",
	cols:      []string{"degree", "institution", "year", "display_order"},
}

var doctorExperiences = collectionSpec{
	table:     "doctors_experiences",
	parentCol: "doctor_id",
	cols:      []string{"position", "organization", "start_year", "end_year", "display_order"},
}

var doctorAchievements = collectionSpec{
	table:     "doctors_achievements",
	parentCol: "doctor_id",
	cols:      []string{"title", "year", "display_order"},
}

func bindAppointmentHour(a *models.AppointmentHour) []any {
	return []any{a.DayOfWeek, a.StartTime, a.EndTime, a.DisplayOrder}
}

func bindEducation(e *models.Education) []any {
	return []any{e.Degree, e.Institution, e.Year, e.DisplayOrder}
}

func bindExperience(e *models.Experience) []any {
	return []any{e.Position, e.Organization, e.StartYear, e.EndYear, e.DisplayOrder}
}

func bindAchievement(a *models.Achievement) []any {
	return []any{a.Title, a.Year, a.DisplayOrder}
}

// Save reconciles one submitted Doctor aggregate inside a single
// transaction and returns the aggregate re-read from the store. Failures
// come back as *reconcile.SaveError.
func (s *DoctorStore) Save(ctx context.Context, id *int64, doc *models.Doctor) (*models.Doctor, error) {
	rootID, err := s.save(ctx, id, doc)
	if err != nil {
		return nil, reconcile.TranslateError(err)
	}

	saved, err := s.FindByID(ctx, rootID)
	if err != nil {
		return nil, reconcile.TranslateError(err)
	}
	return saved, nil
}

func (s *DoctorStore) save(ctx context.Context, id *int64, doc *models.Doctor) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save doctor: %w", err)
	}
	defer tx.Rollback()

	var rootID int64
	if id == nil {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO doctors (name, slug, specialty, bio, photo_url, status, author_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, doc.Name, doc.Slug, doc.Specialty, doc.Bio, doc.PhotoURL, doc.Status, doc.AuthorID,
		).Scan(&rootID)
		if err != nil {
			return 0, fmt.Errorf("create doctor: %w", err)
		}
	} else {
		rootID = *id
		_, err = tx.ExecContext(ctx, `
			UPDATE doctors SET
				name = $1, slug = $2, specialty = $3, bio = $4, photo_url = $5,
				status = $6, updated_at = NOW()
			WHERE id = $7
		`, doc.Name, doc.Slug, doc.Specialty, doc.Bio, doc.PhotoURL, doc.Status, rootID)
		if err != nil {
			return 0, fmt.Errorf("update doctor: %w", err)
		}
	}

	if err := reconcileCollection(ctx, tx, doctorAppointmentHours, rootID, doc.AppointmentHours, bindAppointmentHour, nil); err != nil {
		return 0, err
	}
	if err := reconcileCollection(ctx, tx, doctorEducation, rootID, doc.Education, bindEducation, nil); err != nil {
		return 0, err
	}
	if err := reconcileCollection(ctx, tx, doctorExperiences, rootID, doc.Experiences, bindExperience, nil); err != nil {
		return 0, err
	}
	if err := reconcileCollection(ctx, tx, doctorAchievements, rootID, doc.Achievements, bindAchievement, nil); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save doctor: %w", err)
	}
	return rootID, nil
}

// FindByID reassembles a doctor with all four collections ordered by
// display rank. Returns nil if the doctor does not exist.
func (s *DoctorStore) FindByID(ctx context.Context, id int64) (*models.Doctor, error) {
	return s.find(ctx, "id = $1", id)
}

// FindBySlug retrieves a published doctor by slug.
func (s *DoctorStore) FindBySlug(ctx context.Context, slug string) (*models.Doctor, error) {
	return s.find(ctx, "slug = $1 AND status = 'published'", slug)
}

func (s *DoctorStore) find(ctx context.Context, where string, arg any) (*models.Doctor, error) {
	d := &models.Doctor{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, specialty, bio, photo_url, status, author_id, created_at, updated_at
		FROM doctors WHERE `+where,
		arg,
	).Scan(&d.ID, &d.Name, &d.Slug, &d.Specialty, &d.Bio, &d.PhotoURL, &d.Status, &d.AuthorID, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find doctor: %w", err)
	}

	if err := s.loadCollections(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DoctorStore) loadCollections(ctx context.Context, d *models.Doctor) error {
	d.AppointmentHours = []*models.AppointmentHour{}
	err := s.queryOrdered(ctx, `
		SELECT id, day_of_week, start_time, end_time, display_order, created_at, updated_at
		FROM doctors_appointment_hours WHERE doctor_id = $1
		ORDER BY display_order, id
	`, d.ID, func(rows *sql.Rows) error {
		a := &models.AppointmentHour{}
		if err := rows.Scan(&a.ID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &a.DisplayOrder, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return err
		}
		d.AppointmentHours = append(d.AppointmentHours, a)
		return nil
	})
	if err != nil {
		return fmt.Errorf("list appointment hours: %w", err)
	}

	d.Education = []*models.Education{}
	err = s.queryOrdered(ctx, `
		SELECT id, degree, institution, year, display_order, created_at, updated_at
		FROM doctors_education WHERE doctor_id = $1
		ORDER BY display_order, id
	`, d.ID, func(rows *sql.Rows) error {
		e := &models.Education{}
		if err := rows.Scan(&e.ID, &e.Degree, &e.Institution, &e.Year, &e.DisplayOrder, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return err
		}
		d.Education = append(d.Education, e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("list education: %w", err)
	}

	d.Experiences = []*models.Experience{}
	err = s.queryOrdered(ctx, `
		SELECT id, position, organization, start_year, end_year, display_order, created_at, updated_at
		FROM doctors_experiences WHERE doctor_id = $1
		ORDER BY display_order, id
	`, d.ID, func(rows *sql.Rows) error {
		e := &models.Experience{}
		if err := rows.Scan(&e.ID, &e.Position, &e.Organization, &e.StartYear, &e.EndYear, &e.DisplayOrder, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return err
		}
		d.Experiences = append(d.Experiences, e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("list experiences: %w", err)
	}

	d.Achievements = []*models.Achievement{}
	err = s.queryOrdered(ctx, `
		SELECT id, title, year, display_order, created_at, updated_at
		FROM doctors_achievements WHERE doctor_id = $1
		ORDER BY display_order, id
	`, d.ID, func(rows *sql.Rows) error {
		a := &models.Achievement{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Year, &a.DisplayOrder, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return err
		}
		d.Achievements = append(d.Achievements, a)
		return nil
	})
	if err != nil {
		return fmt.Errorf("list achievements: %w", err)
	}
	return nil
}

func (s *DoctorStore) queryOrdered(ctx context.Context, query string, doctorID int64, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, doctorID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// List returns all doctors (roots only), newest first.
func (s *DoctorStore) List(ctx context.Context) ([]models.Doctor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, specialty, bio, photo_url, status, author_id, created_at, updated_at
		FROM doctors
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var items []models.Doctor
	for rows.Next() {
		var d models.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Slug, &d.Specialty, &d.Bio, &d.PhotoURL, &d.Status, &d.AuthorID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// Delete removes a doctor by id; child rows cascade.
func (s *DoctorStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	return nil
}
