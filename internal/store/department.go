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

// DepartmentStore persists Department aggregates: the department row plus
// its sections and, under each section, its cards. This is the only
// two-level aggregate; a card's parent section may itself be created in
// the same save, so cards are reconciled immediately after each section's
// id is resolved.
type DepartmentStore struct {
	db *sql.DB
}

// NewDepartmentStore creates a new DepartmentStore with the given database connection.
func NewDepartmentStore(db *sql.DB) *DepartmentStore {
	return &DepartmentStore{db: db}
}

var departmentSections = collectionSpec{
	table:     "department_sections",
	parentCol: "department_id",
	cols:      []string{"title", "body", "display_order"},
}

var departmentSectionCards = collectionSpec{
	table:     "department_section_cards",
	parentCol: "section_id",
	cols:      []string{"icon", "title", "description", "display_order"},
}

func bindSection(s *models.Section) []any {
	return []any{s.Title, s.Body, s.DisplayOrder}
}

func bindCard(c *models.Card) []any {
	return []any{c.Icon, c.Title, c.Description, c.DisplayOrder}
}

// Save reconciles one submitted Department aggregate inside a single
// transaction. With a nil id the root is inserted; otherwise the root's
// scalar fields are updated in place. Either way the whole aggregate
// commits or none of it does. The returned aggregate is re-read from the
// store after commit. Failures come back as *reconcile.SaveError.
func (s *DepartmentStore) Save(ctx context.Context, id *int64, dept *models.Department) (*models.Department, error) {
	rootID, err := s.save(ctx, id, dept)
	if err != nil {
		return nil, reconcile.TranslateError(err)
	}

	saved, err := s.FindByID(ctx, rootID)
	if err != nil {
		return nil, reconcile.TranslateError(err)
	}
	return saved, nil
}

func (s *DepartmentStore) save(ctx context.Context, id *int64, dept *models.Department) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save department: %w", err)
	}
	// Rollback is a no-op once the transaction has committed; on every
	// other exit path it returns the connection with nothing written.
	defer tx.Rollback()

	var rootID int64
	if id == nil {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO departments (name, slug, description, status, author_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, dept.Name, dept.Slug, dept.Description, dept.Status, dept.AuthorID,
		).Scan(&rootID)
		if err != nil {
			return 0, fmt.Errorf("create department: %w", err)
		}
	} else {
		rootID = *id
		_, err = tx.ExecContext(ctx, `
			UPDATE departments SET
				name = $1, slug = $2, description = $3, status = $4,
				updated_at = NOW()
			WHERE id = $5
		`, dept.Name, dept.Slug, dept.Description, dept.Status, rootID)
		if err != nil {
			return 0, fmt.Errorf("update department: %w", err)
		}
	}

	err = reconcileCollection(ctx, tx, departmentSections, rootID, dept.Sections, bindSection,
		func(section *models.Section, sectionID int64) error {
			return reconcileCollection(ctx, tx, departmentSectionCards, sectionID, section.Cards, bindCard, nil)
		})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save department: %w", err)
	}
	return rootID, nil
}

// FindByID reassembles a department with its sections and cards ordered by
// display rank. Returns nil if the department does not exist.
func (s *DepartmentStore) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	return s.find(ctx, "id = $1", id)
}

// FindBySlug retrieves a published department by slug. Used for public
// page rendering.
func (s *DepartmentStore) FindBySlug(ctx context.Context, slug string) (*models.Department, error) {
	return s.find(ctx, "slug = $1 AND status = 'published'", slug)
}

func (s *DepartmentStore) find(ctx context.Context, where string, arg any) (*models.Department, error) {
	d := &models.Department{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, description, status, author_id, created_at, updated_at
		FROM departments WHERE `+where,
		arg,
	).Scan(&d.ID, &d.Name, &d.Slug, &d.Description, &d.Status, &d.AuthorID, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find department: %w", err)
	}

	if err := s.loadSections(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DepartmentStore) loadSections(ctx context.Context, d *models.Department) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, body, display_order, created_at, updated_at
		FROM department_sections
		WHERE department_id = $1
		ORDER BY display_order, id
	`, d.ID)
	if err != nil {
		return fmt.Errorf("list department sections: %w", err)
	}
	defer rows.Close()

	d.Sections = []*models.Section{}
	bySection := map[int64]*models.Section{}
	for rows.Next() {
		sec := &models.Section{Cards: []*models.Card{}}
		if err := rows.Scan(&sec.ID, &sec.Title, &sec.Body, &sec.DisplayOrder, &sec.CreatedAt, &sec.UpdatedAt); err != nil {
			return fmt.Errorf("scan section: %w", err)
		}
		d.Sections = append(d.Sections, sec)
		bySection[sec.ID] = sec
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// One pass over all cards of the department, bucketed per section.
	cardRows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.section_id, c.icon, c.title, c.description, c.display_order, c.created_at, c.updated_at
		FROM department_section_cards c
		JOIN department_sections sec ON sec.id = c.section_id
		WHERE sec.department_id = $1
		ORDER BY c.display_order, c.id
	`, d.ID)
	if err != nil {
		return fmt.Errorf("list section cards: %w", err)
	}
	defer cardRows.Close()

	for cardRows.Next() {
		card := &models.Card{}
		var sectionID int64
		if err := cardRows.Scan(&card.ID, &sectionID, &card.Icon, &card.Title, &card.Description, &card.DisplayOrder, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return fmt.Errorf("scan card: %w", err)
		}
		if sec, ok := bySection[sectionID]; ok {
			sec.Cards = append(sec.Cards, card)
		}
	}
	return cardRows.Err()
}

// List returns all departments (roots only), newest first. Used by the
// admin index page.
func (s *DepartmentStore) List(ctx context.Context) ([]models.Department, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, description, status, author_id, created_at, updated_at
		FROM departments
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var items []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Slug, &d.Description, &d.Status, &d.AuthorID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// Delete removes a department by id. Sections and cards go with it via
// the store-level cascade.
func (s *DepartmentStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}
