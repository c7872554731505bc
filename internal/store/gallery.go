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

// GalleryStore persists Gallery aggregates: the gallery row plus its
// ordered image collection, reconciled in one transaction.
type GalleryStore struct {
	db *sql.DB
}

// NewGalleryStore creates a new GalleryStore with the given database connection.
func NewGalleryStore(db *sql.DB) *GalleryStore {
	return &GalleryStore{db: db}
}

var galleryImages = collectionSpec{
	table:     "gallery_images",
	parentCol: "gallery_id",
	cols:      []string{"url", "alt_text", "caption", "display_order"},
}

func bindGalleryImage(g *models.GalleryImage) []any {
	return []any{g.URL, g.AltText, g.Caption, g.DisplayOrder}
}

// Save reconciles one submitted Gallery aggregate inside a single
// transaction and returns the aggregate re-read from the store. Failures
// come back as *reconcile.SaveError.
func (s *GalleryStore) Save(ctx context.Context, id *int64, g *models.Gallery) (*models.Gallery, error) {
	rootID, err := s.save(ctx, id, g)
	if err != nil {
		return nil, reconcile.TranslateError(err)
	}

	saved, err := s.FindByID(ctx, rootID)
	if err != nil {
		return nil, reconcile.TranslateError(err)
	}
	return saved, nil
}

func (s *GalleryStore) save(ctx context.Context, id *int64, g *models.Gallery) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save gallery: %w", err)
	}
	defer tx.Rollback()

	var rootID int64
	if id == nil {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO galleries (name, slug, description, status, author_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, g.Name, g.Slug, g.Description, g.Status, g.AuthorID,
		).Scan(&rootID)
		if err != nil {
			return 0, fmt.Errorf("create gallery: %w", err)
		}
	} else {
		rootID = *id
		_, err = tx.ExecContext(ctx, `
			UPDATE galleries SET
				name = $1, slug = $2, description = $3, status = $4,
				updated_at = NOW()
			WHERE id = $5
		`, g.Name, g.Slug, g.Description, g.Status, rootID)
		if err != nil {
			return 0, fmt.Errorf("update gallery: %w", err)
		}
	}

	if err := reconcileCollection(ctx, tx, galleryImages, rootID, g.Images, bindGalleryImage, nil); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save gallery: %w", err)
	}
	return rootID, nil
}

// FindByID reassembles a gallery with its images ordered by display rank.
// Returns nil if the gallery does not exist.
func (s *GalleryStore) FindByID(ctx context.Context, id int64) (*models.Gallery, error) {
	return s.find(ctx, "id = $1", id)
}

// FindBySlug retrieves a published gallery by slug.
func (s *GalleryStore) FindBySlug(ctx context.Context, slug string) (*models.Gallery, error) {
	return s.find(ctx, "slug = $1 AND status = 'published'", slug)
}

func (s *GalleryStore) find(ctx context.Context, where string, arg any) (*models.Gallery, error) {
	g := &models.Gallery{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, description, status, author_id, created_at, updated_at
		FROM galleries WHERE `+where,
		arg,
	).Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.Status, &g.AuthorID, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find gallery: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, alt_text, caption, display_order, created_at, updated_at
		FROM gallery_images
		WHERE gallery_id = $1
		ORDER BY display_order, id
	`, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	g.Images = []*models.GalleryImage{}
	for rows.Next() {
		img := &models.GalleryImage{}
		if err := rows.Scan(&img.ID, &img.URL, &img.AltText, &img.Caption, &img.DisplayOrder, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		g.Images = append(g.Images, img)
	}
	return g, rows.Err()
}

// List returns all galleries (roots only), newest first.
func (s *GalleryStore) List(ctx context.Context) ([]models.Gallery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, slug, description, status, author_id, created_at, updated_at
		FROM galleries
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list galleries: %w", err)
	}
	defer rows.Close()

	var items []models.Gallery
	for rows.Next() {
		var g models.Gallery
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.Description, &g.Status, &g.AuthorID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan gallery: %w", err)
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// Delete removes a gallery by id; images cascade.
func (s *GalleryStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM galleries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gallery: %w", err)
	}
	return nil
}
