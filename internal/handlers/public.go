// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinicms/internal/cache"
	"clinicms/internal/store"
)

// Public groups the read-only handlers serving published aggregates to the
// clinic website by slug, with a Valkey read-through cache in front of the
// projection queries.
type Public struct {
	departments *store.DepartmentStore
	doctors     *store.DoctorStore
	galleries   *store.GalleryStore
	aggCache    *cache.AggregateCache
}

// NewPublic creates a new Public handler group. aggCache may be nil; reads
// then always hit the store.
func NewPublic(departments *store.DepartmentStore, doctors *store.DoctorStore, galleries *store.GalleryStore, aggCache *cache.AggregateCache) *Public {
	return &Public{
		departments: departments,
		doctors:     doctors,
		galleries:   galleries,
		aggCache:    aggCache,
	}
}

// Department serves a published department by slug.
func (p *Public) Department(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "departments", func(ctx context.Context, slug string) (any, error) {
		d, err := p.departments.FindBySlug(ctx, slug)
		if err != nil || d == nil {
			return nil, err
		}
		return d, nil
	})
}

// Doctor serves a published doctor profile by slug.
func (p *Public) Doctor(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "doctors", func(ctx context.Context, slug string) (any, error) {
		d, err := p.doctors.FindBySlug(ctx, slug)
		if err != nil || d == nil {
			return nil, err
		}
		return d, nil
	})
}

// Gallery serves a published gallery by slug.
func (p *Public) Gallery(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, "galleries", func(ctx context.Context, slug string) (any, error) {
		g, err := p.galleries.FindBySlug(ctx, slug)
		if err != nil || g == nil {
			return nil, err
		}
		return g, nil
	})
}

// serve answers from the cache when it can, otherwise projects the
// aggregate and fills the cache. Absence is a plain 404, not an error.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, kind string, load func(context.Context, string) (any, error)) {
	slugParam := chi.URLParam(r, "slug")
	key := cache.Key(kind, slugParam)

	if p.aggCache != nil {
		if body, ok := p.aggCache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}
	}

	item, err := load(r.Context(), slugParam)
	if err != nil {
		slog.Error("load published aggregate", "kind", kind, "slug", slugParam, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the page.")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	body, err := json.Marshal(item)
	if err != nil {
		slog.Error("marshal aggregate", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the page.")
		return
	}

	if p.aggCache != nil {
		p.aggCache.Set(r.Context(), key, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
