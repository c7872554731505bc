// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the clinic CMS admin API.
// Handlers are grouped by concern (admin, public) and receive their
// dependencies through the handler struct. The caller is assumed to be
// authenticated and authorized before any of these handlers run.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clinicms/internal/cache"
	"clinicms/internal/models"
	"clinicms/internal/reconcile"
	"clinicms/internal/slug"
	"clinicms/internal/store"
)

// Admin groups the aggregate-editing HTTP handlers and their dependencies.
type Admin struct {
	departments *store.DepartmentStore
	doctors     *store.DoctorStore
	galleries   *store.GalleryStore
	aggCache    *cache.AggregateCache
}

// NewAdmin creates a new Admin handler group. aggCache may be nil when
// Valkey is not configured; saves then skip cache invalidation.
func NewAdmin(departments *store.DepartmentStore, doctors *store.DoctorStore, galleries *store.GalleryStore, aggCache *cache.AggregateCache) *Admin {
	return &Admin{
		departments: departments,
		doctors:     doctors,
		galleries:   galleries,
		aggCache:    aggCache,
	}
}

const (
	statusSuccess = "SUCCESS"
	statusError   = "ERROR"
)

// saveResponse is the JSON envelope every save/delete returns.
type saveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`

	Department *models.Department `json:"department,omitempty"`
	Doctor     *models.Doctor     `json:"doctor,omitempty"`
	Gallery    *models.Gallery    `json:"gallery,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, saveResponse{Status: statusError, Message: message})
}

// writeSaveError maps a translated save failure onto the wire: duplicates
// are a recoverable 409 with the field-aware message, everything else is a
// 500 with a generic message. The underlying cause is logged, never sent.
func writeSaveError(w http.ResponseWriter, err error) {
	var saveErr *reconcile.SaveError
	if errors.As(err, &saveErr) {
		if saveErr.Kind == reconcile.KindDuplicate {
			writeError(w, http.StatusConflict, saveErr.Message)
			return
		}
		slog.Error("save failed", "error", err)
		writeError(w, http.StatusInternalServerError, saveErr.Message)
		return
	}
	slog.Error("save failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Something went wrong while saving. Please try again.")
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (a *Admin) invalidate(r *http.Request, kind string, slugs ...string) {
	if a.aggCache == nil {
		return
	}
	for _, s := range slugs {
		if s != "" {
			a.aggCache.Invalidate(r.Context(), cache.Key(kind, s))
		}
	}
}

// --- Departments ---

// DepartmentsList returns all department roots, newest first.
func (a *Admin) DepartmentsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.departments.List(r.Context())
	if err != nil {
		slog.Error("list departments", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load departments.")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// DepartmentShow returns one department aggregate with sections and cards.
func (a *Admin) DepartmentShow(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid department id.")
		return
	}

	dept, err := a.departments.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find department", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the department.")
		return
	}
	if dept == nil {
		writeError(w, http.StatusNotFound, "Department not found.")
		return
	}
	writeJSON(w, http.StatusOK, dept)
}

// DepartmentCreate saves a brand new department aggregate.
func (a *Admin) DepartmentCreate(w http.ResponseWriter, r *http.Request) {
	var payload models.Department
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}
	if payload.Slug == "" {
		payload.Slug = slug.Generate(payload.Name)
	}
	if msg := validateDepartment(&payload); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	saved, err := a.departments.Save(r.Context(), nil, &payload)
	if err != nil {
		writeSaveError(w, err)
		return
	}

	a.invalidate(r, "departments", saved.Slug)
	writeJSON(w, http.StatusCreated, saveResponse{
		Status: statusSuccess, Message: "Department saved.", Department: saved,
	})
}

// DepartmentUpdate reconciles an edited department aggregate against its
// persisted state.
func (a *Admin) DepartmentUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid department id.")
		return
	}

	existing, err := a.departments.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find department", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the department.")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Department not found.")
		return
	}

	var payload models.Department
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}
	if payload.Slug == "" {
		payload.Slug = slug.Generate(payload.Name)
	}
	if msg := validateDepartment(&payload); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	saved, err := a.departments.Save(r.Context(), &id, &payload)
	if err != nil {
		writeSaveError(w, err)
		return
	}

	// A renamed slug leaves a stale entry behind, so drop both.
	a.invalidate(r, "departments", existing.Slug, saved.Slug)
	writeJSON(w, http.StatusOK, saveResponse{
		Status: statusSuccess, Message: "Department saved.", Department: saved,
	})
}

// DepartmentDelete removes a department; sections and cards cascade.
func (a *Admin) DepartmentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid department id.")
		return
	}

	existing, err := a.departments.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find department", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the department.")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Department not found.")
		return
	}

	if err := a.departments.Delete(r.Context(), id); err != nil {
		slog.Error("delete department", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not delete the department.")
		return
	}

	a.invalidate(r, "departments", existing.Slug)
	writeJSON(w, http.StatusOK, saveResponse{Status: statusSuccess, Message: "Department deleted."})
}

// --- Doctors ---

// DoctorsList returns all doctor roots, newest first.
func (a *Admin) DoctorsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.doctors.List(r.Context())
	if err != nil {
		slog.Error("list doctors", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load doctors.")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// DoctorShow returns one doctor aggregate with all four collections.
func (a *Admin) DoctorShow(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid doctor id.")
		return
	}

	doc, err := a.doctors.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find doctor", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the doctor.")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "Doctor not found.")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DoctorCreate saves a brand new doctor aggregate.
func (a *Admin) DoctorCreate(w http.ResponseWriter, r *http.Request) {
	var payload models.Doctor
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}
	if payload.Slug == "" {
		payload.Slug = slug.Generate(payload.Name)
	}
	if msg := validateDoctor(&payload); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	saved, err := a.doctors.Save(r.Context(), nil, &payload)
	if err != nil {
		writeSaveError(w, err)
		return
	}

	a.invalidate(r, "doctors", saved.Slug)
	writeJSON(w, http.StatusCreated, saveResponse{
		Status: statusSuccess, Message: "Doctor saved.", Doctor: saved,
	})
}

// DoctorUpdate reconciles an edited doctor aggregate.
func (a *Admin) DoctorUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid doctor id.")
		return
	}

	existing, err := a.doctors.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find doctor", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the doctor.")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Doctor not found.")
		return
	}

	var payload models.Doctor
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}
	if payload.Slug == "" {
		payload.Slug = slug.Generate(payload.Name)
	}
	if msg := validateDoctor(&payload); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	saved, err := a.doctors.Save(r.Context(), &id, &payload)
	if err != nil {
		writeSaveError(w, err)
		return
	}

	a.invalidate(r, "doctors", existing.Slug, saved.Slug)
	writeJSON(w, http.StatusOK, saveResponse{
		Status: statusSuccess, Message: "Doctor saved.", Doctor: saved,
	})
}

// DoctorDelete removes a doctor; child rows cascade.
func (a *Admin) DoctorDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid doctor id.")
		return
	}

	existing, err := a.doctors.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find doctor", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the doctor.")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Doctor not found.")
		return
	}

	if err := a.doctors.Delete(r.Context(), id); err != nil {
		slog.Error("delete doctor", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not delete the doctor.")
		return
	}

	a.invalidate(r, "doctors", existing.Slug)
	writeJSON(w, http.StatusOK, saveResponse{Status: statusSuccess, Message: "Doctor deleted."})
}

// --- Galleries ---

// GalleriesList returns all gallery roots, newest first.
func (a *Admin) GalleriesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.galleries.List(r.Context())
	if err != nil {
		slog.Error("list galleries", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load galleries.")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GalleryShow returns one gallery aggregate with its images.
func (a *Admin) GalleryShow(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid gallery id.")
		return
	}

	g, err := a.galleries.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find gallery", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the gallery.")
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "Gallery not found.")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GalleryCreate saves a brand new gallery aggregate.
func (a *Admin) GalleryCreate(w http.ResponseWriter, r *http.Request) {
	var payload models.Gallery
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}
	if payload.Slug == "" {
		payload.Slug = slug.Generate(payload.Name)
	}
	if msg := validateGallery(&payload); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	saved, err := a.galleries.Save(r.Context(), nil, &payload)
	if err != nil {
		writeSaveError(w, err)
		return
	}

	a.invalidate(r, "galleries", saved.Slug)
	writeJSON(w, http.StatusCreated, saveResponse{
		Status: statusSuccess, Message: "Gallery saved.", Gallery: saved,
	})
}

// GalleryUpdate reconciles an edited gallery aggregate.
func (a *Admin) GalleryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid gallery id.")
		return
	}

	existing, err := a.galleries.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find gallery", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the gallery.")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Gallery not found.")
		return
	}

	var payload models.Gallery
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}
	if payload.Slug == "" {
		payload.Slug = slug.Generate(payload.Name)
	}
	if msg := validateGallery(&payload); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	saved, err := a.galleries.Save(r.Context(), &id, &payload)
	if err != nil {
		writeSaveError(w, err)
		return
	}

	a.invalidate(r, "galleries", existing.Slug, saved.Slug)
	writeJSON(w, http.StatusOK, saveResponse{
		Status: statusSuccess, Message: "Gallery saved.", Gallery: saved,
	})
}

// GalleryDelete removes a gallery; images cascade.
func (a *Admin) GalleryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid gallery id.")
		return
	}

	existing, err := a.galleries.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find gallery", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not load the gallery.")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Gallery not found.")
		return
	}

	if err := a.galleries.Delete(r.Context(), id); err != nil {
		slog.Error("delete gallery", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not delete the gallery.")
		return
	}

	a.invalidate(r, "galleries", existing.Slug)
	writeJSON(w, http.StatusOK, saveResponse{Status: statusSuccess, Message: "Gallery deleted."})
}
