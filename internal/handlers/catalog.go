// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studiegids/internal/cache"
	"studiegids/internal/hierarchy"
	"studiegids/internal/models"
	"studiegids/internal/store"
)

// Catalog serves the public read endpoints: the assembled course list,
// tags and study profiles.
type Catalog struct {
	courses    *store.CourseStore
	objectives *store.ObjectiveStore
	tags       *store.TagStore
	profiles   *store.ProfileStore
	cache      *cache.CatalogCache
}

// NewCatalog creates the catalog read handlers. The cache may be nil.
func NewCatalog(courses *store.CourseStore, objectives *store.ObjectiveStore, tags *store.TagStore, profiles *store.ProfileStore, catalogCache *cache.CatalogCache) *Catalog {
	return &Catalog{
		courses:    courses,
		objectives: objectives,
		tags:       tags,
		profiles:   profiles,
		cache:      catalogCache,
	}
}

// courseEntry is one course in the catalog response: the approved record
// with its objectives, tags and computed children.
type courseEntry struct {
	models.Course
	Objectives []models.Objective `json:"objectives"`
	Tags       []models.Tag       `json:"tags"`
	Childs     []models.Course    `json:"childs"`
}

// Courses returns every approved course with objectives, tags and children
// attached. The serialized payload is cached in Valkey; mutations
// invalidate it.
func (h *Catalog) Courses(w http.ResponseWriter, r *http.Request) {
	if payload, ok := h.cache.Get(r.Context()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
		return
	}

	payload, err := h.buildCatalog()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load courses")
		return
	}

	h.cache.Set(r.Context(), payload)
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// buildCatalog assembles and serializes the full course listing.
func (h *Catalog) buildCatalog() ([]byte, error) {
	courses, err := h.courses.ListApproved()
	if err != nil {
		return nil, err
	}
	objectivesByCourse, err := h.objectives.MapByCourse()
	if err != nil {
		return nil, err
	}
	tagsByCourse, err := h.tags.MapByCourse()
	if err != nil {
		return nil, err
	}
	childIndex := hierarchy.ChildIndex(courses)

	entries := make([]courseEntry, 0, len(courses))
	for _, c := range courses {
		entry := courseEntry{
			Course:     c,
			Objectives: objectivesByCourse[c.ZCode],
			Tags:       tagsByCourse[c.ZCode],
			Childs:     childIndex[c.ZCode],
		}
		// Consumers expect arrays, not nulls.
		if entry.Objectives == nil {
			entry.Objectives = []models.Objective{}
		}
		if entry.Tags == nil {
			entry.Tags = []models.Tag{}
		}
		if entry.Childs == nil {
			entry.Childs = []models.Course{}
		}
		entries = append(entries, entry)
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return payload, nil
}

// Course returns a single approved course by code, with objectives, tags
// and children.
func (h *Catalog) Course(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	c, err := h.courses.FindApproved(code)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load course")
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "course not found")
		return
	}

	objectives, err := h.objectives.ListByCourse(c.ZCode)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load course")
		return
	}
	tags, err := h.tags.ListByCourse(c.ZCode)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load course")
		return
	}
	all, err := h.courses.ListApproved()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load course")
		return
	}

	entry := courseEntry{
		Course:     *c,
		Objectives: objectives,
		Tags:       tags,
		Childs:     hierarchy.ChildIndex(all)[c.ZCode],
	}
	if entry.Objectives == nil {
		entry.Objectives = []models.Objective{}
	}
	if entry.Tags == nil {
		entry.Tags = []models.Tag{}
	}
	if entry.Childs == nil {
		entry.Childs = []models.Course{}
	}
	respondJSON(w, http.StatusOK, entry)
}

// Tags returns all tags, name ascending.
func (h *Catalog) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load tags")
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	respondJSON(w, http.StatusOK, tags)
}

// Profiles returns all study profiles, name ascending.
func (h *Catalog) Profiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load profiles")
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	respondJSON(w, http.StatusOK, profiles)
}
