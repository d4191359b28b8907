// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studiegids/internal/cache"
	"studiegids/internal/ingest"
	"studiegids/internal/store"
	"studiegids/internal/verify"
)

// Curation serves the write side of the catalog: edit submissions, the
// verification gate and the manual ingest trigger. Every successful write
// invalidates the cached catalog so readers never see pre-mutation data.
type Curation struct {
	courses  *store.CourseStore
	gate     *verify.Gate
	cred     verify.Credential
	pipeline *ingest.Pipeline
	catalog  *cache.CatalogCache
}

// NewCuration creates the curation handlers. The pipeline may be nil when
// no catalog source is configured; the ingest trigger then reports 503.
func NewCuration(courses *store.CourseStore, gate *verify.Gate, cred verify.Credential, pipeline *ingest.Pipeline, catalog *cache.CatalogCache) *Curation {
	return &Curation{courses: courses, gate: gate, cred: cred, pipeline: pipeline, catalog: catalog}
}

// SubmitEdit records a proposed edit against an approved course. The
// submission is held as a pending shadow record until an operator promotes
// it; repeated submissions overwrite the same pending record.
func (h *Curation) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req store.EditRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateEdit(&req); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	pendingCode, err := h.courses.SubmitEdit(r.Context(), code, req)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "course not found")
		return
	}
	if err != nil {
		slog.Error("submit edit", "code", code, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to submit edit")
		return
	}
	h.catalog.Invalidate(r.Context())

	respondJSON(w, http.StatusCreated, map[string]string{"pending_code": pendingCode})
}

// verifyRequest is the promotion payload: the pending code and the shared
// operator secret.
type verifyRequest struct {
	ZCode  string `json:"z_code"`
	Secret string `json:"secret"`
}

// Verify promotes a pending record onto its approved original. Each
// precondition failure maps to its own status so the operator can tell a
// bad secret from a stale code.
func (h *Curation) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.gate.Promote(r.Context(), req.ZCode, req.Secret)
	switch {
	case err == nil:
		h.catalog.Invalidate(r.Context())
		respondJSON(w, http.StatusOK, map[string]string{"status": "promoted", "z_code": req.ZCode})
	case errors.Is(err, verify.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, verify.ErrNotMigratable):
		respondError(w, http.StatusUnprocessableEntity, "code is not a pending code")
	case errors.Is(err, store.ErrPendingNotFound):
		respondError(w, http.StatusNotFound, "pending course not found")
	case errors.Is(err, store.ErrApprovedNotFound):
		respondError(w, http.StatusNotFound, "approved course not found")
	default:
		slog.Error("promote", "code", req.ZCode, "error", err)
		respondError(w, http.StatusInternalServerError, "promotion failed")
	}
}

// Ingest runs one scrape batch synchronously and returns its report.
// Guarded by the same operator credential as promotion.
func (h *Curation) Ingest(w http.ResponseWriter, r *http.Request) {
	if !h.cred.Matches(r.Header.Get("X-Verify-Secret")) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if h.pipeline == nil {
		respondError(w, http.StatusServiceUnavailable, "no catalog source configured")
		return
	}

	report, err := h.pipeline.Run(r.Context())
	if err != nil {
		slog.Error("ingest batch", "error", err)
		respondError(w, http.StatusBadGateway, "ingest batch failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
