// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/Nuruhussein/merkez/internal/mailer"
	"github.com/Nuruhussein/merkez/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	queries  *store.Queries
	sessions *scs.SessionManager

	// mailer is nil when SMTP is not configured; message creation then
	// skips notification entirely.
	mailer *mailer.Mailer

	uploadsDir    string
	validateEmail bool
}

// Option configures optional Handler collaborators.
type Option func(*Handler)

// WithMailer attaches the notification mailer.
func WithMailer(m *mailer.Mailer) Option {
	return func(h *Handler) { h.mailer = m }
}

// WithEmailValidation enables syntactic email validation on message
// creation.
func WithEmailValidation(enabled bool) Option {
	return func(h *Handler) { h.validateEmail = enabled }
}

// NewHandler creates the API handler.
func NewHandler(db *sql.DB, sm *scs.SessionManager, uploadsDir string, opts ...Option) *Handler {
	h := &Handler{
		queries:    store.New(db),
		sessions:   sm,
		uploadsDir: uploadsDir,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ParseIDParam parses the {id} URL parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// requireEntityByID parses an ID from the URL and fetches the entity.
// Returns the entity and true on success, or the zero value and false
// after writing the error response. entityName appears in error messages.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch func(id int64) (T, error)) (T, bool) {
	var zero T

	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID")
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		} else {
			logAndInternalError(w, "failed to get "+entityName, "error", err, entityName+"_id", id)
		}
		return zero, false
	}

	return entity, true
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
