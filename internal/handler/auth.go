// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Nuruhussein/merkez/internal/auth"
	"github.com/Nuruhussein/merkez/internal/middleware"
	"github.com/Nuruhussein/merkez/internal/model"
	"github.com/Nuruhussein/merkez/internal/store"
)

// credentialsRequest is the body for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the public view of a user. The password hash never
// leaves the store layer.
type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func userToResponse(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// Register handles POST /auth/register. The system holds a single admin
// account: once one exists, registration is closed for good.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	// Closed registration wins over validation: once an admin exists the
	// answer is Conflict no matter what the body carries.
	admins, err := h.queries.CountAdmins(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to count admins", "error", err)
		return
	}
	if admins > 0 {
		WriteConflict(w, "Admin already exists")
		return
	}

	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteBadRequest(w, "Send all required fields: username, password")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     req.Username,
		PasswordHash: passwordHash,
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		logAndInternalError(w, "failed to create admin", "error", err, "username", req.Username)
		return
	}

	slog.Info("admin registered", "user_id", user.ID, "username", user.Username)
	WriteJSON(w, http.StatusCreated, map[string]string{"message": "Admin registered successfully"})
}

// Login handles POST /auth/login. Unknown users and wrong passwords get
// the same answer to avoid account enumeration.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteBadRequest(w, "Send all required fields: username, password")
		return
	}

	user, err := h.queries.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logAndInternalError(w, "database error during login", "error", err)
			return
		}
		slog.Debug("login attempt for unknown user", "username", req.Username)
		WriteUnauthorized(w, "Incorrect username or password")
		return
	}

	valid, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		logAndInternalError(w, "password check error", "error", err)
		return
	}
	if !valid {
		slog.Warn("invalid password attempt", "category", "auth", "username", req.Username)
		WriteUnauthorized(w, "Incorrect username or password")
		return
	}

	// Regenerate session token to prevent session fixation
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

// Logout handles GET /auth/logout. Destroys the server-side session; the
// session middleware expires the cookie on the way out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessions.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if err := h.sessions.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "session destroy error", "error", err, "user_id", userID)
		return
	}

	slog.Info("user logged out", "user_id", userID)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Check handles GET /auth/check. Always answers 200; the body reports
// whether the request carries a valid session.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"isAuthenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": true,
		"user":            userToResponse(*user),
	})
}
