// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/Nuruhussein/merkez/internal/middleware"
	"github.com/Nuruhussein/merkez/internal/model"
	"github.com/Nuruhussein/merkez/internal/store"
)

// postsPageSize caps the list endpoint. There is no pagination beyond the
// cap; the frontend only ever shows the latest posts.
const postsPageSize = 8

// postRequest is the body for creating and updating a post. All three
// fields are required; Image is the filename returned by the upload
// endpoint.
type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

// validate writes a 400 response and returns false when a required field
// is missing.
func (req postRequest) validate(w http.ResponseWriter) bool {
	if req.Title == "" || req.Content == "" || req.Image == "" {
		WriteBadRequest(w, "Send all required fields: title, content, image")
		return false
	}
	return true
}

// ListPosts handles GET /posts. Returns the newest posts first, capped at
// postsPageSize.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPosts(r.Context(), postsPageSize)
	if err != nil {
		logAndInternalError(w, "failed to list posts", "error", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// CreatePost handles POST /posts. When the request carries a session the
// post is attributed to that user; anonymous creation leaves the author
// unset.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.validate(w) {
		return
	}

	var authorID sql.NullInt64
	if user := middleware.GetUser(r); user != nil {
		authorID = sql.NullInt64{Int64: user.ID, Valid: true}
	}

	post, err := h.queries.CreatePost(r.Context(), store.CreatePostParams{
		Title:     req.Title,
		Content:   req.Content,
		Image:     req.Image,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		logAndInternalError(w, "failed to create post", "error", err)
		return
	}

	WriteJSON(w, http.StatusCreated, post)
}

// GetPost handles GET /posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntityByID(w, r, "post", func(id int64) (model.Post, error) {
		return h.queries.GetPostByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"post": post})
}

// UpdatePost handles PUT /posts/{id}. Same required fields as create;
// title, content and image are replaced, the creation timestamp is not.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.validate(w) {
		return
	}

	affected, err := h.queries.UpdatePost(r.Context(), store.UpdatePostParams{
		Title:   req.Title,
		Content: req.Content,
		Image:   req.Image,
		ID:      id,
	})
	if err != nil {
		logAndInternalError(w, "failed to update post", "error", err, "post_id", id)
		return
	}
	if affected == 0 {
		WriteNotFound(w, "Post not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Post updated successfully"})
}

// DeletePost handles DELETE /posts/{id}. The admin gate sits in the
// middleware chain ahead of this handler.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid post ID")
		return
	}

	affected, err := h.queries.DeletePost(r.Context(), id)
	if err != nil {
		logAndInternalError(w, "failed to delete post", "error", err, "post_id", id)
		return
	}
	if affected == 0 {
		WriteNotFound(w, "Post not found")
		return
	}

	slog.Info("post deleted", "post_id", id)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
