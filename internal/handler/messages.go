// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/Nuruhussein/merkez/internal/mailer"
	"github.com/Nuruhussein/merkez/internal/model"
	"github.com/Nuruhussein/merkez/internal/store"
)

// messageRequest is the body for creating a contact message. Every field
// is optional unless email validation is switched on.
type messageRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	PhoneNumber string `json:"phonenumber"`
}

// CreateMessage handles POST /messages. The message is persisted first;
// the notification email, when configured, is queued afterwards and its
// outcome never reaches this response.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if h.validateEmail {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			WriteBadRequest(w, "Invalid email address")
			return
		}
	}

	msg, err := h.queries.CreateMessage(r.Context(), store.CreateMessageParams{
		Name:        req.Name,
		Email:       req.Email,
		Message:     req.Message,
		PhoneNumber: req.PhoneNumber,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		logAndInternalError(w, "failed to create message", "error", err)
		return
	}

	if h.mailer != nil {
		h.mailer.Enqueue(notificationFor(msg))
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Message created successfully",
		"data":    msg,
	})
}

// notificationFor builds the admin notification for a stored message.
func notificationFor(m model.Message) mailer.Notification {
	return mailer.Notification{
		Subject: "New Contact Form Message",
		Body: fmt.Sprintf("You have received a new message from %s (%s):\n\n%s\n\nPhone Number: %s",
			m.Name, m.Email, m.Message, m.PhoneNumber),
		ReplyTo: m.Email,
	}
}

// ListMessages handles GET /messages. The list is unbounded, newest first.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.queries.ListMessages(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list messages", "error", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// GetMessage handles GET /messages/{id}.
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	msg, ok := requireEntityByID(w, r, "message", func(id int64) (model.Message, error) {
		return h.queries.GetMessageByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"message": msg})
}

// DeleteMessage handles DELETE /messages/{id}.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid message ID")
		return
	}

	affected, err := h.queries.DeleteMessage(r.Context(), id)
	if err != nil {
		logAndInternalError(w, "failed to delete message", "error", err, "message_id", id)
		return
	}
	if affected == 0 {
		WriteNotFound(w, "Message not found")
		return
	}

	slog.Info("message deleted", "message_id", id)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Message deleted successfully"})
}
