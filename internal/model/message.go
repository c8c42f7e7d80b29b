// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Message is a contact-form submission. All fields except CreatedAt are
// optional; validation policy is configurable at the handler layer.
type Message struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Message     string    `json:"message,omitempty"`
	PhoneNumber string    `json:"phonenumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
