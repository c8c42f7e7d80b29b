// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Post is a blog entry. Image holds the generated filename returned by
// the upload endpoint; Author is optional and nullable.
type Post struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Image     string        `json:"image,omitempty"`
	AuthorID  sql.NullInt64 `json:"-"`
	CreatedAt time.Time     `json:"createdAt"`
}
