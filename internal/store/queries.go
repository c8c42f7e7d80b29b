// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Nuruhussein/merkez/internal/model"
)

// Queries wraps a database handle with typed query methods.
type Queries struct {
	db *sql.DB
}

// New creates a Queries instance for the given database.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// CreateUserParams holds the fields for inserting a user.
type CreateUserParams struct {
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// CreateUser inserts a new user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?)`,
		arg.Username, arg.PasswordHash, boolToInt(arg.IsAdmin), arg.CreatedAt)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID:           id,
		Username:     arg.Username,
		PasswordHash: arg.PasswordHash,
		IsAdmin:      arg.IsAdmin,
		CreatedAt:    arg.CreatedAt,
	}, nil
}

// GetUserByUsername returns the user with the given username.
// Returns sql.ErrNoRows if no such user exists.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username = ?`,
		username)
	return scanUser(row)
}

// GetUserByID returns the user with the given ID.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin, created_at FROM users WHERE id = ?`,
		id)
	return scanUser(row)
}

// CountAdmins returns the number of users carrying the admin flag.
func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_admin = 1`).Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var isAdmin int64
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &isAdmin, &u.CreatedAt); err != nil {
		return model.User{}, err
	}
	u.IsAdmin = isAdmin != 0
	return u, nil
}

// CreatePostParams holds the fields for inserting a post.
type CreatePostParams struct {
	Title     string
	Content   string
	Image     string
	AuthorID  sql.NullInt64
	CreatedAt time.Time
}

// CreatePost inserts a new post and returns the stored row.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO posts (title, content, image, author_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Title, arg.Content, arg.Image, arg.AuthorID, arg.CreatedAt)
	if err != nil {
		return model.Post{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Post{}, err
	}
	return model.Post{
		ID:        id,
		Title:     arg.Title,
		Content:   arg.Content,
		Image:     arg.Image,
		AuthorID:  arg.AuthorID,
		CreatedAt: arg.CreatedAt,
	}, nil
}

// GetPostByID returns the post with the given ID.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	var p model.Post
	err := q.db.QueryRowContext(ctx,
		`SELECT id, title, content, image, author_id, created_at FROM posts WHERE id = ?`,
		id).Scan(&p.ID, &p.Title, &p.Content, &p.Image, &p.AuthorID, &p.CreatedAt)
	return p, err
}

// ListPosts returns up to limit posts, newest first.
func (q *Queries) ListPosts(ctx context.Context, limit int64) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, title, content, image, author_id, created_at
		 FROM posts ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Image, &p.AuthorID, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePostParams holds the fields for replacing a post's content.
type UpdatePostParams struct {
	Title   string
	Content string
	Image   string
	ID      int64
}

// UpdatePost replaces title, content and image of the post. The creation
// timestamp is never touched. Returns the number of affected rows so the
// caller can distinguish a missing ID.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, image = ? WHERE id = ?`,
		arg.Title, arg.Content, arg.Image, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeletePost removes the post with the given ID. Returns the number of
// affected rows.
func (q *Queries) DeletePost(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateMessageParams holds the fields for inserting a contact message.
type CreateMessageParams struct {
	Name        string
	Email       string
	Message     string
	PhoneNumber string
	CreatedAt   time.Time
}

// CreateMessage inserts a new contact message and returns the stored row.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (model.Message, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO messages (name, email, message, phonenumber, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Name, arg.Email, arg.Message, arg.PhoneNumber, arg.CreatedAt)
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	return model.Message{
		ID:          id,
		Name:        arg.Name,
		Email:       arg.Email,
		Message:     arg.Message,
		PhoneNumber: arg.PhoneNumber,
		CreatedAt:   arg.CreatedAt,
	}, nil
}

// GetMessageByID returns the message with the given ID.
func (q *Queries) GetMessageByID(ctx context.Context, id int64) (model.Message, error) {
	var m model.Message
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, email, message, phonenumber, created_at FROM messages WHERE id = ?`,
		id).Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.PhoneNumber, &m.CreatedAt)
	return m, err
}

// ListMessages returns all messages, newest first.
func (q *Queries) ListMessages(ctx context.Context) ([]model.Message, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, email, message, phonenumber, created_at
		 FROM messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.PhoneNumber, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// DeleteMessage removes the message with the given ID. Returns the number
// of affected rows.
func (q *Queries) DeleteMessage(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateEventParams holds the fields for inserting an event-log record.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event-log record.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt)
	return err
}

// DeleteEventsBefore removes event-log records created before the cutoff.
// Returns the number of removed rows.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
