// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Nuruhussein/merkez/internal/handler"
	"github.com/Nuruhussein/merkez/internal/middleware"
	"github.com/Nuruhussein/merkez/internal/session"
	"github.com/Nuruhussein/merkez/internal/testutil"
)

// testApp wires a handler, session manager and router the way main does,
// backed by a temporary database. The client carries a cookie jar so
// session cookies survive across requests.
type testApp struct {
	srv        *httptest.Server
	client     *http.Client
	db         *sql.DB
	uploadsDir string
}

func newTestApp(t *testing.T, opts ...handler.Option) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	uploadsDir := t.TempDir()
	sessionManager := session.New(db, true)
	h := handler.NewHandler(db, sessionManager, uploadsDir, opts...)

	r := chi.NewRouter()
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadUser(sessionManager, db))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/logout", h.Logout)
		r.Get("/check", h.Check)
	})
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Post("/", h.CreatePost)
		r.Get("/{id}", h.GetPost)
		r.Put("/{id}", h.UpdatePost)
		r.With(middleware.RequireAdmin()).Delete("/{id}", h.DeletePost)
	})
	r.Route("/messages", func(r chi.Router) {
		r.Post("/", h.CreateMessage)
		r.Get("/", h.ListMessages)
		r.Get("/{id}", h.GetMessage)
		r.Delete("/{id}", h.DeleteMessage)
	})
	r.Post("/upload", h.Upload)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}

	return &testApp{
		srv:        srv,
		client:     &http.Client{Jar: jar},
		db:         db,
		uploadsDir: uploadsDir,
	}
}

// doJSON sends a request with an optional JSON body and decodes the JSON
// response into a map.
func (a *testApp) doJSON(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reqBody)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("decoding response from %s %s: %v", method, path, err)
	}
	return resp.StatusCode, decoded
}

// registerAndLogin creates the admin account and opens a session for it.
func (a *testApp) registerAndLogin(t *testing.T) {
	t.Helper()

	creds := map[string]string{"username": "admin", "password": "changeme"}
	if code, _ := a.doJSON(t, http.MethodPost, "/auth/register", creds); code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", code)
	}
	if code, _ := a.doJSON(t, http.MethodPost, "/auth/login", creds); code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", code)
	}
}

// createPost creates a post through the API and returns its ID.
func (a *testApp) createPost(t *testing.T, title string) int64 {
	t.Helper()

	code, body := a.doJSON(t, http.MethodPost, "/posts/", map[string]string{
		"title":   title,
		"content": "Some content",
		"image":   "image-test.png",
	})
	if code != http.StatusCreated {
		t.Fatalf("create post status = %d, want 201", code)
	}
	id, ok := body["id"].(float64)
	if !ok {
		t.Fatalf("create post response has no numeric id: %v", body)
	}
	return int64(id)
}
