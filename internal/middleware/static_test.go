// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStaticCache(t *testing.T) {
	handler := StaticCache(604800)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/uploads/image.png", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=604800" {
		t.Errorf("Cache-Control = %q, want public, max-age=604800", got)
	}
}

func TestNoDirListing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "image.png"), []byte("png bytes"), 0644); err != nil {
		t.Fatalf("writing fixture file: %v", err)
	}

	handler := NoDirListing(http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir))))

	t.Run("directory request gets JSON 404", func(t *testing.T) {
		paths := []string{"/uploads/", "/uploads/sub/"}
		for _, path := range paths {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusNotFound)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("GET %s Content-Type = %q, want application/json", path, ct)
			}
			raw := rec.Body.String()
			if strings.Contains(raw, "<a href") {
				t.Errorf("GET %s leaked a directory index", path)
			}
			var body map[string]string
			if err := json.Unmarshal([]byte(raw), &body); err != nil {
				t.Fatalf("GET %s decoding body: %v", path, err)
			}
			if body["code"] != "not_found" {
				t.Errorf("GET %s code = %q, want not_found", path, body["code"])
			}
		}
	})

	t.Run("file request is served", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/uploads/image.png", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if got := rec.Body.String(); got != "png bytes" {
			t.Errorf("body = %q, want file contents", got)
		}
	})
}
