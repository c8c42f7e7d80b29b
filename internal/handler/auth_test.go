// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"net/http"
	"testing"
)

func TestRegister(t *testing.T) {
	app := newTestApp(t)

	code, body := app.doJSON(t, http.MethodPost, "/auth/register", map[string]string{
		"username": "admin",
		"password": "changeme",
	})
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}
	if body["message"] != "Admin registered successfully" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestRegister_SecondAdminRejected(t *testing.T) {
	app := newTestApp(t)

	creds := map[string]string{"username": "admin", "password": "changeme"}
	if code, _ := app.doJSON(t, http.MethodPost, "/auth/register", creds); code != http.StatusCreated {
		t.Fatalf("first register status = %d, want 201", code)
	}

	// Rejected no matter what the body carries: valid credentials, empty
	// credentials, or no body at all.
	tests := []struct {
		name string
		body any
	}{
		{"valid credentials", map[string]string{"username": "another", "password": "different"}},
		{"empty credentials", map[string]string{}},
		{"no body", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := app.doJSON(t, http.MethodPost, "/auth/register", tt.body)
			if code != http.StatusConflict {
				t.Fatalf("second register status = %d, want 409", code)
			}
			if body["message"] != "Admin already exists" {
				t.Errorf("message = %v", body["message"])
			}
		})
	}
}

func TestRegister_MissingFields(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing password", map[string]string{"username": "admin"}},
		{"missing username", map[string]string{"password": "changeme"}},
		{"empty body", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := app.doJSON(t, http.MethodPost, "/auth/register", tt.body)
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", code)
			}
			if body["message"] != "Send all required fields: username, password" {
				t.Errorf("message = %v", body["message"])
			}
		})
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.doJSON(t, http.MethodPost, "/auth/register", map[string]string{
		"username": "admin", "password": "changeme",
	})

	tests := []struct {
		name string
		body map[string]string
	}{
		{"unknown user", map[string]string{"username": "nobody", "password": "changeme"}},
		{"wrong password", map[string]string{"username": "admin", "password": "wrong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := app.doJSON(t, http.MethodPost, "/auth/login", tt.body)
			if code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", code)
			}
			// Both failure modes answer identically.
			if body["message"] != "Incorrect username or password" {
				t.Errorf("message = %v", body["message"])
			}
		})
	}
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	// Anonymous check
	code, body := app.doJSON(t, http.MethodGet, "/auth/check", nil)
	if code != http.StatusOK {
		t.Fatalf("check status = %d, want 200", code)
	}
	if body["isAuthenticated"] != false {
		t.Errorf("isAuthenticated = %v before login, want false", body["isAuthenticated"])
	}

	app.registerAndLogin(t)

	// Authenticated check
	code, body = app.doJSON(t, http.MethodGet, "/auth/check", nil)
	if code != http.StatusOK {
		t.Fatalf("check status = %d, want 200", code)
	}
	if body["isAuthenticated"] != true {
		t.Fatalf("isAuthenticated = %v after login, want true", body["isAuthenticated"])
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("check response has no user object: %v", body)
	}
	if user["username"] != "admin" {
		t.Errorf("user.username = %v", user["username"])
	}
	if user["isAdmin"] != true {
		t.Errorf("user.isAdmin = %v, want true", user["isAdmin"])
	}

	// Logout
	code, body = app.doJSON(t, http.MethodGet, "/auth/logout", nil)
	if code != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", code)
	}
	if body["message"] != "Logout successful" {
		t.Errorf("message = %v", body["message"])
	}

	// Session is gone
	code, body = app.doJSON(t, http.MethodGet, "/auth/check", nil)
	if code != http.StatusOK {
		t.Fatalf("check status = %d, want 200", code)
	}
	if body["isAuthenticated"] != false {
		t.Errorf("isAuthenticated = %v after logout, want false", body["isAuthenticated"])
	}
}

func TestLogin_NoBody(t *testing.T) {
	app := newTestApp(t)

	code, body := app.doJSON(t, http.MethodPost, "/auth/login", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if body["message"] != "Request body is required" {
		t.Errorf("message = %v", body["message"])
	}
}
