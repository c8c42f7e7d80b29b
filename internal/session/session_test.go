// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/Nuruhussein/merkez/internal/session"
	"github.com/Nuruhussein/merkez/internal/testutil"
)

func TestNew(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := session.New(db, false)

	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", sm.Cookie.SameSite)
	}
	if !sm.Cookie.Secure {
		t.Error("production session cookie must be Secure")
	}
}

func TestNew_DevelopmentCookie(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := session.New(db, true)
	if sm.Cookie.Secure {
		t.Error("development session cookie must not require TLS")
	}
}
