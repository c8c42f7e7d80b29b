// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pngBytes encodes a tiny valid PNG for upload tests.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 3))); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

// uploadFile sends a multipart upload with the given field name, filename
// and content, returning status and decoded body.
func uploadFile(t *testing.T, app *testApp, field, filename string, content []byte) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, app.srv.URL+"/upload", &buf)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.client.Do(req)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestUpload(t *testing.T) {
	app := newTestApp(t)

	code, body := uploadFile(t, app, "image", "photo.png", pngBytes(t))
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %v)", code, body)
	}

	filename, _ := body["filename"].(string)
	if !strings.HasPrefix(filename, "image-") || !strings.HasSuffix(filename, ".png") {
		t.Fatalf("filename = %q, want image-<uuid>.png", filename)
	}

	// File landed in the uploads directory.
	if _, err := os.Stat(filepath.Join(app.uploadsDir, filename)); err != nil {
		t.Fatalf("uploaded file not on disk: %v", err)
	}

	// Dimensions are reported for a decodable image.
	if body["width"] != float64(2) || body["height"] != float64(3) {
		t.Errorf("dimensions = %vx%v, want 2x3", body["width"], body["height"])
	}
}

func TestUpload_UniqueFilenames(t *testing.T) {
	app := newTestApp(t)
	content := pngBytes(t)

	_, first := uploadFile(t, app, "image", "same.png", content)
	_, second := uploadFile(t, app, "image", "same.png", content)

	if first["filename"] == second["filename"] {
		t.Fatalf("two uploads of the same file share a name: %v", first["filename"])
	}
}

func TestUpload_TooLarge(t *testing.T) {
	app := newTestApp(t)

	big := bytes.Repeat([]byte{0xAB}, 6<<20) // 6 MB
	code, body := uploadFile(t, app, "image", "big.png", big)
	if code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", code)
	}
	if body["code"] != "payload_too_large" {
		t.Errorf("code = %v, want payload_too_large", body["code"])
	}
}

func TestUpload_MissingFile(t *testing.T) {
	app := newTestApp(t)

	code, _ := uploadFile(t, app, "attachment", "photo.png", pngBytes(t))
	if code != http.StatusBadRequest {
		t.Fatalf("wrong field name status = %d, want 400", code)
	}
}

func TestUpload_DisallowedExtension(t *testing.T) {
	app := newTestApp(t)

	code, body := uploadFile(t, app, "image", "script.exe", []byte("MZ"))
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "File type not allowed") {
		t.Errorf("message = %q", msg)
	}
}

func TestUpload_UndecodableImageStillStored(t *testing.T) {
	app := newTestApp(t)

	// Valid extension, junk content. Stored anyway; no dimensions.
	code, body := uploadFile(t, app, "image", "broken.jpg", []byte("not an image"))
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if _, present := body["width"]; present {
		t.Errorf("width reported for undecodable image: %v", body["width"])
	}
}
