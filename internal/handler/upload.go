// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// MaxUploadSize caps uploaded files at 5 MB.
const MaxUploadSize = 5 << 20

// uploadFieldName is the multipart field carrying the file.
const uploadFieldName = "image"

// multipart framing overhead allowed on top of the file cap
const uploadBodySlack = 64 << 10

// allowedUploadExts are the image extensions the upload endpoint accepts.
var allowedUploadExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// uploadResponse is the body returned for a stored upload. Width and
// Height are best-effort: present when the image decodes, omitted
// otherwise.
type uploadResponse struct {
	Filename string `json:"filename"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Upload handles POST /upload. Stores exactly one file under a generated
// collision-resistant name and returns that name; associating it with a
// post is the caller's job.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+uploadBodySlack)

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WritePayloadTooLarge(w, "File exceeds the 5 MB upload limit")
			return
		}
		WriteBadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		WritePayloadTooLarge(w, "File exceeds the 5 MB upload limit")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		WriteBadRequest(w, "File type not allowed: expected an image")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WritePayloadTooLarge(w, "File exceeds the 5 MB upload limit")
			return
		}
		logAndInternalError(w, "failed to read upload", "error", err)
		return
	}

	filename := uploadFieldName + "-" + uuid.New().String() + ext
	path := filepath.Join(h.uploadsDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		logAndInternalError(w, "failed to store upload", "error", err, "filename", filename)
		return
	}

	resp := uploadResponse{Filename: filename}
	// Dimension detection is best-effort; webp and exotic encodings won't
	// decode and that is fine.
	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		bounds := img.Bounds()
		resp.Width = bounds.Dx()
		resp.Height = bounds.Dy()
	}

	slog.Info("file uploaded",
		"filename", filename,
		"original", header.Filename,
		"size", len(data),
	)
	WriteJSON(w, http.StatusOK, resp)
}
