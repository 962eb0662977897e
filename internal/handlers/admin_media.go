// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/render"
)

// maxUploadSize is the maximum allowed file upload size (20 MB).
const maxUploadSize = 20 << 20

// allowedMediaTypes defines MIME types accepted for upload. Thumbnails
// are images, so only image types are allowed.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// mediaExtensions maps sniffed content types to a file extension used
// when the original filename has none.
var mediaExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// MediaList renders the media management page.
func (a *Admin) MediaList(w http.ResponseWriter, r *http.Request) {
	a.mediaPage(w, r, "")
}

func (a *Admin) mediaPage(w http.ResponseWriter, r *http.Request, errMsg string) {
	var items []models.Media
	urls := make(map[uuid.UUID]string)
	if a.mediaStore != nil && a.storageClient != nil {
		var err error
		items, err = a.mediaStore.List()
		if err != nil {
			slog.Error("list media failed", "error", err)
		}
		for _, m := range items {
			urls[m.ID] = a.storageClient.FileURL(m.ObjectKey)
		}
	}

	data := map[string]any{
		"StorageEnabled": a.storageClient != nil,
		"Error":          errMsg,
		"Media":          items,
		"URLs":           urls,
	}

	a.renderer.Admin(w, r, "media", &render.PageData{
		Title:   "Media",
		Section: "media",
		Data:    data,
	})
}

// MediaUpload handles multipart thumbnail upload to object storage.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		a.mediaPage(w, r, "Object storage is not configured.")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		a.mediaPage(w, r, "File too large. Maximum size is 20 MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.mediaPage(w, r, "No file provided.")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		a.mediaPage(w, r, "File too large. Maximum size is 20 MB.")
		return
	}

	// Detect the content type by sniffing, not by trusting the client.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		a.mediaPage(w, r, "Failed to read file.")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	// DetectContentType reports SVGs as XML or plain text.
	if strings.HasSuffix(strings.ToLower(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}

	if !allowedMediaTypes[contentType] {
		a.mediaPage(w, r, fmt.Sprintf("File type %q is not allowed.", contentType))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		a.mediaPage(w, r, "Failed to process file.")
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		a.mediaPage(w, r, "Failed to read file.")
		return
	}

	now := time.Now()
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = mediaExtensions[contentType]
	}
	fileID := uuid.New().String()
	objectKey := fmt.Sprintf("media/%d/%02d/%s%s", now.Year(), now.Month(), fileID, ext)

	ctx := r.Context()
	if err := a.storageClient.Upload(ctx, objectKey, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", objectKey)
		a.mediaPage(w, r, "Failed to upload file.")
		return
	}

	m := &models.Media{
		Filename:     fileID + ext,
		OriginalName: header.Filename,
		ContentType:  contentType,
		SizeBytes:    int64(len(fileBytes)),
		Bucket:       a.storageClient.Bucket(),
		ObjectKey:    objectKey,
		UploaderID:   sess.UserID,
	}
	if alt := strings.TrimSpace(r.FormValue("alt_text")); alt != "" {
		m.AltText = &alt
	}

	if _, err := a.mediaStore.Create(m); err != nil {
		slog.Error("create media record failed", "error", err, "key", objectKey)
		// Roll back the orphaned object; failure here only leaks a file.
		if delErr := a.storageClient.Delete(ctx, objectKey); delErr != nil {
			slog.Warn("orphaned object cleanup failed", "error", delErr, "key", objectKey)
		}
		a.mediaPage(w, r, "Failed to save upload.")
		return
	}

	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaDelete removes an uploaded file and its database record.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	if a.storageClient == nil {
		a.mediaPage(w, r, "Object storage is not configured.")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	m, err := a.mediaStore.FindByID(id)
	if err != nil {
		slog.Error("find media failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if m == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := a.storageClient.Delete(r.Context(), m.ObjectKey); err != nil {
		slog.Warn("s3 delete failed", "error", err, "key", m.ObjectKey)
	}
	if err := a.mediaStore.Delete(id); err != nil {
		slog.Error("delete media record failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}
