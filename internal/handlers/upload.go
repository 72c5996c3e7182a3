package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/storage"
)

const maxUploadSize = 10 << 20 // 10 MB

// Check photos only.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadHandler stores check-in photos through a storage.Store.
type UploadHandler struct {
	store storage.Store
	now   func() time.Time
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(store storage.Store) *UploadHandler {
	return &UploadHandler{store: store, now: time.Now}
}

// Upload handles POST /api/upload (multipart, field "file", optional
// "clientId"). Files land under {tenant}/checks/{clientId}/.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		JSONError(w, http.StatusBadRequest, "File too large. Maximum size is 10MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Missing 'file' field in form data.")
		return
	}
	defer file.Close()

	// Sniff the first 512 bytes rather than trusting the client's header.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		JSONError(w, http.StatusBadRequest, "Could not read file.")
		return
	}
	contentType := http.DetectContentType(buffer[:n])
	if !allowedTypes[contentType] {
		JSONError(w, http.StatusBadRequest, fmt.Sprintf(
			"File type '%s' not allowed. Accepted: JPG, PNG, WEBP.", contentType,
		))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		JSONError(w, http.StatusInternalServerError, "Failed to process file.")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	clientID := sanitizeSegment(r.FormValue("clientId"))
	if clientID == "" {
		clientID = "general"
	}
	key := path.Join(
		ctxkeys.GetTenantID(ctx), "checks", clientID,
		fmt.Sprintf("%d_%s", h.now().Unix(), sanitizeFilename(header.Filename)),
	)

	info, err := h.store.Save(ctx, key, file, header.Size, contentType)
	if err != nil {
		log.Printf("Upload failed: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to save file.")
		return
	}
	JSON(w, http.StatusOK, info)
}

// ServeFile handles GET /api/files/*. Only keys inside the caller's tenant
// are served. Remote stores redirect to their public URL; the local store
// serves from disk.
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	key := fileKey(r)
	if key == "" {
		JSONError(w, http.StatusBadRequest, "File path required.")
		return
	}
	if !ownsKey(r.Context(), key) {
		JSONError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	if storage.Remote(h.store) {
		http.Redirect(w, r, h.store.URL(key), http.StatusTemporaryRedirect)
		return
	}

	local, ok := h.store.(*storage.LocalStore)
	if !ok {
		JSONError(w, http.StatusNotFound, "File not found.")
		return
	}
	full, err := local.Path(key)
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid file path.")
		return
	}
	http.ServeFile(w, r, full)
}

// Delete handles DELETE /api/files/*. Only keys inside the caller's tenant
// may be removed.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := fileKey(r)
	if key == "" {
		JSONError(w, http.StatusBadRequest, "File path required.")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	if !ownsKey(ctx, key) {
		JSONError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}
	if err := h.store.Delete(ctx, key); err != nil {
		log.Printf("Delete failed: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete file.")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "File deleted"})
}

func ownsKey(ctx context.Context, key string) bool {
	tenantID := ctxkeys.GetTenantID(ctx)
	return tenantID != "" && strings.HasPrefix(key, tenantID+"/")
}

func fileKey(r *http.Request) string {
	return strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(r.URL.Path, "/api/files/")), "/")
}

// sanitizeFilename keeps the base name and replaces spaces.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, " ", "_")
}

// sanitizeSegment strips anything that could form a path.
func sanitizeSegment(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, s)
}
