package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/storage"
	"github.com/harshitnarang21/Khushi-Semitronics/pkg/utils"
)

const maxUploadBytes = 5 << 20 // 5 MB

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type UploadHandler struct {
	Store *storage.ObjectStore
}

func NewUploadHandler(store *storage.ObjectStore) *UploadHandler {
	return &UploadHandler{Store: store}
}

// Upload accepts a multipart "file" field and stores it in the bucket,
// returning the public URL for use as a product image or datasheet
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		utils.Error(w, http.StatusServiceUnavailable, "File uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.Error(w, http.StatusBadRequest, "File too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		utils.Error(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := fmt.Sprintf("uploads/%d%s", time.Now().UnixNano(), ext)

	publicURL, err := h.Store.Upload(r.Context(), key, contentType, file)
	if err != nil {
		log.Printf("[UploadHandler] upload failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	utils.JSON(w, http.StatusCreated, map[string]string{"url": publicURL})
}
