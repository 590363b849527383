package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/scraper"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/services"
	"github.com/harshitnarang21/Khushi-Semitronics/pkg/utils"
)

type ScrapeHandler struct {
	Importer *services.ImportService
}

func NewScrapeHandler(importer *services.ImportService) *ScrapeHandler {
	return &ScrapeHandler{Importer: importer}
}

// Scrape imports products from a single listing page URL
func (h *ScrapeHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		utils.Error(w, http.StatusBadRequest, "url is required")
		return
	}
	if parsed, err := url.Parse(req.URL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		utils.Error(w, http.StatusBadRequest, "url must be absolute")
		return
	}

	result, err := h.Importer.ImportFromURL(r.Context(), req.URL, req.Limit)
	if err != nil {
		log.Printf("[ScrapeHandler] import from %s failed: %v", req.URL, err)
		utils.Error(w, http.StatusBadGateway, fetchErrorMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// BulkImport runs search-term driven imports across many pages
func (h *ScrapeHandler) BulkImport(w http.ResponseWriter, r *http.Request) {
	var req models.BulkImportRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	result, err := h.Importer.BulkImport(r.Context(), req)
	if err != nil {
		log.Printf("[ScrapeHandler] bulk import failed: %v", err)
		utils.Error(w, http.StatusBadGateway, fetchErrorMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// fetchErrorMessage turns fetch failures into messages the admin UI can
// show as-is
func fetchErrorMessage(err error) string {
	switch {
	case errors.Is(err, scraper.ErrTimeout):
		return "The site took too long to respond. Try again later."
	case errors.Is(err, scraper.ErrAccessDenied):
		return "The site refused the request (access denied). It may be rate limiting; wait and try again."
	case errors.Is(err, scraper.ErrPageNotFound):
		return "The page was not found. Check the URL."
	case errors.Is(err, scraper.ErrConnectionFailed):
		return "Could not connect to the site. Check the URL and network."
	default:
		return "Scraping failed: " + err.Error()
	}
}
