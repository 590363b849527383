package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/repositories"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/services"
	"github.com/harshitnarang21/Khushi-Semitronics/pkg/utils"
)

type ProductHandler struct {
	Service *services.ProductService
}

func NewProductHandler(s *services.ProductService) *ProductHandler {
	return &ProductHandler{Service: s}
}

// ListProducts serves the paginated catalog. A storage failure degrades
// to an empty page so the catalog UI keeps rendering.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := models.ProductListQuery{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 20),
	}

	page, err := h.Service.ListProducts(r.Context(), query)
	if err != nil {
		log.Printf("[ProductHandler] list failed: %v", err)
		utils.JSON(w, http.StatusOK, &models.ProductPage{
			Products:   []*models.Product{},
			Total:      0,
			Page:       query.Page,
			TotalPages: 0,
		})
		return
	}
	utils.JSON(w, http.StatusOK, page)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.Service.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.Service.CreateProduct(r.Context(), &req)
	if err != nil {
		writeProductError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.Service.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		writeProductError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.Service.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.Categories(r.Context())
	if err != nil {
		log.Printf("[ProductHandler] categories failed: %v", err)
		utils.JSON(w, http.StatusOK, []string{})
		return
	}
	utils.JSON(w, http.StatusOK, categories)
}

func writeProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrProductFieldsRequired),
		errors.Is(err, services.ErrPriceNegative),
		errors.Is(err, services.ErrStockNegative),
		errors.Is(err, services.ErrProductExists):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Product not found")
	default:
		utils.Error(w, http.StatusInternalServerError, "Failed to save product")
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
