package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/models"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/repositories"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/services"
	"github.com/harshitnarang21/Khushi-Semitronics/pkg/utils"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
}

func NewInvoiceHandler(s *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	invoice, err := h.Service.CreateInvoice(r.Context(), &req)
	if err != nil {
		writeInvoiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, invoice)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Invoice not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch invoice")
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.ListInvoices(r.Context(), queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch invoices")
		return
	}
	utils.JSON(w, http.StatusOK, page)
}

func (h *InvoiceHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	var req models.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	invoice, err := h.Service.UpdateInvoice(r.Context(), id, &req)
	if err != nil {
		writeInvoiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	if err := h.Service.DeleteInvoice(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Invoice not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DownloadPDF streams the invoice as a PDF attachment
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice ID")
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Invoice not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to fetch invoice")
		return
	}

	pdfBytes, err := services.RenderInvoicePDF(invoice)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", invoice.InvoiceNumber))
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

func writeInvoiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCustomerNameRequired),
		errors.Is(err, services.ErrNoItems),
		errors.Is(err, services.ErrItemIdentityRequired),
		errors.Is(err, services.ErrItemQuantityInvalid),
		errors.Is(err, services.ErrItemPriceInvalid):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "Invoice not found")
	default:
		utils.Error(w, http.StatusInternalServerError, "Failed to save invoice")
	}
}
