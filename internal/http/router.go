package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/handlers"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/middleware"
)

func NewRouter(
	productHandler *handlers.ProductHandler,
	invoiceHandler *handlers.InvoiceHandler,
	scrapeHandler *handlers.ScrapeHandler,
	uploadHandler *handlers.UploadHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Liveness and metrics
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Public API routes - catalog browsing
	r.HandleFunc("/api/products", productHandler.ListProducts).Methods("GET")
	r.HandleFunc("/api/products/{id:[0-9]+}", productHandler.GetProduct).Methods("GET")
	r.HandleFunc("/api/categories", productHandler.ListCategories).Methods("GET")

	// Protected API routes - catalog management
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.CreateProduct).Methods("POST")
	productsAPI.HandleFunc("/{id:[0-9]+}", productHandler.UpdateProduct).Methods("PUT")
	productsAPI.HandleFunc("/{id:[0-9]+}", productHandler.DeleteProduct).Methods("DELETE")

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.ListInvoices).Methods("GET")
	invoicesAPI.HandleFunc("", invoiceHandler.CreateInvoice).Methods("POST")
	invoicesAPI.HandleFunc("/{id:[0-9]+}", invoiceHandler.GetInvoice).Methods("GET")
	invoicesAPI.HandleFunc("/{id:[0-9]+}", invoiceHandler.UpdateInvoice).Methods("PUT")
	invoicesAPI.HandleFunc("/{id:[0-9]+}", invoiceHandler.DeleteInvoice).Methods("DELETE")
	invoicesAPI.HandleFunc("/{id:[0-9]+}/pdf", invoiceHandler.DownloadPDF).Methods("GET")

	// Protected API routes - scrape imports (admin only)
	scrapeAPI := r.PathPrefix("/api").Subrouter()
	scrapeAPI.Use(authMiddleware.Authenticate)
	scrapeAPI.Use(authMiddleware.RequireRole("admin"))
	scrapeAPI.HandleFunc("/scrape", scrapeHandler.Scrape).Methods("POST")
	scrapeAPI.HandleFunc("/bulk-import", scrapeHandler.BulkImport).Methods("POST")

	// Protected API routes - file uploads
	uploadAPI := r.PathPrefix("/api/upload").Subrouter()
	uploadAPI.Use(authMiddleware.Authenticate)
	uploadAPI.HandleFunc("", uploadHandler.Upload).Methods("POST")

	return r
}
