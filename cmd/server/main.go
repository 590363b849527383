package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/auth"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/cache"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/config"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/database"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/db"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/handlers"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/health"
	h "github.com/harshitnarang21/Khushi-Semitronics/internal/http"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/middleware"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/monitoring"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/repositories"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/scraper"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/services"
	"github.com/harshitnarang21/Khushi-Semitronics/internal/storage"
	"github.com/harshitnarang21/Khushi-Semitronics/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (category lookups will hit the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations from the embedded filesystem
	log.Println("Running database migrations...")
	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	productRepo := repositories.NewProductRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)

	// Initialize the distributor site scraper
	siteScraper := scraper.New(
		cfg.Scraper.BaseURL,
		time.Duration(cfg.Scraper.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Scraper.DelayMS)*time.Millisecond,
	)

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager)
	productService := services.NewProductService(productRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo)
	importService := services.NewImportService(productRepo, siteScraper)

	// Monitoring server doubles as the import progress feed
	monitor := monitoring.NewMonitoringServer(pool, cfg.Monitoring.Port)
	importService.SetProgressSink(monitor)
	go monitor.Start()

	// Object storage is optional; uploads are disabled without it
	objectStore, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Printf("[Storage] %v, file uploads disabled", err)
		objectStore = nil
	}

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	scrapeHandler := handlers.NewScrapeHandler(importService)
	uploadHandler := handlers.NewUploadHandler(objectStore)
	authHandler := handlers.NewAuthHandler(userService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		productHandler,
		invoiceHandler,
		scrapeHandler,
		uploadHandler,
		authHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
