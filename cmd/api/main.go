package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/jvalladares/tienda-backend/internal/blob"
	"github.com/jvalladares/tienda-backend/internal/config"
	"github.com/jvalladares/tienda-backend/internal/modules/auth"
	"github.com/jvalladares/tienda-backend/internal/modules/catalog"
	"github.com/jvalladares/tienda-backend/internal/modules/checkout"
	"github.com/jvalladares/tienda-backend/internal/modules/user"
	"github.com/jvalladares/tienda-backend/internal/notifier"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity ────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	authService, err := auth.NewService(context.Background(), cfg, userRepo)
	if err != nil {
		log.Fatal(err)
	}
	requireAuth := auth.RequireAuth(authService, userRepo)
	auth.NewHandler(authService).RegisterRoutes(router, requireAuth)

	// ── Catalog ─────────────────────────────────────────────
	images := blob.NewContainerResolver(cfg.BlobBaseURL)
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, images)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	// ── Checkout ────────────────────────────────────────────
	var sendConfirmation checkout.ConfirmationSender
	if emails, err := notifier.NewEmailSender(cfg); err != nil {
		log.Printf("invoice confirmation emails disabled: %v", err)
	} else {
		sendConfirmation = emails.SendInvoiceConfirmation
	}
	checkoutRepo := checkout.NewPostgresRepository(db)
	checkoutService := checkout.NewService(checkoutRepo)
	checkout.NewHandler(checkoutService, sendConfirmation).RegisterRoutes(router, requireAuth)

	// ── Start Server ────────────────────────────────────────
	fmt.Printf("Tienda API server starting on :%s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
