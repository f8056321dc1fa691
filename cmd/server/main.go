package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"labstock/internal/auth"
	"labstock/internal/cache"
	"labstock/internal/config"
	"labstock/internal/database"
	"labstock/internal/db"
	"labstock/internal/handlers"
	"labstock/internal/health"
	h "labstock/internal/http"
	"labstock/internal/middleware"
	"labstock/internal/monitoring"
	"labstock/internal/repositories"
	"labstock/internal/services"
	"labstock/internal/storage"
	"labstock/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; login falls back to bcrypt-only when unavailable
	appCache, err := cache.New()
	if err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Migrations are embedded so the binary runs standalone
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthChecker := health.NewHealthChecker(pool, appCache)

	// Monitoring dashboard backend on its own port
	go monitoring.NewServer(pool, cfg.Server.MonitoringPort).Start()

	jwtManager := auth.NewJWTManager(cfg)

	// Object storage for submission uploads (optional)
	storageClient, err := storage.New(context.Background(), cfg)
	if err != nil {
		log.Printf("[Storage] Uploads disabled: %v", err)
		storageClient = nil
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	itemRepo := repositories.NewItemRepository(pool)
	projectRepo := repositories.NewProjectRepository(pool)
	allocationRepo := repositories.NewAllocationRepository(pool)
	borrowingRepo := repositories.NewBorrowingRepository(pool)
	requestRepo := repositories.NewRequestRepository(pool)
	transactionRepo := repositories.NewTransactionRepository(pool)
	competitionRepo := repositories.NewCompetitionRepository(pool)
	assignmentRepo := repositories.NewAssignmentRepository(pool)
	historyRepo := repositories.NewHistoryRepository(pool)
	ledgerRepo := repositories.NewLedgerRepository(pool)

	// Services
	auditService := services.NewAuditService(historyRepo)
	userService := services.NewUserService(userRepo, jwtManager, auditService, appCache)
	totpService := services.NewTOTPService(userRepo, jwtManager, auditService)
	ledgerService := services.NewLedgerService(ledgerRepo, itemRepo, auditService)
	requestService := services.NewRequestService(requestRepo, ledgerRepo, itemRepo, auditService)
	reportService := services.NewReportService(itemRepo, borrowingRepo)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, totpService)
	userHandler := handlers.NewUserHandler(userService)
	itemHandler := handlers.NewItemHandler(itemRepo, auditService, appCache)
	projectHandler := handlers.NewProjectHandler(projectRepo, allocationRepo, auditService)
	allocationHandler := handlers.NewAllocationHandler(ledgerService, allocationRepo, appCache)
	borrowingHandler := handlers.NewBorrowingHandler(ledgerService, borrowingRepo, appCache)
	requestHandler := handlers.NewRequestHandler(requestService, appCache)
	transactionHandler := handlers.NewTransactionHandler(ledgerService, transactionRepo, appCache)
	competitionHandler := handlers.NewCompetitionHandler(competitionRepo, ledgerService, auditService, appCache)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentRepo, storageClient, auditService)
	historyHandler := handlers.NewHistoryHandler(auditService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		userHandler,
		itemHandler,
		projectHandler,
		allocationHandler,
		borrowingHandler,
		requestHandler,
		transactionHandler,
		competitionHandler,
		assignmentHandler,
		historyHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(corsMiddleware(router))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
