package main

import (
	"log"

	"github.com/jengzang/valvecheck-backend-go/internal/analysis/regression"
	"github.com/jengzang/valvecheck-backend-go/internal/analysis/slope"
	"github.com/jengzang/valvecheck-backend-go/internal/api"
	"github.com/jengzang/valvecheck-backend-go/internal/config"
	"github.com/jengzang/valvecheck-backend-go/internal/database"
	"github.com/jengzang/valvecheck-backend-go/internal/middleware"
	"github.com/jengzang/valvecheck-backend-go/internal/repository"
	"github.com/jengzang/valvecheck-backend-go/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Register extra machine tolerance bands
	for _, m := range cfg.Machines {
		if err := regression.RegisterMachine(m); err != nil {
			log.Fatal("Failed to register machine:", err)
		}
		log.Printf("Registered machine type %s (%g / %g / %g)", m.Type, m.Lower, m.Middle, m.Upper)
	}
	if _, err := regression.LookupMachine(cfg.DefaultMachineType); err != nil {
		log.Fatal("Invalid default machine type:", err)
	}

	// Initialize database
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	sessions := service.NewSessionService(slope.NewDetector(cfg.Detection), cfg.DefaultMachineType)
	certs := repository.NewCertificationRepository(database.GetDB())

	router := api.SetupRouter(cfg, api.Services{
		Sessions: sessions,
		Exports:  service.NewExportService(sessions, certs),
		Tokens:   service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
	})

	if !cfg.AuthRequired {
		log.Printf("Warning: authentication disabled, actions are recorded as %q", middleware.DefaultOperator)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
