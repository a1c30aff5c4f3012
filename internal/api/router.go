package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jengzang/valvecheck-backend-go/internal/config"
	"github.com/jengzang/valvecheck-backend-go/internal/handler"
	"github.com/jengzang/valvecheck-backend-go/internal/middleware"
	"github.com/jengzang/valvecheck-backend-go/internal/service"
)

// Services are the dependencies of the HTTP surface
type Services struct {
	Sessions *service.SessionService
	Exports  *service.ExportService
	Tokens   *service.TokenService
}

// corsConfig builds the CORS policy; "*" allows every origin
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// SetupRouter wires handlers and middleware
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(cors.New(corsConfig(cfg.AllowOrigins)))
	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateWindow, svc.Tokens))
	}

	sessionHandler := handler.NewSessionHandler(svc.Sessions)
	certHandler := handler.NewCertificationHandler(svc.Exports)
	metaHandler := handler.NewMetaHandler(svc.Sessions)

	r.GET("/health", metaHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/machines", metaHandler.Machines)
		v1.GET("/voltages", metaHandler.Voltages)

		// Reads
		v1.GET("/sessions/:id", sessionHandler.GetSession)
		v1.GET("/sessions/:id/curve", sessionHandler.GetCurve)
		v1.GET("/sessions/:id/chart.png", sessionHandler.GetChart)
		v1.GET("/certifications", certHandler.ListCertifications)
		v1.GET("/certifications/:id", certHandler.GetCertification)

		// Mutations are attributed to an operator
		ops := v1.Group("")
		ops.Use(middleware.RequireOperator(svc.Tokens, cfg.AuthRequired))
		{
			ops.POST("/sessions", sessionHandler.CreateSession)
			ops.DELETE("/sessions/:id", sessionHandler.DeleteSession)
			ops.POST("/sessions/:id/waveforms", sessionHandler.IngestWaveforms)
			ops.PUT("/sessions/:id/machine", sessionHandler.SetMachine)
			ops.PUT("/sessions/:id/manual-slope", sessionHandler.SetManualSlope)
			ops.POST("/sessions/:id/export", certHandler.Export)

			files := ops.Group("/sessions/:id/files/:file")
			{
				files.POST("/recalculate", sessionHandler.Recalculate)
				files.POST("/approve", sessionHandler.Approve)
				files.POST("/revoke", sessionHandler.Revoke)
				files.POST("/select", sessionHandler.Select)
			}
		}
	}

	return r
}
