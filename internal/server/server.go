// Package server exposes the assessment pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/itrgo/internal/assistant"
	"github.com/rgehrsitz/itrgo/internal/auth"
	"github.com/rgehrsitz/itrgo/internal/calculation"
	"github.com/rgehrsitz/itrgo/internal/config"
	"github.com/rgehrsitz/itrgo/internal/extract"
	"github.com/rgehrsitz/itrgo/internal/storage"
)

// Deps are the collaborators the handlers call.
type Deps struct {
	Engine    *calculation.Engine
	Auth      *auth.Authenticator
	Tokens    *auth.TokenIssuer
	Records   storage.RecordStore
	Extractor extract.Extractor
	Assistant *assistant.Assistant
	Logger    *slog.Logger
}

type Server struct {
	Deps
}

func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Server{Deps: d}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router(cfg config.ServerConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{config.DefaultCORSOrigin}
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := router.Group("/api")
	s.registerAuthRoutes(api)

	protected := api.Group("")
	protected.Use(RequireAuth(s.Tokens))
	{
		protected.POST("/assessments", s.CreateAssessment)
		protected.POST("/filings", s.CreateFiling)
		protected.POST("/extract", s.ExtractDocument)
		protected.POST("/chat", s.Chat)
		protected.GET("/me", s.Me)
		protected.GET("/records", RequireAdmin(), s.ListRecords)
	}
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
