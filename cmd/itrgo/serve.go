package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/itrgo/internal/assistant"
	"github.com/rgehrsitz/itrgo/internal/auth"
	"github.com/rgehrsitz/itrgo/internal/calculation"
	"github.com/rgehrsitz/itrgo/internal/config"
	"github.com/rgehrsitz/itrgo/internal/extract"
	"github.com/rgehrsitz/itrgo/internal/server"
	"github.com/rgehrsitz/itrgo/internal/storage"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API. Settings are read from the environment, after loading
the --env file when it exists (PORT, JWT_SECRET, ITRGO_DB, CORS_ORIGINS,
TOKEN_TTL, GIN_MODE).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env")
		cfg, err := config.LoadServerConfig(envFile)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Port = addr
		}
		if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
			cfg.DBPath = dbPath
		}

		var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
		if cfg.Release {
			gin.SetMode(gin.ReleaseMode)
			handler = slog.NewJSONHandler(os.Stderr, nil)
		}
		logger := slog.New(handler)

		rulesFile, _ := cmd.Flags().GetString("rules")
		rules, err := config.NewInputParser().LoadRules(rulesFile)
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		authenticator := auth.NewAuthenticator(store)
		if err := authenticator.Seed(ctx); err != nil {
			return err
		}

		engine := calculation.NewEngine(rules)
		engine.Store = store
		engine.SetLogger(calculation.SlogLogger{L: logger})

		srv := server.New(server.Deps{
			Engine:    engine,
			Auth:      authenticator,
			Tokens:    auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
			Records:   store,
			Extractor: extract.NewTextExtractor(),
			Assistant: assistant.New(assistant.DefaultKnowledgeBase()),
			Logger:    logger,
		})

		httpServer := &http.Server{
			Addr:              listenAddr(cfg.Port),
			Handler:           srv.Router(cfg),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server starting", "addr", httpServer.Addr, "db", cfg.DBPath)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}

// listenAddr accepts a bare port ("8080") or a host:port.
func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func initServeCommand() {
	serveCmd.Flags().String("addr", "", "Listen address or port (default: $PORT or 8080)")
	serveCmd.Flags().String("db", "", "SQLite database path (default: $ITRGO_DB or itrgo.db)")
	serveCmd.Flags().String("env", "configs/.env", "Environment file loaded when present")
	serveCmd.Flags().String("rules", "", "Path to a tax rules YAML file (default: built-in FY rules)")

	rootCmd.AddCommand(serveCmd)
}
