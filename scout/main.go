package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scout/scout/config"
	"scout/scout/controllers"
	"scout/scout/middlewares"
	"scout/scout/routes"
	"scout/scout/services/agent"
	"scout/scout/services/llm"
	"scout/scout/sources/psql"
	"scout/scout/sources/psql/dao"
	"scout/scout/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	if cfg.AnthropicAPIKey == "" {
		logging.ErrorLogger.Fatal("Missing ANTHROPIC_API_KEY environment variable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	chatDAO := dao.NewChatDAO(db.DB)
	client := llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL)
	researchAgent := agent.NewResearchAgent(client, agent.LoadAgentConfig(cfg.AgentConfigPath))
	chatCtrl := controllers.NewChatController(chatDAO, researchAgent)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CORS(cfg.CORSOrigins))
	r.Use(middlewares.RequestLogger)
	// The chat router times out its CRUD group itself; message streams
	// stay uncapped.

	r.Mount("/", routes.HealthRoutes(healthCtrl))
	r.Mount("/api", routes.ChatRoutes(chatCtrl))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
