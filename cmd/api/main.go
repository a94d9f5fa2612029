package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/personachat/personachat-go/internal/config"
	"github.com/personachat/personachat-go/internal/handler"
	"github.com/personachat/personachat-go/internal/middleware"
	"github.com/personachat/personachat-go/internal/repository"
	"github.com/personachat/personachat-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := service.NewUserService(userRepo)
	chatService := service.NewChatService(chatRepo)
	llmService := service.NewLLMService(cfg.OpenRouterAPIKey, cfg.OpenRouterURL)

	authHandler := handler.NewAuthHandler(authService, cfg.SecureCookies())
	userHandler := handler.NewUserHandler(userService)
	chatHandler := handler.NewChatHandler(chatService)
	llmHandler := handler.NewLLMHandler(llmService)

	r := chi.NewRouter()
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	// Credential endpoints are rate limited per IP against brute forcing.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
	})

	r.Post("/refresh", authHandler.HandleRefresh)
	r.Get("/logout", authHandler.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Get("/ping", authHandler.HandlePing)
		r.Get("/profile", authHandler.HandleProfile)

		r.Post("/generate-text", llmHandler.HandleGenerateText)
		r.Post("/save-conversation", chatHandler.HandleSaveConversation)
		r.Get("/conversations", chatHandler.HandleListConversations)
	})

	r.Get("/users", userHandler.HandleList)
	r.Post("/users", userHandler.HandleCreate)
	r.Get("/users/{user_id}", userHandler.HandleGet)
	r.Put("/users/{user_id}", userHandler.HandleUpdate)
	r.Delete("/users/{user_id}", userHandler.HandleDelete)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
