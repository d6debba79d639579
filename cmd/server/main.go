package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deepresearch-backend/internal/chat"
	"deepresearch-backend/internal/config"
	"deepresearch-backend/internal/fallback"
	"deepresearch-backend/internal/handlers"
	"deepresearch-backend/internal/providers"
	"deepresearch-backend/internal/router"
	"deepresearch-backend/internal/store"
	"deepresearch-backend/internal/telemetry"
)

func main() {
	log.Println("🚀 Starting Deep Research Assistant Backend...")
	startTime := time.Now()

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Logging & Telemetry ────
	logger, err := telemetry.InitLogger()
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}

	ctx := context.Background()
	tracer, meter, telemetryCleanup, err := telemetry.InitTelemetry(ctx)
	if err != nil {
		log.Fatalf("✗ Telemetry initialization failed: %v", err)
	}
	defer telemetryCleanup()
	log.Println("✓ Telemetry initialized")

	// ──── Step 3: Initialize Session Store ────
	var sessionStore store.SessionStore
	if cfg.RedisURL != "" {
		redisStore, err := store.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisStore.Close()
		sessionStore = redisStore
		log.Println("✓ Redis session store connected")
	} else {
		sessionStore = store.NewMemoryStore()
		log.Println("✓ In-memory session store initialized")
	}

	// ──── Step 4: Initialize AI Providers ────
	cascade := []providers.Provider{}

	var gemini *providers.Gemini
	if cfg.HasGemini() {
		gemini, err = providers.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer gemini.Close()
		cascade = append(cascade, gemini)
		log.Println("✓ Gemini client initialized")
	}

	ollama := providers.NewOllama(cfg.OllamaHost, cfg.OllamaModel, cfg.OllamaTimeout)
	cascade = append(cascade, ollama)

	responder := fallback.New()

	// ──── Step 5: Initialize Orchestrator & Handlers ────
	orchestrator := chat.NewOrchestrator(cascade, responder, sessionStore, logger, tracer, meter)
	chatHandler := handlers.NewChatHandler(orchestrator, logger)

	primaryModel := ""
	if cfg.HasGemini() {
		primaryModel = cfg.GeminiModel
	}
	healthHandler := handlers.NewHealthHandler(primaryModel, ollama, startTime)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(healthHandler, chatHandler, cfg.ChatRateLimit)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("📡 Listening on http://localhost:%s", cfg.Port)
	if cfg.HasGemini() {
		log.Printf("🤖 Primary AI: Google Gemini (%s)", cfg.GeminiModel)
	} else {
		log.Println("🤖 Primary AI: Not configured")
	}
	log.Printf("🦙 Ollama: %s (%s)", cfg.OllamaHost, cfg.OllamaModel)
	log.Printf("📝 Environment: %s", cfg.Env)
	log.Println("Endpoints:")
	log.Println("  GET  /health  - Health check")
	log.Println("  POST /chat    - Chat with AI")

	if !cfg.HasGemini() {
		log.Println("⚠️  WARNING: GEMINI_API_KEY not set. Requests will fall back to Ollama or canned responses.")
	}

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
