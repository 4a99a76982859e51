package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/splitsies/splitsies/internal/llm"
	"github.com/splitsies/splitsies/internal/metrics"
	"github.com/splitsies/splitsies/internal/server"
	"github.com/splitsies/splitsies/internal/service"
	"github.com/splitsies/splitsies/internal/storage/sqlite"
	"github.com/splitsies/splitsies/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/sessions.db")
	apiKey := os.Getenv("GEMINI_API_KEY")
	model := getEnv("GEMINI_MODEL", llm.DefaultModel)
	port := getEnv("PORT", "8080")

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	if apiKey == "" {
		slog.Warn("GEMINI_API_KEY not set, receipt parsing will fail")
	}
	client := llm.NewGeminiClient(apiKey, model)

	m := metrics.New()
	svc := service.New(store, client, m)
	router := server.New(svc, m)

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "model", model)
	if err := router.Run(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
