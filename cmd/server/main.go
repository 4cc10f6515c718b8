package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"salud-chatbot/internal/agents"
	"salud-chatbot/internal/config"
	"salud-chatbot/internal/core"
	httpserver "salud-chatbot/internal/http"
	"salud-chatbot/internal/llm"
	"salud-chatbot/internal/logger"
	"salud-chatbot/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var gateway store.Gateway
	var notifier *store.Notifier
	if cfg.Simulated() {
		logg.Info("simulated mode: using in-memory persistence, enrichment disabled")
		gateway = store.NewMemory()
	} else {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logg.Fatal("open database", "error", err)
		}
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			pingCancel()
			logg.Fatal("ping database", "error", err)
		}
		pingCancel()
		if err := store.Migrate(ctx, db); err != nil {
			logg.Fatal("apply schema", "error", err)
		}
		gateway = store.NewPostgres(db)
		notifier = store.NewNotifier(db, cfg.DatabaseURL, cfg.NotifyChannel)
		go watchEscalations(ctx, notifier, logg)
	}

	var enricher llm.Enricher
	switch cfg.EnrichMode {
	case config.EnrichDirect:
		enricher = llm.NewOpenAIEnricher(cfg.OpenAIKey, cfg.OpenAIModel)
		logg.Info("enrichment enabled", "mode", cfg.EnrichMode, "model", cfg.OpenAIModel)
	case config.EnrichMediated:
		enricher = llm.NewWebhookEnricher(cfg.WebhookURL, cfg.EnrichTimeout)
		logg.Info("enrichment enabled", "mode", cfg.EnrichMode)
	default:
		logg.Info("enrichment disabled")
	}

	var urgent agents.UrgentNotifier
	if notifier != nil {
		urgent = notifier
	}
	hub := agents.NewHub(logg, cfg.WebhookURL, urgent)
	logg.Info("agent registry loaded", "agents", len(agents.Registry()))

	svc := core.NewService(gateway, enricher, hub, logg, cfg.ConfidenceThreshold, cfg.EnrichTimeout)
	srv := httpserver.NewServer(svc, logg)

	addr := ":" + cfg.Port
	logg.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, srv); err != nil {
		logg.Fatal("server error", "error", err)
	}
}

// watchEscalations subscribes to the urgent-case channel and surfaces the
// escalations the supervisor side would consume.
func watchEscalations(ctx context.Context, notifier *store.Notifier, logg *logger.Logger) {
	ch, err := notifier.Listen(ctx)
	if err != nil {
		logg.Warn("escalation listener unavailable", "error", err)
		return
	}
	for conversationID := range ch {
		logg.Warn("urgent case escalated", "conversation_id", conversationID)
	}
}
