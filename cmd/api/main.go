package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"

	"github.com/mpopa/stress-journal/backend/internal/analysis/patterns"
	"github.com/mpopa/stress-journal/backend/internal/config"
	"github.com/mpopa/stress-journal/backend/internal/guardrail"
	"github.com/mpopa/stress-journal/backend/internal/handler"
	profileModel "github.com/mpopa/stress-journal/backend/internal/model/profile"
	"github.com/mpopa/stress-journal/backend/internal/service/ai"
	"github.com/mpopa/stress-journal/backend/internal/service/companion"
	emotionservice "github.com/mpopa/stress-journal/backend/internal/service/emotion"
	"github.com/mpopa/stress-journal/backend/internal/service/history"
	journalservice "github.com/mpopa/stress-journal/backend/internal/service/journal"
	"github.com/mpopa/stress-journal/backend/internal/service/memory"
	"github.com/mpopa/stress-journal/backend/internal/service/safety"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Pattern library: builtin corpus, optionally extended by a watched file.
	var patternSource *patterns.Source
	if cfg.Safety.PatternFile != "" {
		patternSource, err = patterns.NewFileSource(cfg.Safety.PatternFile)
		if err != nil {
			log.Fatalf("failed to load pattern file %s: %v", cfg.Safety.PatternFile, err)
		}
		go patternSource.Watch(ctx)
		defer patternSource.Close()
		log.Printf("pattern set %s loaded from %s, watching for changes",
			patternSource.Current().Version(), cfg.Safety.PatternFile)
	} else {
		patternSource = patterns.NewStaticSource(patterns.Default())
		log.Printf("builtin pattern set %s active", patternSource.Current().Version())
	}

	// Guardrail layer with its audit trail.
	auditSink := guardrail.NewAuditSink(nil)
	defer auditSink.Close()

	validator := guardrail.NewInputValidator(cfg.Safety.MinInputChars, cfg.Safety.MaxInputChars, patternSource, auditSink)
	crisisClassifier := guardrail.NewCrisisClassifier(guardrail.DefaultTemplates(cfg.Safety.CrisisHotline))
	outputFilter := guardrail.NewOutputFilter(patternSource)

	// Initialize AI service
	var aiService *ai.Service
	if cfg.AI.Enabled() {
		aiService, err = ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI responses, check the ARK_* environment variables")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, running without AI responses")
	}

	// Emotion scoring: LLM classifier when available, degraded heuristic otherwise.
	var chatModelForEmotion model.ChatModel
	if aiService != nil {
		chatModelForEmotion = aiService.GetChatModel()
	}
	emotionSvc, err := emotionservice.NewService(ctx, chatModelForEmotion, emotionservice.Config{
		Enabled: cfg.Emotion.LLMEnabled,
		Weights: cfg.Emotion.Weights,
	})
	if err != nil {
		log.Fatalf("failed to initialize emotion service: %v", err)
	}
	if emotionSvc.Enabled() {
		log.Println("emotion classifier enabled")
	} else if cfg.Emotion.LLMEnabled {
		log.Println("emotion classifier requested but chat model unavailable, running in degraded mode")
	} else {
		log.Println("emotion classifier disabled by configuration, running in degraded mode")
	}

	safetySvc := safety.NewService(validator, crisisClassifier, outputFilter, emotionSvc)

	// Stores.
	profileStore := profileModel.NewMemoryStore(profileModel.Seed())
	journalSvc := journalservice.NewService()

	var historyStore history.Store
	if cfg.Storage.SQLitePath != "" {
		historyStore, err = history.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open history store: %v", err)
		}
		log.Printf("history persisted to %s", cfg.Storage.SQLitePath)
	} else {
		historyStore = history.NewMemoryStore()
		log.Println("history kept in memory, set HISTORY_SQLITE_PATH to persist")
	}
	defer historyStore.Close()

	companionSvc := companion.NewService(companion.Config{
		Journal:     journalSvc,
		Profiles:    profileStore,
		Safety:      safetySvc,
		AI:          aiService,
		History:     historyStore,
		Memories:    memory.NewInMemory(),
		Tenant:      cfg.Storage.TenantKey,
		MemoryLimit: cfg.Storage.MemoryLimit,
	})

	router := handler.NewRouter(handler.Deps{
		Profiles:  profileStore,
		Journal:   journalSvc,
		Companion: companionSvc,
		Safety:    safetySvc,
		History:   historyStore,
		Tenant:    cfg.Storage.TenantKey,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("stress journal backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
