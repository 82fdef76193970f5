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

	"github.com/joho/godotenv"

	"github.com/example/duelengine/internal/config"
	"github.com/example/duelengine/internal/database"
	"github.com/example/duelengine/internal/duel"
	"github.com/example/duelengine/internal/energy"
	"github.com/example/duelengine/internal/logger"
	"github.com/example/duelengine/internal/mastery"
	"github.com/example/duelengine/internal/practice"
	"github.com/example/duelengine/internal/server"
)

func main() {
	// .env is optional; the environment wins either way.
	_ = godotenv.Load()
	cfg := config.Load()

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logg.Sync()

	if err := database.Connect(); err != nil {
		logg.Fatal("failed to connect to database", "error", err)
	}
	defer database.Close()

	questionRepo := database.NewQuestionRepository()
	statsRepo := database.NewAttemptStatsRepository()
	energyRepo := database.NewEnergyRepository()
	historyRepo := database.NewDuelHistoryRepository()

	masteryStore := mastery.NewStore(questionRepo, statsRepo)
	builder := practice.NewBuilder(masteryStore, questionRepo, cfg.PracticeSetSize)
	gate := energy.NewGate(energyRepo, cfg.MaxHearts, cfg.HeartRecoverDuration)
	registry := duel.NewRegistry(questionRepo, historyRepo, logg, duel.Options{
		QuestionCount: cfg.DuelQuestionCount,
		JoinTimeout:   cfg.DuelJoinTimeout,
		AnswerTimeout: cfg.DuelAnswerTimeout,
		Retention:     cfg.DuelRetention,
	})

	reaper := duel.NewReaper(registry, cfg.ReaperInterval)
	reaper.Start()
	defer reaper.Stop()

	router := server.NewRouter(logg, builder, gate, registry)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sig := <-sigChan
		logg.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logg.Error("error during shutdown", "error", err)
		}
		close(done)
	}()

	logg.Info("duel engine started", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Fatal("server error", "error", err)
	}

	<-done
	logg.Info("duel engine stopped")
}
