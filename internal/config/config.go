package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all engine settings, read from the environment.
type Config struct {
	// HTTPAddr is the listen address of the API server.
	HTTPAddr string
	// LogMode selects the logger profile ("dev" or "prod").
	LogMode string

	// MaxHearts is the energy capacity per user.
	MaxHearts int
	// HeartRecoverDuration is the time to regenerate one heart.
	HeartRecoverDuration time.Duration

	// PracticeSetSize is the number of questions in one practice set.
	PracticeSetSize int
	// DuelQuestionCount is the number of questions per duel.
	DuelQuestionCount int

	// DuelJoinTimeout cancels rooms nobody joined.
	DuelJoinTimeout time.Duration
	// DuelAnswerTimeout cancels active rooms with no answer activity.
	DuelAnswerTimeout time.Duration
	// DuelRetention keeps finished/cancelled rooms around for retried
	// result reads before the reaper drops them.
	DuelRetention time.Duration
	// ReaperInterval is how often the reaper sweeps the registry.
	ReaperInterval time.Duration
}

// Load reads configuration from the environment, falling back to defaults.
func Load() *Config {
	return &Config{
		HTTPAddr:             getString("HTTP_ADDR", ":8080"),
		LogMode:              getString("LOG_MODE", "dev"),
		MaxHearts:            getInt("MAX_HEARTS", 5),
		HeartRecoverDuration: getDuration("HEART_RECOVER_DURATION", 2*time.Hour),
		PracticeSetSize:      getInt("PRACTICE_SET_SIZE", 10),
		DuelQuestionCount:    getInt("DUEL_QUESTION_COUNT", 5),
		DuelJoinTimeout:      getDuration("DUEL_JOIN_TIMEOUT", 2*time.Minute),
		DuelAnswerTimeout:    getDuration("DUEL_ANSWER_TIMEOUT", 90*time.Second),
		DuelRetention:        getDuration("DUEL_RETENTION", 5*time.Minute),
		ReaperInterval:       getDuration("DUEL_REAPER_INTERVAL", 30*time.Second),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
