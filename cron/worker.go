package cron

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"sonrisa/services/conversation"
)

// StartSessionSweeper runs a periodic job evicting conversations that have
// been idle longer than ttl, so abandoned dialogues do not pile up in
// memory. A ttl of 0 disables the sweep and returns nil.
func StartSessionSweeper(store conversation.SessionStore, ttl time.Duration, logger *zap.Logger) *cron.Cron {
	if ttl <= 0 {
		logger.Info("session sweeper disabled, idle conversations are kept indefinitely")
		return nil
	}

	c := cron.New()
	c.AddFunc("@every 1m", func() {
		if evicted := store.EvictIdle(ttl); evicted > 0 {
			logger.Info("evicted idle conversations", zap.Int("count", evicted), zap.Duration("ttl", ttl))
		}
	})
	c.Start()
	logger.Info("session sweeper started", zap.Duration("ttl", ttl))
	return c
}
