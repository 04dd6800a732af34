package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartScheduler периодически запускает обход напоминаний.
// Обходы идут строго последовательно из одной горутины; защиты от
// наложения соседних обходов нет, интервал должен быть заметно
// больше длительности обхода.
func StartScheduler(ctx context.Context, sweeper *Sweeper, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("scheduler started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("scheduler stopping")
			return
		case <-ticker.C:
			start := time.Now()
			sent := sweeper.Sweep(ctx, nowUTC())
			if sent > 0 {
				log.Info("sweep finished",
					zap.Int("sent", sent),
					zap.Duration("took", time.Since(start)))
			}
		}
	}
}
