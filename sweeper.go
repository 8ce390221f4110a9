package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/metrics"
)

// Sweeper periodically deactivates promotions whose expiry has passed, so
// expired offers drop out of listings and matcher runs without waiting for
// the next read.
type Sweeper struct {
	logger    *slog.Logger
	promoRepo *repos.PromotionRepo
	interval  time.Duration
}

func NewSweeper(logger *slog.Logger, promoRepo *repos.PromotionRepo, interval time.Duration) *Sweeper {
	return &Sweeper{
		logger:    logger,
		promoRepo: promoRepo,
		interval:  interval,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping expiry sweeper")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	swept, err := s.promoRepo.DeactivateExpired(time.Now())
	if err != nil {
		s.logger.Error("sweep expired promotions", "error", err)
		return
	}
	if swept > 0 {
		metrics.PromotionsSwept.Add(float64(swept))
		s.logger.Info("swept expired promotions", "count", swept)
	}
}
