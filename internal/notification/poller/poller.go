// Package poller runs the periodic notification sweep.
package poller

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/notification"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"go.uber.org/zap"
)

type Poller struct {
	uc       notification.UseCase
	interval time.Duration
	logger   logger.ZapLogger
}

func NewPoller(uc notification.UseCase, interval time.Duration, log logger.ZapLogger) *Poller {
	return &Poller{
		uc:       uc,
		interval: interval,
		logger:   log,
	}
}

// Start sweeps once per interval until ctx is cancelled. A non-positive interval disables polling.
func (p *Poller) Start(ctx context.Context) {
	if p.interval <= 0 {
		p.logger.Info("Notification poller disabled")
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("Starting notification poller", zap.Duration("interval", p.interval))
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Stopping notification poller")
			return
		case <-ticker.C:
			if _, err := p.uc.ReconcileAll(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("Notification sweep failed", zap.Error(err))
			}
		}
	}
}
