package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmanzanog/stockbook/internal/infrastructure/marketdata"
)

type ActiveTargetEvaluator interface {
	EvaluateActive(ctx context.Context, quotes marketdata.QuoteProvider) ([]TargetEvaluation, error)
}

// TargetMonitor periodically evaluates active targets against live quotes.
type TargetMonitor struct {
	evaluator ActiveTargetEvaluator
	quotes    marketdata.QuoteProvider
	interval  time.Duration
	stopChan  chan struct{}
	stopOnce  sync.Once
}

func NewTargetMonitor(evaluator ActiveTargetEvaluator, quotes marketdata.QuoteProvider, interval time.Duration) *TargetMonitor {
	return &TargetMonitor{
		evaluator: evaluator,
		quotes:    quotes,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

func (m *TargetMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("Target monitor started", "interval", m.interval)

	for {
		select {
		case <-ticker.C:
			m.evaluate(ctx)
		case <-m.stopChan:
			slog.Info("Target monitor stopped")
			return
		case <-ctx.Done():
			slog.Info("Target monitor stopped due to context cancellation")
			return
		}
	}
}

// Stop ends the loop started by Start. Calling it more than once is a no-op.
func (m *TargetMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

func (m *TargetMonitor) evaluate(ctx context.Context) {
	results, err := m.evaluator.EvaluateActive(ctx, m.quotes)
	if err != nil {
		slog.Error("Error evaluating targets", "error", err)
		return
	}
	for _, r := range results {
		switch {
		case r.Error != nil:
			slog.Warn("Target not evaluated", "target_id", r.TargetID, "symbol", r.Symbol, "error", r.Error)
		case r.Changed():
			slog.Info("Target reached", "target_id", r.TargetID, "symbol", r.Symbol,
				"price", r.Price, "status", r.Status)
		}
	}
}
