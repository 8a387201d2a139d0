package analytics

import (
	"context"

	"rnimart-be/internal/logger"
	"rnimart-be/internal/metrics"
	"rnimart-be/internal/order"

	"go.uber.org/zap"
)

// OrderSource is the order history reader.
type OrderSource interface {
	List(ctx context.Context) ([]order.Order, error)
}

type Service interface {
	// Stats recomputes the figures from the full history on every call.
	Stats(ctx context.Context) (Stats, error)
}

type service struct {
	orders  OrderSource
	metrics *metrics.Metrics
}

func NewService(orders OrderSource, m *metrics.Metrics) Service {
	return &service{orders: orders, metrics: m}
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	timer := metrics.StartTimer()

	orders, err := s.orders.List(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to read order history",
			zap.String("layer", "service"),
			zap.String("method", "Stats"),
			zap.Error(err),
		)
		return Stats{}, err
	}

	stats := ComputeStats(orders)
	s.metrics.ObserveStats(timer.Duration())
	return stats, nil
}
