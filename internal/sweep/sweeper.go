package sweep

import (
	"context"
	"time"

	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// OrderCanceller は掃除タスクが使う最小限の契約。
type OrderCanceller interface {
	Cancel(ctx context.Context, orderID int64) error
}

// Sweeper はTTLを過ぎたRESERVED注文をキャンセルして在庫を戻す。
type Sweeper struct {
	orders    repo.OrderRepository
	canceller OrderCanceller
	ttl       time.Duration
	log       *zap.Logger
}

func NewSweeper(orders repo.OrderRepository, canceller OrderCanceller, ttl time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		orders:    orders,
		canceller: canceller,
		ttl:       ttl,
		log:       log,
	}
}

type SweepStats struct {
	Found     int
	Cancelled int
	Failed    int
}

// RunExpirationSweep は1回分の掃除。
// 注文ごとに独立してキャンセルし、1件の失敗で残りを止めない。
func (s *Sweeper) RunExpirationSweep(ctx context.Context) (SweepStats, error) {
	cutoff := time.Now().Add(-s.ttl)

	expired, err := s.orders.ListExpiredReserved(ctx, cutoff)
	if err != nil {
		s.log.Error("failed to list expired reservations", zap.Error(err))
		return SweepStats{}, err
	}

	stats := SweepStats{Found: len(expired)}
	if stats.Found == 0 {
		return stats, nil
	}

	for _, o := range expired {
		if err := s.canceller.Cancel(ctx, o.ID); err != nil {
			// ユーザー操作と競合した場合もここに落ちる。次回また拾う。
			s.log.Warn("failed to cancel expired order",
				zap.Int64("order_id", o.ID),
				zap.Error(err),
			)
			stats.Failed++
			continue
		}
		s.log.Info("expired order cancelled", zap.Int64("order_id", o.ID))
		stats.Cancelled++
	}

	s.log.Info("expiration sweep finished",
		zap.Int("found", stats.Found),
		zap.Int("cancelled", stats.Cancelled),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}
