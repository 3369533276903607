package sweep

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Worker は一定間隔でSweeperを回すバックグラウンドタスク。
type Worker struct {
	sweeper  *Sweeper
	interval time.Duration
	log      *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	active bool
}

func NewWorker(sweeper *Sweeper, interval time.Duration, log *zap.Logger) *Worker {
	return &Worker{
		sweeper:  sweeper,
		interval: interval,
		log:      log,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		return
	}
	w.active = true
	w.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.runLoop(ctx)

	w.log.Info("expiration sweep worker started", zap.Duration("interval", w.interval))
}

func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		return
	}
	w.active = false
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
	w.log.Info("expiration sweep worker stopped")
}

func (w *Worker) runLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.sweeper.RunExpirationSweep(ctx); err != nil {
				// 1回分の失敗は次の周期でやり直す
				w.log.Error("expiration sweep run failed", zap.Error(err))
			}
		}
	}
}
