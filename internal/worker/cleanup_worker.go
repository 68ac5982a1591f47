package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/winkingcatstudios/video-streaming-backend/internal/events"
)

// FileRemover deletes a stored upload by its public path.
type FileRemover interface {
	Remove(publicPath string) error
}

// CleanupWorker removes orphaned uploads off the request path. Failures are
// logged and never surface to clients.
type CleanupWorker struct {
	remover FileRemover
	logger  *zap.Logger
	queue   chan events.FileOrphanedPayload
	wg      sync.WaitGroup
}

// NewCleanupWorker builds a worker with a bounded queue.
func NewCleanupWorker(remover FileRemover, logger *zap.Logger, queueSize int) *CleanupWorker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &CleanupWorker{
		remover: remover,
		logger:  logger,
		queue:   make(chan events.FileOrphanedPayload, queueSize),
	}
}

// Register subscribes the worker to orphaned file events.
func (w *CleanupWorker) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventFileOrphaned, w.handle)
}

func (w *CleanupWorker) handle(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.FileOrphanedPayload)
	if !ok || payload.Path == "" {
		return nil
	}
	select {
	case w.queue <- payload:
	default:
		// queue full: remove inline
		w.remove(payload)
	}
	return nil
}

// Start consumes the queue until ctx is cancelled, then drains what is left.
func (w *CleanupWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case payload := <-w.queue:
				w.remove(payload)
			case <-ctx.Done():
				w.drain()
				return
			}
		}
	}()
}

// Wait blocks until the consumer goroutine exits.
func (w *CleanupWorker) Wait() {
	w.wg.Wait()
}

func (w *CleanupWorker) drain() {
	for {
		select {
		case payload := <-w.queue:
			w.remove(payload)
		default:
			return
		}
	}
}

func (w *CleanupWorker) remove(payload events.FileOrphanedPayload) {
	if err := w.remover.Remove(payload.Path); err != nil {
		w.logger.Warn("failed to remove orphaned upload",
			zap.String("path", payload.Path),
			zap.String("reason", payload.Reason),
			zap.Error(err))
		return
	}
	w.logger.Debug("removed orphaned upload", zap.String("path", payload.Path), zap.String("reason", payload.Reason))
}
