package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/winkingcatstudios/video-streaming-backend/internal/events"
)

// StartAuditWorker logs every catalog mutation.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	dispatcher.Subscribe(events.EventCatalogChanged, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.CatalogChangedPayload)
		if !ok {
			return nil
		}
		logger.Info("catalog changed",
			zap.String("event_id", event.ID),
			zap.String("resource", payload.Resource),
			zap.String("action", string(payload.Action)),
			zap.String("record_id", payload.RecordID),
			zap.String("actor_id", event.ActorID),
		)
		return nil
	})
}
