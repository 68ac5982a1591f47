package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/winkingcatstudios/video-streaming-backend/internal/events"
)

type recordingRemover struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (r *recordingRemover) Remove(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, path)
	return r.err
}

func TestCleanupWorker_RemovesPublishedFiles(t *testing.T) {
	remover := &recordingRemover{}
	dispatcher := events.NewInMemoryDispatcher()
	w := NewCleanupWorker(remover, zap.NewNop(), 4)
	w.Register(dispatcher)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventFileOrphaned, "", events.FileOrphanedPayload{Path: "/uploads/images/a.png"})))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventFileOrphaned, "", events.FileOrphanedPayload{Path: "/uploads/images/b.png"})))

	cancel()
	w.Wait()

	assert.ElementsMatch(t, []string{"/uploads/images/a.png", "/uploads/images/b.png"}, remover.removed)
}

func TestCleanupWorker_FailureOnlyLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	remover := &recordingRemover{err: errors.New("permission denied")}
	dispatcher := events.NewInMemoryDispatcher()
	w := NewCleanupWorker(remover, zap.New(core), 1)
	w.Register(dispatcher)

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventFileOrphaned, "", events.FileOrphanedPayload{Path: "/uploads/images/a.png"}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)
	w.Wait()

	assert.Equal(t, 1, logs.FilterMessage("failed to remove orphaned upload").Len())
}

func TestAuditWorker_LogsMutations(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, zap.New(core))

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventCatalogChanged, "u1",
		events.CatalogChangedPayload{Resource: "list", Action: events.ActionDeleted, RecordID: "l1"}))
	require.NoError(t, err)

	entries := logs.FilterMessage("catalog changed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "l1", entries[0].ContextMap()["record_id"])
}
