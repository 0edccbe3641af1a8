package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/notq/speech-backend/internal/queue"
	"github.com/notq/speech-backend/internal/storage"
)

// AudioWorker removes expired generated audio from the public store.
type AudioWorker struct {
	store *storage.PublicStore
}

func NewAudioWorker(store *storage.PublicStore) *AudioWorker {
	return &AudioWorker{store: store}
}

func (w *AudioWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.AudioPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	age := time.Duration(payload.MaxAgeSeconds) * time.Second
	removed, err := w.store.PurgeOlderThan(age)
	if err != nil {
		return fmt.Errorf("purge audio: %w", err)
	}
	slog.Info("audio purge complete", "removed", removed, "max_age", age)
	return nil
}
