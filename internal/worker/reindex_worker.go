package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/service"
)

// ReindexWorker rebuilds the knowledge retrieval index on a cron schedule so
// articles added since the last build become searchable without a manual
// reindex call.
type ReindexWorker struct {
	knowledge *service.KnowledgeService
	schedule  string
	logger    *zap.Logger
	runner    *cron.Cron
}

// NewReindexWorker constructs the worker. An empty schedule disables it.
func NewReindexWorker(knowledge *service.KnowledgeService, schedule string, logger *zap.Logger) *ReindexWorker {
	return &ReindexWorker{knowledge: knowledge, schedule: schedule, logger: logger}
}

// Start registers the job and begins the scheduler. Standard 5-field cron
// expressions (minute, hour, dom, month, dow).
func (w *ReindexWorker) Start() error {
	if w.schedule == "" {
		w.logger.Info("knowledge reindex schedule not set; worker disabled")
		return nil
	}

	w.runner = cron.New()
	_, err := w.runner.AddFunc(w.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		count, err := w.knowledge.Rebuild(ctx)
		if err != nil {
			w.logger.Warn("scheduled knowledge reindex failed", zap.Error(err))
			return
		}
		w.logger.Info("scheduled knowledge reindex complete", zap.Int("articles", count))
	})
	if err != nil {
		return err
	}

	w.runner.Start()
	w.logger.Info("knowledge reindex worker started", zap.String("schedule", w.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (w *ReindexWorker) Stop() {
	if w.runner == nil {
		return
	}
	<-w.runner.Stop().Done()
}
