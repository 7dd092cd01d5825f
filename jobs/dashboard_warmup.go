package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/avecor-crm/avecor-crm/internal/dashboard"
	"github.com/avecor-crm/avecor-crm/internal/observability"
)

// DashboardWarmupJob keeps the dashboard cache warm so the first request
// after an invalidation does not pay for five aggregate queries.
type DashboardWarmupJob struct {
	Dashboard *dashboard.Service
	Cache     *dashboard.Cache
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

func NewDashboardWarmupJob(svc *dashboard.Service, cache *dashboard.Cache, logger *slog.Logger, metrics *observability.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{Dashboard: svc, Cache: cache, Logger: logger, Metrics: metrics}
}

// Handle processes TaskDashboardWarmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if uerr := json.Unmarshal(t.Payload(), &payload); uerr != nil {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskDashboardWarmup)
	defer func() {
		err = tracker.End(err)
	}()

	logger := j.logger()
	start := time.Now()
	logger.Info("iniciando precarga del dashboard", "bump", payload.Bump)

	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if payload.Bump {
		if err = j.Cache.Bump(runCtx); err != nil {
			logger.Error("invalidar caché antes de precargar", "error", err)
			return err
		}
	}
	if err = j.Dashboard.Warm(runCtx); err != nil {
		logger.Error("precarga del dashboard falló", "error", err)
		return err
	}

	logger.Info("precarga del dashboard completada", "duration", time.Since(start))
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With("job", TaskDashboardWarmup)
	}
	return slog.Default().With("job", TaskDashboardWarmup)
}
