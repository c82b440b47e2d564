package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skylark-app/feedback-backend/internal/media"
	"github.com/skylark-app/feedback-backend/internal/store"
	"github.com/skylark-app/feedback-backend/types"
)

// HealthService checks the external collaborators: the record store, the
// media bucket, and Redis.
type HealthService struct {
	records     store.RecordStore
	uploader    media.Uploader
	redisClient *redis.Client
	version     string
	startTime   time.Time
}

func NewHealthService(records store.RecordStore, uploader media.Uploader, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		records:     records,
		uploader:    uploader,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
	}
}

// CheckHealth pings each component. The record store being down takes the
// whole service down; media or redis degrade it, since submissions without
// attachments still work and the limiter fails open.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	recordStatus := h.checkRecordStore(checkCtx)
	components["record_store"] = recordStatus
	if recordStatus.Status == types.HealthStatusDown {
		overallStatus = types.HealthStatusDown
	}

	mediaStatus := h.checkMediaStorage(checkCtx)
	components["media_storage"] = mediaStatus
	if mediaStatus.Status == types.HealthStatusDown && overallStatus == types.HealthStatusUp {
		overallStatus = types.HealthStatusDegraded
	}

	redisStatus := h.checkRedis(checkCtx)
	components["redis"] = redisStatus
	if redisStatus.Status == types.HealthStatusDown && overallStatus == types.HealthStatusUp {
		overallStatus = types.HealthStatusDegraded
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkRecordStore(ctx context.Context) types.HealthComponent {
	if h.records == nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "record store not configured"}
	}
	if err := h.records.Ping(ctx); err != nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: err.Error()}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkMediaStorage(ctx context.Context) types.HealthComponent {
	if h.uploader == nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "media storage not configured"}
	}
	if err := h.uploader.Ping(ctx); err != nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: err.Error()}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "redis not configured"}
	}
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: err.Error()}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
