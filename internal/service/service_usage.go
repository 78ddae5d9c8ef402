package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

// statsWindow is how far back GetStats aggregates, and statsTail how many
// recent entries it returns verbatim.
const (
	statsWindow = 30 * 24 * time.Hour
	statsTail   = 20
)

// usageService appends request audit rows and aggregates them into stats.
type usageService struct {
	usage  store.UsageRepository
	logger *logger.Logger
}

// NewUsageService constructs a UsageService.
func NewUsageService(usage store.UsageRepository, logger *logger.Logger) UsageService {
	return &usageService{usage: usage, logger: logger}
}

// LogRequest appends one audit row. Failures are logged and swallowed: a
// broken audit trail must not fail the request it describes.
func (s *usageService) LogRequest(ctx context.Context, entry models.UsageLogEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := s.usage.Append(ctx, entry); err != nil {
		s.logger.Err(err).
			Str("path", entry.Path).
			Str("key_id", entry.KeyID).
			Msg("error appending usage log entry")
	}
}

func (s *usageService) GetStats(ctx context.Context, principal models.Principal) (models.UsageStats, error) {
	return s.usage.Stats(ctx, principal.UserID, time.Now().Add(-statsWindow), statsTail)
}
