package service

import (
	"context"
	"strconv"
	"time"

	"github.com/MKhiriev/go-data-gateway/internal/config"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

// usageRateLimiter enforces per-key sliding windows by counting usage-log
// rows, so the audit trail is the single source of truth for metering. A key
// is over limit when the trailing minute or trailing day already holds as
// many entries as the key allows.
type usageRateLimiter struct {
	usage  store.UsageRepository
	cfg    config.RateLimit
	logger *logger.Logger
}

// NewRateLimiter constructs a RateLimiter backed by the usage log.
func NewRateLimiter(usage store.UsageRepository, cfg config.RateLimit, logger *logger.Logger) RateLimiter {
	return &usageRateLimiter{usage: usage, cfg: cfg, logger: logger}
}

// Allow checks the principal's windows. Session traffic passes unmetered
// unless MeterSessions is on; session principals carry no key id, so in that
// mode they are counted under their user id.
func (l *usageRateLimiter) Allow(ctx context.Context, principal models.Principal) error {
	if principal.IsSession() && !l.cfg.MeterSessions {
		return nil
	}

	keyID := principal.KeyID
	if keyID == "" {
		keyID = sessionMeterKey(principal.UserID)
	}

	perMinute := principal.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = l.cfg.DefaultPerMinute
	}
	perDay := principal.RateLimitPerDay
	if perDay <= 0 {
		perDay = l.cfg.DefaultPerDay
	}

	now := time.Now()

	count, err := l.usage.CountKeyRequestsSince(ctx, keyID, now.Add(-time.Minute))
	if err != nil {
		// Fail open: a metering outage must not take the API down with it.
		logger.FromContext(ctx).Err(err).Str("key_id", keyID).Msg("error counting minute window, skipping rate limit")
		return nil
	}
	if count >= perMinute {
		return &RateLimitError{RetryAfter: 60}
	}

	count, err = l.usage.CountKeyRequestsSince(ctx, keyID, now.Add(-24*time.Hour))
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("key_id", keyID).Msg("error counting day window, skipping rate limit")
		return nil
	}
	if count >= perDay {
		return &RateLimitError{RetryAfter: 3600}
	}

	return nil
}

// sessionMeterKey is the synthetic key id used to meter bearer-token traffic
// when MeterSessions is enabled.
func sessionMeterKey(userID int64) string {
	return "session:" + strconv.FormatInt(userID, 10)
}
