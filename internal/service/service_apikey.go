package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-data-gateway/internal/config"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

// apiKeyService manages API key credentials. Key management is a
// session-only surface: a request authenticated with an API key cannot
// create, inspect or revoke keys, which keeps a leaked key from minting
// broader replacements for itself.
type apiKeyService struct {
	keys     store.APIKeyRepository
	defaults config.RateLimit
	logger   *logger.Logger
}

// NewAPIKeyService constructs an APIKeyService. defaults supplies the rate
// limits applied to keys created without explicit ones.
func NewAPIKeyService(keys store.APIKeyRepository, defaults config.RateLimit, logger *logger.Logger) APIKeyService {
	return &apiKeyService{keys: keys, defaults: defaults, logger: logger}
}

// CreateKey mints a new key. The secret value is generated server-side and
// returned only in this response; subsequent reads omit it.
func (s *apiKeyService) CreateKey(ctx context.Context, principal models.Principal, key models.APIKey) (models.APIKey, error) {
	if err := requireSession(principal); err != nil {
		return models.APIKey{}, err
	}
	if key.Name == "" {
		return models.APIKey{}, fmt.Errorf("%w: key name is required", ErrInvalidDataProvided)
	}
	for _, scope := range key.Scopes {
		if !validScope(scope) {
			return models.APIKey{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidDataProvided, scope)
		}
	}
	if len(key.Scopes) == 0 {
		key.Scopes = models.Scopes{models.ScopeRead}
	}

	key.ID = uuid.NewString()
	key.Key = "dgw_" + uuid.NewString()
	key.OwnerID = principal.UserID
	key.IsActive = true
	key.CreatedAt = time.Now()
	key.LastUsedAt = time.Time{}

	if key.RateLimitPerMinute <= 0 {
		key.RateLimitPerMinute = s.defaults.DefaultPerMinute
	}
	if key.RateLimitPerDay <= 0 {
		key.RateLimitPerDay = s.defaults.DefaultPerDay
	}

	if err := s.keys.CreateKey(ctx, key); err != nil {
		return models.APIKey{}, err
	}

	return key, nil
}

func (s *apiKeyService) GetKey(ctx context.Context, principal models.Principal, id string) (models.APIKey, error) {
	if err := requireSession(principal); err != nil {
		return models.APIKey{}, err
	}

	key, err := s.keys.GetKey(ctx, id)
	if err != nil {
		return models.APIKey{}, err
	}
	if key.OwnerID != principal.UserID {
		return models.APIKey{}, store.ErrAPIKeyNotFound
	}

	key.Key = ""
	return key, nil
}

func (s *apiKeyService) ListKeys(ctx context.Context, principal models.Principal) ([]models.APIKey, error) {
	if err := requireSession(principal); err != nil {
		return nil, err
	}

	keys, err := s.keys.ListKeys(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	for i := range keys {
		keys[i].Key = ""
	}
	return keys, nil
}

// UpdateKey changes the mutable attributes of a key: name, scopes, collection
// binding, limits, active flag and expiry. The secret value never changes.
func (s *apiKeyService) UpdateKey(ctx context.Context, principal models.Principal, key models.APIKey) (models.APIKey, error) {
	if err := requireSession(principal); err != nil {
		return models.APIKey{}, err
	}

	current, err := s.keys.GetKey(ctx, key.ID)
	if err != nil {
		return models.APIKey{}, err
	}
	if current.OwnerID != principal.UserID {
		return models.APIKey{}, store.ErrAPIKeyNotFound
	}

	if key.Name != "" {
		current.Name = key.Name
	}
	if key.Scopes != nil {
		for _, scope := range key.Scopes {
			if !validScope(scope) {
				return models.APIKey{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidDataProvided, scope)
			}
		}
		current.Scopes = key.Scopes
	}
	current.CollectionID = key.CollectionID
	if key.RateLimitPerMinute > 0 {
		current.RateLimitPerMinute = key.RateLimitPerMinute
	}
	if key.RateLimitPerDay > 0 {
		current.RateLimitPerDay = key.RateLimitPerDay
	}
	current.IsActive = key.IsActive
	current.ExpiresAt = key.ExpiresAt

	if err := s.keys.UpdateKey(ctx, current); err != nil {
		return models.APIKey{}, err
	}

	current.Key = ""
	return current, nil
}

func (s *apiKeyService) DeleteKey(ctx context.Context, principal models.Principal, id string) error {
	if err := requireSession(principal); err != nil {
		return err
	}

	key, err := s.keys.GetKey(ctx, id)
	if err != nil {
		return err
	}
	if key.OwnerID != principal.UserID {
		return store.ErrAPIKeyNotFound
	}

	return s.keys.DeleteKey(ctx, id)
}

func requireSession(principal models.Principal) error {
	if !principal.IsSession() {
		return ErrKeyManagementRequiresSession
	}
	return nil
}

func validScope(scope models.Scope) bool {
	switch scope {
	case models.ScopeRead, models.ScopeWrite, models.ScopeDelete, models.ScopeSchema, models.ScopeAdmin:
		return true
	}
	return false
}
