package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-data-gateway/internal/config"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/internal/utils"
	"github.com/MKhiriev/go-data-gateway/models"
	"golang.org/x/crypto/bcrypt"
)

// authService is the concrete implementation of AuthService.
// It handles user registration, credential verification, session token
// lifecycle, and API key resolution. Passwords are hashed with bcrypt;
// session tokens are HMAC-SHA256 JWTs.
type authService struct {
	userRepository store.UserRepository
	keyRepository  store.APIKeyRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repositories
// and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(users store.UserRepository, keys store.APIKeyRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: users,
		keyRepository:  keys,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// RegisterUser creates a new user account and immediately issues a session
// token for it.
//
// Returns ErrInvalidDataProvided when login or password is empty, or a
// wrapped storage error (e.g. store.ErrLoginAlreadyExists) on persistence
// failure.
func (a *authService) RegisterUser(ctx context.Context, creds models.Credentials) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if creds.Login == "" || creds.Password == "" {
		log.Error().Str("login", creds.Login).Msg("invalid registration data provided")
		return models.User{}, models.Token{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Login:        creds.Login,
		Name:         creds.Name,
		PasswordHash: string(hash),
	})
	if err != nil {
		log.Err(err).Str("login", creds.Login).Msg("user creation ended with error")
		return models.User{}, models.Token{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("error issuing session token: %w", err)
	}

	return user, token, nil
}

// LoginUser verifies the login/password pair and issues a session token.
//
// Returns ErrWrongPassword for an unknown login or a password mismatch; the
// two cases are deliberately indistinguishable to the caller.
func (a *authService) LoginUser(ctx context.Context, creds models.Credentials) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if creds.Login == "" || creds.Password == "" {
		return models.User{}, models.Token{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByLogin(ctx, creds.Login)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, models.Token{}, ErrWrongPassword
		}
		log.Err(err).Str("login", creds.Login).Msg("error finding user")
		return models.User{}, models.Token{}, fmt.Errorf("error finding user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return models.User{}, models.Token{}, ErrWrongPassword
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("error issuing session token: %w", err)
	}

	return user, token, nil
}

// Authenticate resolves request credentials into a principal.
//
// Exactly one credential must be supplied:
//   - apiKey: looked up by value; unknown, inactive, or expired keys fail
//     with ErrInvalidCredential. The principal carries the key's scopes,
//     optional collection scope, and rate limits.
//   - bearerToken: validated as a JWT; the principal carries the admin scope
//     and no collection restriction.
//
// Both or neither present fails with ErrUnauthenticated.
func (a *authService) Authenticate(ctx context.Context, apiKey, bearerToken string) (models.Principal, error) {
	log := logger.FromContext(ctx)

	switch {
	case apiKey != "" && bearerToken != "":
		return models.Principal{}, ErrUnauthenticated
	case apiKey != "":
		return a.authenticateKey(ctx, apiKey)
	case bearerToken != "":
		token, err := utils.ValidateAndParseJWTToken(bearerToken, a.tokenSignKey, a.tokenIssuer)
		if err != nil {
			log.Err(err).Msg("session token validation failed")
			return models.Principal{}, ErrTokenIsExpiredOrInvalid
		}
		return models.Principal{
			UserID: token.UserID,
			Scopes: models.Scopes{models.ScopeAdmin},
		}, nil
	default:
		return models.Principal{}, ErrUnauthenticated
	}
}

func (a *authService) authenticateKey(ctx context.Context, apiKey string) (models.Principal, error) {
	log := logger.FromContext(ctx)

	key, err := a.keyRepository.FindKeyByValue(ctx, apiKey)
	if err != nil {
		if errors.Is(err, store.ErrAPIKeyNotFound) {
			return models.Principal{}, ErrInvalidCredential
		}
		log.Err(err).Msg("error looking up api key")
		return models.Principal{}, fmt.Errorf("error looking up api key: %w", err)
	}

	now := time.Now()
	if !key.IsActive || key.Expired(now) {
		return models.Principal{}, ErrInvalidCredential
	}

	// Best-effort stamp; authentication does not depend on it.
	if err := a.keyRepository.TouchKey(ctx, key.ID, now); err != nil {
		log.Err(err).Str("key_id", key.ID).Msg("error stamping key last_used_at")
	}

	return models.Principal{
		UserID:             key.OwnerID,
		KeyID:              key.ID,
		Scopes:             key.Scopes,
		CollectionID:       key.CollectionID,
		RateLimitPerMinute: key.RateLimitPerMinute,
		RateLimitPerDay:    key.RateLimitPerDay,
	}, nil
}
