// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Scope is a single permission grantable to an API key.
type Scope string

// Permission scopes. ScopeAdmin implies every other scope.
const (
	ScopeRead   Scope = "read"
	ScopeWrite  Scope = "write"
	ScopeDelete Scope = "delete"
	ScopeSchema Scope = "schema"
	ScopeAdmin  Scope = "admin"
)

// Scopes is a set of permissions carried by a principal or an API key.
type Scopes []Scope

// Has reports whether the set grants the given scope. ScopeAdmin grants all.
func (s Scopes) Has(scope Scope) bool {
	for _, have := range s {
		if have == scope || have == ScopeAdmin {
			return true
		}
	}
	return false
}

// APIKey is a long-lived credential for programmatic access. A key scoped to
// a collection may only act on resources inside that collection; an empty
// CollectionID means the key works across all of the owner's collections.
type APIKey struct {
	// ID is the unique identifier of the key record (not the secret).
	ID string `json:"id"`

	// OwnerID is the user who created the key.
	OwnerID int64 `json:"-"`

	// Name is a user-friendly label (e.g. "ci-read-only").
	Name string `json:"name"`

	// Key is the secret credential value presented in the X-API-Key header.
	// It is returned once, in the creation response, and omitted afterwards.
	Key string `json:"key,omitempty"`

	// CollectionID optionally restricts the key to one collection.
	CollectionID string `json:"collection_id,omitempty"`

	// Scopes is the permission set granted to the key.
	Scopes Scopes `json:"scopes"`

	// RateLimitPerMinute caps requests in any trailing 60 second window.
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// RateLimitPerDay caps requests in any trailing 24 hour window.
	RateLimitPerDay int `json:"rate_limit_per_day"`

	// IsActive allows disabling a key without deleting it.
	IsActive bool `json:"is_active"`

	// ExpiresAt optionally sets a hard expiry. Zero means the key never expires.
	ExpiresAt time.Time `json:"expires_at,omitzero"`

	// CreatedAt is the timestamp when the key was created.
	CreatedAt time.Time `json:"created_at"`

	// LastUsedAt is the timestamp of the last authenticated request.
	LastUsedAt time.Time `json:"last_used_at,omitzero"`
}

// TableName returns the name of the database table
// associated with the APIKey model.
func (k APIKey) TableName() string {
	return "api_keys"
}

// Expired reports whether the key has a hard expiry in the past.
func (k *APIKey) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && k.ExpiresAt.Before(now)
}

// Principal is the authenticated actor resolved from either an API key or a
// session token.
type Principal struct {
	// UserID is the owning user of the credential.
	UserID int64

	// KeyID is the id of the API key used, or "" for session principals.
	KeyID string

	// Scopes is the effective permission set.
	Scopes Scopes

	// CollectionID restricts the principal to one collection when non-empty.
	CollectionID string

	// RateLimitPerMinute and RateLimitPerDay carry the key's limits so the
	// rate limiter does not need a second lookup. Zero for session principals.
	RateLimitPerMinute int
	RateLimitPerDay    int
}

// IsSession reports whether the principal came from a bearer session token.
func (p *Principal) IsSession() bool {
	return p.KeyID == ""
}
