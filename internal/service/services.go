// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-data-gateway/internal/config"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
)

// Services aggregates every business-logic service consumed by the HTTP
// layer.
type Services struct {
	Auth        AuthService
	Collections CollectionService
	Tables      TableService
	Records     RecordService
	APIKeys     APIKeyService
	Webhooks    WebhookService
	Usage       UsageService
	RateLimiter RateLimiter
}

// NewServices wires the service layer on top of the repositories. The table
// and record services share one keyed-mutex set so schema edits and record
// mutations on the same table serialise against each other. dispatcher is
// constructed by the caller because it owns background goroutines with their
// own lifecycle.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, dispatcher Dispatcher, log *logger.Logger) *Services {
	locks := newTableLocks()

	return &Services{
		Auth:        NewAuthService(storages.Users, storages.APIKeys, cfg.App, log),
		Collections: NewCollectionService(storages.Collections, log),
		Tables:      NewTableService(storages.Tables, locks, log),
		Records:     NewRecordService(storages.Tables, locks, dispatcher, log),
		APIKeys:     NewAPIKeyService(storages.APIKeys, cfg.RateLimit, log),
		Webhooks:    NewWebhookService(storages.Webhooks, dispatcher, log),
		Usage:       NewUsageService(storages.Usage, log),
		RateLimiter: NewRateLimiter(storages.Usage, cfg.RateLimit, log),
	}
}
