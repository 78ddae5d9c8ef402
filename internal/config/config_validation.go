// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Fallbacks applied by applyDefaults when neither env, flags nor the JSON
// file set a value.
const (
	defaultHTTPAddress      = "0.0.0.0:8080"
	defaultTokenDuration    = 24 * time.Hour
	defaultRequestTimeout   = 30 * time.Second
	defaultRatePerMinute    = 60
	defaultRatePerDay       = 10000
	defaultDeliveryTimeout  = 10 * time.Second
	defaultDispatchQueue    = 256
	defaultDispatchWorkers  = 4
	defaultTokenIssuerValue = "go-data-gateway"
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuerValue
	}
	if cfg.RateLimit.DefaultPerMinute == 0 {
		cfg.RateLimit.DefaultPerMinute = defaultRatePerMinute
	}
	if cfg.RateLimit.DefaultPerDay == 0 {
		cfg.RateLimit.DefaultPerDay = defaultRatePerDay
	}
	if cfg.Webhooks.DeliveryTimeout == 0 {
		cfg.Webhooks.DeliveryTimeout = defaultDeliveryTimeout
	}
	if cfg.Webhooks.QueueSize == 0 {
		cfg.Webhooks.QueueSize = defaultDispatchQueue
	}
	if cfg.Webhooks.Workers == 0 {
		cfg.Webhooks.Workers = defaultDispatchWorkers
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
