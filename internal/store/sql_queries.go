// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	createUser = `INSERT INTO users (login, name, password_hash)
    VALUES ($1, $2, $3)
    RETURNING user_id, login, name, password_hash, created_at;`

	findUserByLogin = `SELECT user_id, login, name, password_hash, created_at
    FROM users
    WHERE login = $1;`

	createCollection = `INSERT INTO collections (id, owner_id, name, description, color, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7);`

	getCollection = `SELECT id, owner_id, name, description, color, created_at, updated_at
    FROM collections
    WHERE id = $1;`

	listCollections = `SELECT id, owner_id, name, description, color, created_at, updated_at
    FROM collections
    WHERE owner_id = $1
    ORDER BY created_at;`

	updateCollection = `UPDATE collections
    SET name = $2, description = $3, color = $4, updated_at = $5
    WHERE id = $1;`

	deleteCollection = `DELETE FROM collections WHERE id = $1;`

	createTable = `INSERT INTO tables (id, collection_id, owner_id, name, description, schema, records, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	getTable = `SELECT id, collection_id, owner_id, name, description, schema, records, created_at, updated_at
    FROM tables
    WHERE id = $1;`

	listTables = `SELECT id, collection_id, owner_id, name, description, schema, records, created_at, updated_at
    FROM tables
    WHERE owner_id = $1
    ORDER BY created_at;`

	updateTable = `UPDATE tables
    SET collection_id = $2, name = $3, description = $4, schema = $5, records = $6, updated_at = $7
    WHERE id = $1;`

	deleteTable = `DELETE FROM tables WHERE id = $1;`

	createAPIKey = `INSERT INTO api_keys (id, owner_id, name, key, collection_id, scopes, rate_limit_per_minute, rate_limit_per_day, is_active, expires_at, created_at, last_used_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	getAPIKey = `SELECT id, owner_id, name, key, collection_id, scopes, rate_limit_per_minute, rate_limit_per_day, is_active, expires_at, created_at, last_used_at
    FROM api_keys
    WHERE id = $1;`

	findAPIKeyByValue = `SELECT id, owner_id, name, key, collection_id, scopes, rate_limit_per_minute, rate_limit_per_day, is_active, expires_at, created_at, last_used_at
    FROM api_keys
    WHERE key = $1;`

	listAPIKeys = `SELECT id, owner_id, name, key, collection_id, scopes, rate_limit_per_minute, rate_limit_per_day, is_active, expires_at, created_at, last_used_at
    FROM api_keys
    WHERE owner_id = $1
    ORDER BY created_at;`

	updateAPIKey = `UPDATE api_keys
    SET name = $2, collection_id = $3, scopes = $4, rate_limit_per_minute = $5, rate_limit_per_day = $6, is_active = $7, expires_at = $8
    WHERE id = $1;`

	deleteAPIKey = `DELETE FROM api_keys WHERE id = $1;`

	touchAPIKey = `UPDATE api_keys SET last_used_at = $2 WHERE id = $1;`

	createSubscription = `INSERT INTO webhook_subscriptions (id, owner_id, url, collection_id, table_id, events, headers, secret, is_active, total_deliveries, failed_deliveries, last_triggered_at, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`

	getSubscription = `SELECT id, owner_id, url, collection_id, table_id, events, headers, secret, is_active, total_deliveries, failed_deliveries, last_triggered_at, created_at
    FROM webhook_subscriptions
    WHERE id = $1;`

	listSubscriptions = `SELECT id, owner_id, url, collection_id, table_id, events, headers, secret, is_active, total_deliveries, failed_deliveries, last_triggered_at, created_at
    FROM webhook_subscriptions
    WHERE owner_id = $1
    ORDER BY created_at;`

	updateSubscription = `UPDATE webhook_subscriptions
    SET url = $2, collection_id = $3, table_id = $4, events = $5, headers = $6, secret = $7, is_active = $8
    WHERE id = $1;`

	deleteSubscription = `DELETE FROM webhook_subscriptions WHERE id = $1;`

	bumpSubscriptionCounters = `UPDATE webhook_subscriptions
    SET total_deliveries = total_deliveries + 1,
        failed_deliveries = failed_deliveries + $2,
        last_triggered_at = $3
    WHERE id = $1;`

	insertDelivery = `INSERT INTO webhook_deliveries (id, webhook_id, event, status_code, response_body, duration_ms, success, error, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	insertUsageEntry = `INSERT INTO usage_log (id, key_id, user_id, method, path, status, error, duration_ms, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
)
