// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same login already exists in the database.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrUserNotFound is returned when a login lookup matches no user record.
	ErrUserNotFound = errors.New("user was not found")

	// ErrCollectionNotFound is returned when a collection id matches no row.
	ErrCollectionNotFound = errors.New("collection was not found")

	// ErrTableNotFound is returned when a table id matches no row.
	ErrTableNotFound = errors.New("table was not found")

	// ErrAPIKeyNotFound is returned when an API key lookup (by id or by key
	// value) matches no row.
	ErrAPIKeyNotFound = errors.New("api key was not found")

	// ErrWebhookNotFound is returned when a webhook subscription id matches
	// no row.
	ErrWebhookNotFound = errors.New("webhook subscription was not found")

	// ErrDuplicateID is returned when an INSERT violates a primary-key or
	// unique constraint, e.g. two concurrent creates racing for the same id.
	ErrDuplicateID = errors.New("identifier already exists")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingJSON is returned when a JSONB column value cannot be
	// marshalled or unmarshalled.
	ErrEncodingJSON = errors.New("failed to encode jsonb column")
)
