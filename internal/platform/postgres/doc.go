// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles query execution, uniqueness conflicts, data mapping between
// domain entities and database records, and the embedded schema migrations.
package postgres
