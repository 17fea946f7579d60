// Package adapters provides database adapter implementations for the
// PostgreSQL order store.
//
// This package implements the adapter pattern to support multiple PostgreSQL
// database libraries: pgxpool.Pool, sql.DB, and sqlx.DB. All adapters provide
// equivalent functionality through a common DBAdapter interface, including
// transaction support, allowing the order store to work seamlessly with any
// supported database connection type.
package adapters
