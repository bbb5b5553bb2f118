// Package database provides connection management, the bun-backed
// ConnectionAdapter with named parameter binding, the error taxonomy shared by
// the catalog layers, statement hooks, schema bootstrap and SQL seeding.
package database
