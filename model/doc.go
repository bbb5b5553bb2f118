// Package model holds the bun models of the catalog tables, used to bootstrap
// a schema for tests and tooling.
package model
