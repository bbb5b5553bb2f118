// Package repository holds the catalog data access layers that sit on a
// database.ConnectionAdapter: the generic single-table builder, the lookup
// and listing reader, and the transactional composite entity writer.
package repository
