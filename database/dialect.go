/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// Dialect selects identifier quoting and placeholder style.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdent reports whether name may be used as a table or column identifier.
func ValidIdent(name string) bool {
	return identPattern.MatchString(name)
}

// Quote quotes an identifier that already passed ValidIdent.
func (d Dialect) Quote(name string) string {
	if d == DialectMySQL {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// QuoteIdent validates and quotes name.
func (d Dialect) QuoteIdent(name string) (string, error) {
	if !ValidIdent(name) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return d.Quote(name), nil
}

// PositionalArgs reports whether the driver expects $1..$n placeholders.
func (d Dialect) PositionalArgs() bool {
	return d == DialectPostgres
}

func (d Dialect) String() string { return string(d) }

// ParseDialect maps a configured database type to a Dialect.
func ParseDialect(dbType string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "mysql":
		return DialectMySQL, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// DialectOf returns the Dialect of an open bun database.
func DialectOf(db *bun.DB) (Dialect, error) {
	switch db.Dialect().Name() {
	case dialect.MySQL:
		return DialectMySQL, nil
	case dialect.PG:
		return DialectPostgres, nil
	case dialect.SQLite:
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported bun dialect: %s", db.Dialect().Name())
	}
}
