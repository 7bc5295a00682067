package db

import (
	"database/sql"
	"fmt"
)

// Dialect selects the DDL flavour for MigrateUp.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectFor maps a driver name from Open to its DDL dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres:
		return DialectPostgres, nil
	case DriverSQLite:
		return DialectSQLite, nil
	}
	return "", fmt.Errorf("no dialect for driver %q", driver)
}

// MigrateUp creates the watermark table. Safe to run repeatedly.
func MigrateUp(db *sql.DB, dialect Dialect) error {
	var ddl string
	switch dialect {
	case DialectPostgres:
		ddl = `
CREATE TABLE IF NOT EXISTS guild_watermarks (
    group_name  TEXT        NOT NULL,
    guild_id    BIGINT      NOT NULL,
    match_id    BIGINT      NOT NULL DEFAULT 0,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (group_name, guild_id)
)`
	case DialectSQLite:
		ddl = `
CREATE TABLE IF NOT EXISTS guild_watermarks (
    group_name  TEXT     NOT NULL,
    guild_id    INTEGER  NOT NULL,
    match_id    INTEGER  NOT NULL DEFAULT 0,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (group_name, guild_id)
)`
	default:
		return fmt.Errorf("migrate: unknown dialect %q", dialect)
	}

	if _, err := db.Exec(ddl); err != nil {
		return err
	}
	return nil
}

// MigrateDown drops the watermark table. Every guild replays its latest matches afterwards.
func MigrateDown(db *sql.DB) error {
	if _, err := db.Exec(`DROP TABLE IF EXISTS guild_watermarks`); err != nil {
		return err
	}
	return nil
}
