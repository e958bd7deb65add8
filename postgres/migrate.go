package postgres

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Migration is used to hold the database key and function for creating the migration.
type Migration struct {
	Executor func(*gorm.DB) error
	Key      string
}

func (m Migration) execute(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := m.Executor(tx); err != nil {
			return err
		}

		return tx.Exec(`INSERT INTO migrations (key, ran_at) VALUES (?, ?)`, m.Key, time.Now().Unix()).Error
	})
}

// MigrateUp runs every migration not yet recorded in the migrations table, in order.
// Each migration and its record commit together.
func MigrateUp(db *gorm.DB, schema string, migrations []Migration) error {
	if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
		return fmt.Errorf("creating %s schema: %w", schema, err)
	}

	err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			ran_at bigint,
			key text,
			CONSTRAINT migrations_key UNIQUE (key)
		)
	`).Error
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var ran []string
	if err := db.Raw("SELECT key FROM migrations;").Scan(&ran).Error; err != nil {
		return fmt.Errorf("fetching ran migrations: %w", err)
	}

	for _, m := range pending(migrations, ran) {
		if err := m.execute(db); err != nil {
			return fmt.Errorf("running migration %s: %w", m.Key, err)
		}
	}

	return nil
}

// pending filters out migrations whose keys are in ran.
func pending(all []Migration, ran []string) []Migration {
	done := make(map[string]bool, len(ran))
	for _, key := range ran {
		done[key] = true
	}

	var toRun []Migration
	for _, m := range all {
		if !done[m.Key] {
			toRun = append(toRun, m)
		}
	}

	return toRun
}
