package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_templates",
		SQL: `CREATE TABLE IF NOT EXISTS templates (
  id            TEXT        PRIMARY KEY,
  name          TEXT        NOT NULL,
  original_file TEXT        NOT NULL,
  storage_key   TEXT        NOT NULL UNIQUE,
  number_format TEXT        NOT NULL,
  last_number   BIGINT      NOT NULL DEFAULT 0 CHECK (last_number >= 0),
  uploaded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_letters",
		SQL: `CREATE TABLE IF NOT EXISTS letters (
  id          TEXT        PRIMARY KEY,
  template_id TEXT        NOT NULL,
  letter_type TEXT        NOT NULL,
  applicant   TEXT        NOT NULL,
  number      TEXT        NOT NULL,
  issued_at   TEXT        NOT NULL,
  filename    TEXT        NOT NULL,
  storage_key TEXT        NOT NULL UNIQUE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_letters_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_letters_created_at ON letters (created_at);`,
	},
	{
		Name: "create_index_letters_letter_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_letters_letter_type ON letters (letter_type);`,
	},
	{
		Name: "create_index_letters_template_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_letters_template_id ON letters (template_id);`,
	},
	{
		Name: "create_table_settings",
		SQL: `CREATE TABLE IF NOT EXISTS settings (
  id             SMALLINT    PRIMARY KEY CHECK (id = 1),
  qr_enabled     BOOLEAN     NOT NULL DEFAULT FALSE,
  office_name    TEXT        NOT NULL,
  office_address TEXT        NOT NULL,
  phone          TEXT        NOT NULL,
  website        TEXT        NOT NULL
);`,
	},
	{
		Name: "seed_settings_default_row",
		SQL: `INSERT INTO settings (id, qr_enabled, office_name, office_address, phone, website)
VALUES (1, FALSE, 'Pemerintah Desa', 'Jl. Raya Desa No. 1', '(021) 12345678', 'www.desa.go.id')
ON CONFLICT (id) DO NOTHING;`,
	},
}

// EnsureMigrated checks if the 'letters' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.letters') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
