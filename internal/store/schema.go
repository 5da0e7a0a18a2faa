package store

import (
	"database/sql"
)

const currentSchemaVersion = 3

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT,
			cover_path TEXT,
			added_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS chapters (
			id TEXT PRIMARY KEY,
			book_id TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			audio_path TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			UNIQUE(book_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_chapters_book ON chapters(book_id, position);

		CREATE TABLE IF NOT EXISTS progress (
			book_id TEXT PRIMARY KEY REFERENCES books(id) ON DELETE CASCADE,
			chapter_id TEXT NOT NULL,
			position_ms INTEGER NOT NULL DEFAULT 0,
			speed REAL NOT NULL DEFAULT 1.0,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS listening_stats (
			day TEXT PRIMARY KEY,
			minutes REAL NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS player_settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			speed REAL NOT NULL DEFAULT 1.0,
			skip_enabled INTEGER NOT NULL DEFAULT 0,
			skip_intro_ms INTEGER NOT NULL DEFAULT 0,
			skip_outro_ms INTEGER NOT NULL DEFAULT 0,
			voice_enhance INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: add voice_enhance column if missing
	_, _ = db.Exec(`ALTER TABLE player_settings ADD COLUMN voice_enhance INTEGER NOT NULL DEFAULT 0`)

	// Migration: add cover_path column if missing
	_, _ = db.Exec(`ALTER TABLE books ADD COLUMN cover_path TEXT`)

	return nil
}
