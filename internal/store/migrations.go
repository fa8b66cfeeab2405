package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Labels table - the canonical ground/danger classification table.
		// The decision engine's ground token set is built from the rows
		// with class 'ground'; keeping one table prevents the safe and
		// danger sets from silently diverging.
		`CREATE TABLE IF NOT EXISTS labels (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			class TEXT NOT NULL CHECK(class IN ('ground', 'danger')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		// (confidence threshold, hold duration)
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Events table - log of danger detections
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			probability REAL NOT NULL,
			trigger_type TEXT NOT NULL CHECK(trigger_type IN ('instant', 'sustained')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
