package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		roll_no         TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		room_number     TEXT NOT NULL DEFAULT '',
		current_balance NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		roll_no      TEXT NOT NULL REFERENCES students(roll_no),
		booking_date DATE NOT NULL,
		breakfast    BOOLEAN NOT NULL DEFAULT false,
		lunch        BOOLEAN NOT NULL DEFAULT false,
		dinner       BOOLEAN NOT NULL DEFAULT false,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (roll_no, booking_date)
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_date_idx ON bookings (booking_date)`,
	`CREATE TABLE IF NOT EXISTS meal_prices (
		meal  TEXT PRIMARY KEY CHECK (meal IN ('breakfast', 'lunch', 'dinner')),
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS menus (
		id         SMALLINT PRIMARY KEY CHECK (id = 1),
		breakfast  TEXT NOT NULL DEFAULT '',
		lunch      TEXT NOT NULL DEFAULT '',
		dinner     TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates any missing tables. Safe to run on every start.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.Db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap failed: %w", err)
		}
	}
	s.log.Info("schema initialized", zap.Int("statements", len(schema)))
	return nil
}
