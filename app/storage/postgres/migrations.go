package postgres

import (
	"database/sql"

	log "github.com/sirupsen/logrus"
)

// RunMigrations checks and applies necessary schema updates.
func RunMigrations(db *sql.DB) error {
	log.Info("Running database migrations...")

	if err := createUsersTable(db); err != nil {
		return err
	}
	if err := createStudentFeesTable(db); err != nil {
		return err
	}
	if err := addStudentFeesOwnerIndex(db); err != nil {
		return err
	}

	log.Info("Database migrations completed successfully")
	return nil
}

func createUsersTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			email TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			verified BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Errorf("Failed to create users table: %v", err)
		return err
	}
	return nil
}

func createStudentFeesTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS student_fees (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			standard TEXT NOT NULL,
			email TEXT NOT NULL,
			total_fees NUMERIC(12,2) NOT NULL,
			fees_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
			payment_mode TEXT NOT NULL DEFAULT 'Pending',
			owner_id UUID NOT NULL REFERENCES users(id),
			payment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			date_of_admission TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Errorf("Failed to create student_fees table: %v", err)
		return err
	}
	return nil
}

func addStudentFeesOwnerIndex(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1
				FROM pg_indexes
				WHERE tablename = 'student_fees'
				AND indexname = 'idx_student_fees_owner'
			) THEN
				CREATE INDEX idx_student_fees_owner ON student_fees (owner_id);
			END IF;
		END $$;
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Errorf("Failed to create owner index on student_fees: %v", err)
		return err
	}
	return nil
}
