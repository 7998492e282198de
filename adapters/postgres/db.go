package postgres

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	apperrors "github.com/r0bertgabriel/inmet-belem/internal/errors"
)

// Open connects to the database at url and verifies the connection.
func Open(url string) (*sqlx.DB, error) {
	if url == "" {
		return nil, apperrors.DatabaseError("database URL is empty")
	}
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperrors.Wrap(err, "failed to ping database")
	}
	return db, nil
}
