package storage

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicateUsername is returned when the users unique index
	// rejects an insert. The index is the arbiter for concurrent
	// signups; there is no pre-check.
	ErrDuplicateUsername = errors.New("storage: username already taken")
)

// Open connects to the SQLite database with foreign keys enforced on
// every pooled connection.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}
	return sql.Open("sqlite3", dsn)
}

const schema = `
CREATE TABLE IF NOT EXISTS cities (
	code  TEXT PRIMARY KEY,
	name  TEXT NOT NULL,
	state TEXT NOT NULL CHECK (length(state) = 2)
);

CREATE TABLE IF NOT EXISTS cafes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	url         TEXT NOT NULL,
	address     TEXT NOT NULL,
	city_code   TEXT NOT NULL REFERENCES cities(code),
	image_url   TEXT NOT NULL DEFAULT '/static/images/default-cafe.jpg'
);

CREATE TABLE IF NOT EXISTS users (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	username        TEXT NOT NULL UNIQUE,
	admin           INTEGER NOT NULL DEFAULT 0,
	email           TEXT,
	first_name      TEXT NOT NULL,
	last_name       TEXT NOT NULL,
	description     TEXT,
	image_url       TEXT NOT NULL DEFAULT '/static/images/default-pic.png',
	hashed_password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS likes (
	user_id INTEGER NOT NULL REFERENCES users(id),
	cafe_id INTEGER NOT NULL REFERENCES cafes(id),
	PRIMARY KEY (user_id, cafe_id)
);`

// Migrate creates the tables if they do not exist yet.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
