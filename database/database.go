package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if needed) the SQLite file at path and brings its schema up to date.
func Open(path string) (db *sql.DB, err error) {
	db, err = sql.Open("sqlite3", path)
	if err != nil {
		return
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		db.Close()
		return
	}

	// whole-blob rewrites are serialized by the store, one writer is enough
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateDB(db)
	if err != nil {
		db.Close()
		return
	}

	return
}
