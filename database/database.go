package database

import (
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"

	"eplus-sqlresult/config"
	"eplus-sqlresult/models"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// InitDB opens a handle on the result database at path. Callers own the
// handle; prefer WithDB which releases it on every exit path.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(config.GetDriverName(), path)
	if err != nil {
		log.Error(err)
		return nil, models.DatabaseError("open "+path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// WithDB opens a short-lived connection, runs fn and closes the connection
// whatever fn returns, including when it panics.
func WithDB(path string, fn func(db *sql.DB) error) error {
	db, err := InitDB(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.WithField("file", path).Warn("closing result database: ", cerr)
		}
	}()
	return fn(db)
}

// ValidateResultFile checks that path is an existing SQLite file with one of
// the accepted result extensions.
func ValidateResultFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		e := models.NotFoundError("open", "no file was found at %s", path)
		log.Error(e)
		return e
	}

	if !hasResultExtension(path) {
		e := models.FormatError("open", "%s is not an SQL file ending in %s", path,
			strings.Join(config.GetResultFileExtensions(), ", "))
		log.Error(e)
		return e
	}

	f, err := os.Open(path)
	if err != nil {
		log.Error(err)
		return models.NotFoundError("open", "cannot read %s", path)
	}
	defer f.Close()

	header := make([]byte, len(config.GetSQLiteHeader()))
	if _, err := io.ReadFull(f, header); err != nil || string(header) != config.GetSQLiteHeader() {
		e := models.FormatError("open", "%s is not an SQLite database", path)
		log.Error(e)
		return e
	}
	return nil
}

func hasResultExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range config.GetResultFileExtensions() {
		if ext == allowed {
			return true
		}
	}
	return false
}
