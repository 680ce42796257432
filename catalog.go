package targa

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/targa/tga"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is a single image recorded in the catalog
type Entry struct {
	ID        int64
	Path      string
	SHA1      string
	Width     int
	Height    int
	Bits      int
	ImageType int
	Author    string
	Software  string
	Warnings  []string
}

// Catalog is a sqlite database of scanned images
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens, creating if necessary, the catalog stored in file
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	// Scan workers share the database, serialize them rather than fight
	// over the write lock
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, bits INTEGER NOT NULL, image_type INTEGER NOT NULL, author TEXT, software TEXT)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS image_sha1 ON image (sha1)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS warning (image_id INTEGER NOT NULL, message TEXT NOT NULL, FOREIGN KEY(image_id) REFERENCES image(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add records the image m loaded from path with the given checksum,
// replacing any previous entry for the same path
func (c *Catalog) Add(path, sha string, m *tga.Image) (int64, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}

	id, err := addImage(tx, path, sha, m)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func addImage(tx *sql.Tx, path, sha string, m *tga.Image) (int64, error) {
	if _, err := tx.Exec("DELETE FROM warning WHERE image_id IN (SELECT id FROM image WHERE path = ?)", path); err != nil {
		return 0, err
	}
	if _, err := tx.Exec("DELETE FROM image WHERE path = ?", path); err != nil {
		return 0, err
	}

	var author, software sql.NullString
	if e, ok := m.Extension(); ok {
		author = sql.NullString{String: e.AuthorName, Valid: e.AuthorName != ""}
		software = sql.NullString{String: e.SoftwareID, Valid: e.SoftwareID != ""}
	}

	h := m.Header()
	result, err := tx.Exec("INSERT INTO image (path, sha1, width, height, bits, image_type, author, software) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", path, sha, h.Image.Width, h.Image.Height, h.Image.BitsPerPixel, h.ImageType, author, software)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, w := range m.Warnings() {
		if _, err := tx.Exec("INSERT INTO warning (image_id, message) VALUES (?, ?)", id, w); err != nil {
			return 0, err
		}
	}

	return id, nil
}

func (c *Catalog) query(where string, args ...interface{}) ([]Entry, error) {
	rows, err := c.db.Query("SELECT id, path, sha1, width, height, bits, image_type, author, software FROM image "+where+" ORDER BY path", args...)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for rows.Next() {
		var e Entry
		var author, software sql.NullString
		if err := rows.Scan(&e.ID, &e.Path, &e.SHA1, &e.Width, &e.Height, &e.Bits, &e.ImageType, &author, &software); err != nil {
			rows.Close()
			return nil, err
		}
		e.Author, e.Software = author.String, software.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Only one connection, so warnings are fetched once the rows above
	// have been released
	for i := range entries {
		if entries[i].Warnings, err = c.warnings(entries[i].ID); err != nil {
			return nil, err
		}
	}

	return entries, nil
}

func (c *Catalog) warnings(id int64) ([]string, error) {
	rows, err := c.db.Query("SELECT message FROM warning WHERE image_id = ? ORDER BY rowid", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// FindBySHA1 returns every entry whose file has the given checksum
func (c *Catalog) FindBySHA1(sha string) ([]Entry, error) {
	return c.query("WHERE sha1 = ?", sha)
}

// List returns every entry in the catalog ordered by path
func (c *Catalog) List() ([]Entry, error) {
	return c.query("")
}
