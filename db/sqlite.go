package db

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/placeholderlabs/placeholder-insights/models"
)

// Archive stores the raw ingested records of the current analysis session.
// Derived metrics are never stored; each run replaces the previous records
// wholesale.
type Archive struct {
	db    *sql.DB
	mutex sync.Mutex
	log   *logrus.Logger
}

// NewArchive opens (or creates) the SQLite archive at dbPath.
func NewArchive(dbPath string, log *logrus.Logger) (*Archive, error) {
	database, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	archive := &Archive{
		db:  database,
		log: log,
	}

	if err := archive.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return archive, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.db.Close()
}

// initTables creates the necessary tables if they don't exist. Posts and
// comments use the implicit rowid as primary key so duplicate record ids
// stay duplicated, matching the in-memory collections.
func (a *Archive) initTables() error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT NOT NULL,
		email TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS comments (
		id INTEGER NOT NULL,
		post_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		body TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
	CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);
	`

	_, err := a.db.Exec(query)
	return err
}

// Replace drops all archived records and stores the snapshot's collections.
func (a *Archive) Replace(snap *models.Snapshot) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"users", "posts", "comments"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, user := range snap.Users {
		_, err := tx.Exec(
			"INSERT INTO users (id, name, username, email) VALUES (?, ?, ?, ?)",
			user.ID, user.Name, user.Username, user.Email,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user %d: %w", user.ID, err)
		}
	}

	for _, post := range snap.Posts {
		_, err := tx.Exec(
			"INSERT INTO posts (id, user_id, title, body) VALUES (?, ?, ?, ?)",
			post.ID, post.UserID, post.Title, post.Body,
		)
		if err != nil {
			return fmt.Errorf("failed to insert post %d: %w", post.ID, err)
		}
	}

	for _, comment := range snap.Comments {
		_, err := tx.Exec(
			"INSERT INTO comments (id, post_id, name, email, body) VALUES (?, ?, ?, ?, ?)",
			comment.ID, comment.PostID, comment.Name, comment.Email, comment.Body,
		)
		if err != nil {
			return fmt.Errorf("failed to insert comment %d: %w", comment.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	a.log.WithFields(logrus.Fields{
		"users":    len(snap.Users),
		"posts":    len(snap.Posts),
		"comments": len(snap.Comments),
	}).Info("Archived snapshot")

	return nil
}

// Counts returns the number of archived records per stream.
func (a *Archive) Counts() (map[string]int, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	counts := make(map[string]int, 3)

	for _, table := range []string{"users", "posts", "comments"} {
		var count int
		if err := a.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}

		counts[table] = count
	}

	return counts, nil
}
