package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"pyuml/internal/model"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS units (
			filepath TEXT PRIMARY KEY,
			content_hash TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS classes (
			qualified_name TEXT PRIMARY KEY,
			name TEXT,
			filepath TEXT,
			start_line INTEGER,
			end_line INTEGER,
			class_type TEXT,
			data JSON
		);`,
		`CREATE INDEX IF NOT EXISTS idx_classes_file ON classes(filepath);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, units map[string]string, classes []*model.ClassModel) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Snapshot semantics: drop everything, then write the new state.
	if _, err := tx.ExecContext(ctx, `DELETE FROM units`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM classes`); err != nil {
		return err
	}

	unitStmt, err := tx.PrepareContext(ctx, `INSERT INTO units (filepath, content_hash) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer unitStmt.Close()
	for path, hash := range units {
		if _, err := unitStmt.Exec(path, hash); err != nil {
			return err
		}
	}

	classStmt, err := tx.PrepareContext(ctx, insertClassQuery)
	if err != nil {
		return err
	}
	defer classStmt.Close()
	for _, class := range classes {
		if err := execInsertClass(classStmt, class); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) SaveUnit(ctx context.Context, path, contentHash string, classes []*model.ClassModel) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE filepath = ?`, path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO units (filepath, content_hash) VALUES (?, ?)
		ON CONFLICT(filepath) DO UPDATE SET content_hash=excluded.content_hash
	`, path, contentHash); err != nil {
		return err
	}

	classStmt, err := tx.PrepareContext(ctx, insertClassQuery)
	if err != nil {
		return err
	}
	defer classStmt.Close()
	for _, class := range classes {
		if err := execInsertClass(classStmt, class); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) DeleteUnit(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE filepath = ?`, path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM units WHERE filepath = ?`, path); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadClasses(ctx context.Context) ([]*model.ClassModel, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM classes ORDER BY filepath, start_line`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*model.ClassModel
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var class model.ClassModel
		if err := json.Unmarshal(data, &class); err != nil {
			return nil, fmt.Errorf("failed to decode stored class: %w", err)
		}
		classes = append(classes, &class)
	}
	return classes, rows.Err()
}

func (s *SQLiteStore) UnitHashes(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filepath, content_hash FROM units`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, err
		}
		hashes[path] = hash
	}
	return hashes, rows.Err()
}

const insertClassQuery = `
	INSERT INTO classes (qualified_name, name, filepath, start_line, end_line, class_type, data)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(qualified_name) DO UPDATE SET
		name=excluded.name,
		filepath=excluded.filepath,
		start_line=excluded.start_line,
		end_line=excluded.end_line,
		class_type=excluded.class_type,
		data=excluded.data
`

func execInsertClass(stmt *sql.Stmt, class *model.ClassModel) error {
	data, err := json.Marshal(class)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(class.QualifiedName, class.Name, class.Filepath, class.StartLine, class.EndLine, string(class.ClassType), data)
	return err
}
