// Package storage persists parsed class declarations in a SQLite index
// so large disassembly trees can be queried without re-parsing.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dhamidi/smali/lang"
	"github.com/dhamidi/smali/model"
)

// Index is a SQLite-backed class index.
type Index struct {
	db *sql.DB
}

// Open opens (or creates) the index database at path.
func Open(path string) (*Index, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=10000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	idx := &Index{db: db}
	if err := idx.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS classes (
		descriptor TEXT PRIMARY KEY,
		name TEXT,
		simple_name TEXT,
		package TEXT,
		super_class TEXT,
		source_file TEXT,
		modifiers TEXT,
		path TEXT,
		indexed_at INTEGER
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS classes_fts USING fts5(
		descriptor,
		name,
		simple_name,
		content='classes',
		content_rowid='rowid'
	);

	CREATE TRIGGER IF NOT EXISTS classes_ai AFTER INSERT ON classes BEGIN
		INSERT INTO classes_fts(rowid, descriptor, name, simple_name)
		VALUES (new.rowid, new.descriptor, new.name, new.simple_name);
	END;

	CREATE TRIGGER IF NOT EXISTS classes_ad AFTER DELETE ON classes BEGIN
		INSERT INTO classes_fts(classes_fts, rowid, descriptor, name, simple_name)
		VALUES('delete', old.rowid, old.descriptor, old.name, old.simple_name);
	END;

	CREATE TABLE IF NOT EXISTS fields (
		class_descriptor TEXT NOT NULL,
		name TEXT,
		descriptor TEXT,
		modifiers TEXT,
		value TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_fields_class ON fields(class_descriptor);

	CREATE TABLE IF NOT EXISTS methods (
		class_descriptor TEXT NOT NULL,
		name TEXT,
		descriptor TEXT,
		modifiers TEXT,
		registers INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_methods_class ON methods(class_descriptor);
	`
	_, err := idx.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// IndexClass stores the class and its inner classes, replacing any
// previously indexed version. path records where the source came from.
func (idx *Index) IndexClass(class *model.Class, path string) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	if err := idx.indexClass(tx, class, path); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (idx *Index) indexClass(tx *sql.Tx, class *model.Class, path string) error {
	if _, err := tx.Exec("DELETE FROM classes WHERE descriptor = ?", class.Descriptor); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM fields WHERE class_descriptor = ?", class.Descriptor); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM methods WHERE class_descriptor = ?", class.Descriptor); err != nil {
		return err
	}

	_, err := tx.Exec(`
		INSERT INTO classes (descriptor, name, simple_name, package, super_class, source_file, modifiers, path, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, class.Descriptor, class.Name, class.SimpleName(), class.Package(),
		class.SuperClass, class.SourceFile, joinModifiers(class.Flags), path, time.Now().Unix())
	if err != nil {
		return err
	}

	for _, f := range class.Fields {
		value := ""
		if f.Value != nil {
			value = f.Value.Raw
		}
		_, err := tx.Exec(`
			INSERT INTO fields (class_descriptor, name, descriptor, modifiers, value)
			VALUES (?, ?, ?, ?, ?)
		`, class.Descriptor, f.Name, f.Descriptor, joinModifiers(f.Flags), value)
		if err != nil {
			return err
		}
	}

	for _, m := range class.Methods {
		_, err := tx.Exec(`
			INSERT INTO methods (class_descriptor, name, descriptor, modifiers, registers)
			VALUES (?, ?, ?, ?, ?)
		`, class.Descriptor, m.Name, m.Descriptor(), joinModifiers(m.Flags), m.Registers)
		if err != nil {
			return err
		}
	}

	for _, inner := range class.InnerClasses {
		if err := idx.indexClass(tx, inner, path); err != nil {
			return err
		}
	}
	return nil
}

// ClassSummary is one indexed class row.
type ClassSummary struct {
	Descriptor string
	Name       string
	SimpleName string
	Package    string
	SuperClass string
	SourceFile string
	Modifiers  []string
	Path       string
}

// MemberSummary is one indexed field or method row.
type MemberSummary struct {
	Name       string
	Descriptor string
	Modifiers  []string
	Value      string
	Registers  int
}

// Classes lists indexed classes, optionally restricted to a package.
func (idx *Index) Classes(pkg string, limit int) ([]ClassSummary, error) {
	if limit <= 0 {
		limit = 100
	}

	var args []any
	whereClause := ""
	if pkg != "" {
		whereClause = "WHERE package = ?"
		args = append(args, pkg)
	}
	args = append(args, limit)

	rows, err := idx.db.Query(fmt.Sprintf(`
		SELECT descriptor, name, simple_name, package, super_class, source_file, modifiers, path
		FROM classes
		%s
		ORDER BY name
		LIMIT ?
	`, whereClause), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClasses(rows)
}

// SearchClasses finds classes whose descriptor or name matches the
// full-text query.
func (idx *Index) SearchClasses(query string, limit int) ([]ClassSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := idx.db.Query(`
		SELECT descriptor, name, simple_name, package, super_class, source_file, modifiers, path
		FROM classes
		WHERE rowid IN (SELECT rowid FROM classes_fts WHERE classes_fts MATCH ?)
		ORDER BY name
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClasses(rows)
}

// Class returns the indexed class with the given descriptor, or nil.
func (idx *Index) Class(descriptor string) (*ClassSummary, error) {
	row := idx.db.QueryRow(`
		SELECT descriptor, name, simple_name, package, super_class, source_file, modifiers, path
		FROM classes
		WHERE descriptor = ?
	`, descriptor)

	var c ClassSummary
	var modifiers string
	err := row.Scan(&c.Descriptor, &c.Name, &c.SimpleName, &c.Package,
		&c.SuperClass, &c.SourceFile, &modifiers, &c.Path)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Modifiers = splitModifiers(modifiers)
	return &c, nil
}

// Fields lists the indexed fields of a class.
func (idx *Index) Fields(descriptor string) ([]MemberSummary, error) {
	rows, err := idx.db.Query(`
		SELECT name, descriptor, modifiers, value
		FROM fields
		WHERE class_descriptor = ?
		ORDER BY name
	`, descriptor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []MemberSummary
	for rows.Next() {
		var m MemberSummary
		var modifiers string
		if err := rows.Scan(&m.Name, &m.Descriptor, &modifiers, &m.Value); err != nil {
			return nil, err
		}
		m.Modifiers = splitModifiers(modifiers)
		members = append(members, m)
	}
	return members, rows.Err()
}

// Methods lists the indexed methods of a class.
func (idx *Index) Methods(descriptor string) ([]MemberSummary, error) {
	rows, err := idx.db.Query(`
		SELECT name, descriptor, modifiers, registers
		FROM methods
		WHERE class_descriptor = ?
		ORDER BY name
	`, descriptor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []MemberSummary
	for rows.Next() {
		var m MemberSummary
		var modifiers string
		if err := rows.Scan(&m.Name, &m.Descriptor, &modifiers, &m.Registers); err != nil {
			return nil, err
		}
		m.Modifiers = splitModifiers(modifiers)
		members = append(members, m)
	}
	return members, rows.Err()
}

// Stats returns row counts per table.
func (idx *Index) Stats() (map[string]int, error) {
	stats := make(map[string]int)
	for _, table := range []string{"classes", "fields", "methods"} {
		var count int
		if err := idx.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return nil, err
		}
		stats[table] = count
	}
	return stats, nil
}

func scanClasses(rows *sql.Rows) ([]ClassSummary, error) {
	var classes []ClassSummary
	for rows.Next() {
		var c ClassSummary
		var modifiers string
		err := rows.Scan(&c.Descriptor, &c.Name, &c.SimpleName, &c.Package,
			&c.SuperClass, &c.SourceFile, &modifiers, &c.Path)
		if err != nil {
			return nil, err
		}
		c.Modifiers = splitModifiers(modifiers)
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func joinModifiers(flags lang.AccessFlags) string {
	return strings.Join(flags.Names(), " ")
}

func splitModifiers(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, " ")
}
