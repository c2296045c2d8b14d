// Package loader maps finished snapshots onto a relational property-graph
// schema in SQLite: one table per node type, one per relationship type,
// replaced wholesale on every load.
package loader

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	name           TEXT PRIMARY KEY,
	is_placeholder INTEGER NOT NULL DEFAULT 0,
	is_public      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS blocks (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL DEFAULT '',
	is_heading INTEGER NOT NULL DEFAULT 0,
	directive  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS resources (
	path     TEXT PRIMARY KEY,
	is_asset INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS in_namespace (
	child  TEXT NOT NULL REFERENCES pages(name),
	parent TEXT NOT NULL REFERENCES pages(name),
	UNIQUE(child, parent)
);

CREATE TABLE IF NOT EXISTS page_holds (
	page     TEXT NOT NULL REFERENCES pages(name),
	block    TEXT NOT NULL REFERENCES blocks(id),
	position INTEGER NOT NULL,
	depth    INTEGER NOT NULL,
	UNIQUE(page, block)
);

CREATE TABLE IF NOT EXISTS block_holds (
	parent   TEXT NOT NULL REFERENCES blocks(id),
	child    TEXT NOT NULL REFERENCES blocks(id),
	position INTEGER NOT NULL,
	depth    INTEGER NOT NULL,
	UNIQUE(parent, child)
);

CREATE TABLE IF NOT EXISTS links (
	block TEXT NOT NULL REFERENCES blocks(id),
	page  TEXT NOT NULL REFERENCES pages(name),
	UNIQUE(block, page)
);

CREATE TABLE IF NOT EXISTS tag_links (
	block TEXT NOT NULL REFERENCES blocks(id),
	page  TEXT NOT NULL REFERENCES pages(name),
	UNIQUE(block, page)
);

CREATE TABLE IF NOT EXISTS block_refs (
	block  TEXT NOT NULL REFERENCES blocks(id),
	target TEXT NOT NULL REFERENCES blocks(id),
	UNIQUE(block, target)
);

CREATE TABLE IF NOT EXISTS resource_links (
	block    TEXT NOT NULL REFERENCES blocks(id),
	resource TEXT NOT NULL REFERENCES resources(path),
	label    TEXT NOT NULL DEFAULT '',
	UNIQUE(block, resource, label)
);

CREATE TABLE IF NOT EXISTS page_properties (
	page  TEXT NOT NULL REFERENCES pages(name),
	key   TEXT NOT NULL REFERENCES pages(name),
	value TEXT NOT NULL DEFAULT '',
	UNIQUE(page, key, value)
);

CREATE TABLE IF NOT EXISTS block_properties (
	block TEXT NOT NULL REFERENCES blocks(id),
	key   TEXT NOT NULL REFERENCES pages(name),
	value TEXT NOT NULL DEFAULT '',
	UNIQUE(block, key, value)
);

CREATE TABLE IF NOT EXISTS page_tags (
	page TEXT NOT NULL REFERENCES pages(name),
	tag  TEXT NOT NULL REFERENCES pages(name),
	UNIQUE(page, tag)
);

CREATE TABLE IF NOT EXISTS block_tags (
	block TEXT NOT NULL REFERENCES blocks(id),
	tag   TEXT NOT NULL REFERENCES pages(name),
	UNIQUE(block, tag)
);

CREATE TABLE IF NOT EXISTS runs (
	id        INTEGER PRIMARY KEY CHECK (id = 1),
	checksum  TEXT NOT NULL,
	loaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_links_page ON links(page);
CREATE INDEX IF NOT EXISTS idx_tag_links_page ON tag_links(page);
CREATE INDEX IF NOT EXISTS idx_page_holds_page ON page_holds(page);
CREATE INDEX IF NOT EXISTS idx_block_holds_parent ON block_holds(parent);
`

var (
	nodeTables = []string{"pages", "blocks", "resources"}

	relationTables = []string{
		"in_namespace", "page_holds", "block_holds", "links", "tag_links",
		"block_refs", "resource_links", "page_properties",
		"block_properties", "page_tags", "block_tags",
	}
)

// DB wraps a sql.DB with graph loading operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("loader: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("loader: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("loader: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
