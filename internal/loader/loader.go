package loader

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/ansuz/internal/graph"
)

// GraphStore defines the operations the pipeline needs from a graph store.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type GraphStore interface {
	Load(snap *graph.Snapshot) error
	Checksum() (string, error)
	Counts() (map[string]int, error)
	Close() error
}

// Verify *DB satisfies GraphStore at compile time.
var _ GraphStore = (*DB)(nil)

// Load replaces the stored graph with the snapshot inside one transaction.
// Relationship rows clear before node rows and load after them, keeping
// foreign keys satisfied throughout. Reloading the same snapshot is
// idempotent.
func (db *DB) Load(snap *graph.Snapshot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("loader: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, table := range relationTables {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("loader: clear %s: %w", table, err)
		}
	}
	for _, table := range nodeTables {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("loader: clear %s: %w", table, err)
		}
	}

	if err := loadNodes(tx, snap); err != nil {
		return err
	}
	if err := loadRelations(tx, snap); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO runs (id, checksum, loaded_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			checksum  = excluded.checksum,
			loaded_at = excluded.loaded_at
	`, snap.Checksum())
	if err != nil {
		return fmt.Errorf("loader: record run: %w", err)
	}

	return tx.Commit()
}

func loadNodes(tx *sql.Tx, snap *graph.Snapshot) error {
	if err := bulkInsert(tx, "pages",
		`INSERT INTO pages (name, is_placeholder, is_public) VALUES (?, ?, ?)`,
		len(snap.Pages), func(i int) []any {
			r := snap.Pages[i]
			return []any{r.Name, r.IsPlaceholder, r.IsPublic}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "blocks",
		`INSERT INTO blocks (id, content, is_heading, directive) VALUES (?, ?, ?, ?)`,
		len(snap.Blocks), func(i int) []any {
			r := snap.Blocks[i]
			return []any{r.ID.String(), r.Content, r.IsHeading, r.Directive}
		}); err != nil {
		return err
	}
	return bulkInsert(tx, "resources",
		`INSERT INTO resources (path, is_asset) VALUES (?, ?)`,
		len(snap.Resources), func(i int) []any {
			r := snap.Resources[i]
			return []any{r.Path, r.IsAsset}
		})
}

func loadRelations(tx *sql.Tx, snap *graph.Snapshot) error {
	if err := bulkInsert(tx, "in_namespace",
		`INSERT INTO in_namespace (child, parent) VALUES (?, ?)`,
		len(snap.InNamespace), func(i int) []any {
			e := snap.InNamespace[i]
			return []any{e.Child, e.Parent}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "page_holds",
		`INSERT INTO page_holds (page, block, position, depth) VALUES (?, ?, ?, ?)`,
		len(snap.PageHolds), func(i int) []any {
			e := snap.PageHolds[i]
			return []any{e.Page, e.Block.String(), e.Position, e.Depth}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "block_holds",
		`INSERT INTO block_holds (parent, child, position, depth) VALUES (?, ?, ?, ?)`,
		len(snap.BlockHolds), func(i int) []any {
			e := snap.BlockHolds[i]
			return []any{e.Parent.String(), e.Child.String(), e.Position, e.Depth}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "links",
		`INSERT INTO links (block, page) VALUES (?, ?)`,
		len(snap.Links), func(i int) []any {
			e := snap.Links[i]
			return []any{e.Block.String(), e.Page}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "tag_links",
		`INSERT INTO tag_links (block, page) VALUES (?, ?)`,
		len(snap.TagLinks), func(i int) []any {
			e := snap.TagLinks[i]
			return []any{e.Block.String(), e.Page}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "block_refs",
		`INSERT INTO block_refs (block, target) VALUES (?, ?)`,
		len(snap.BlockRefs), func(i int) []any {
			e := snap.BlockRefs[i]
			return []any{e.Block.String(), e.Target.String()}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "resource_links",
		`INSERT INTO resource_links (block, resource, label) VALUES (?, ?, ?)`,
		len(snap.ResourceLinks), func(i int) []any {
			e := snap.ResourceLinks[i]
			return []any{e.Block.String(), e.Resource, e.Label}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "page_properties",
		`INSERT INTO page_properties (page, key, value) VALUES (?, ?, ?)`,
		len(snap.PageProperties), func(i int) []any {
			e := snap.PageProperties[i]
			return []any{e.Page, e.Key, e.Value}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "block_properties",
		`INSERT INTO block_properties (block, key, value) VALUES (?, ?, ?)`,
		len(snap.BlockProperties), func(i int) []any {
			e := snap.BlockProperties[i]
			return []any{e.Block.String(), e.Key, e.Value}
		}); err != nil {
		return err
	}
	if err := bulkInsert(tx, "page_tags",
		`INSERT INTO page_tags (page, tag) VALUES (?, ?)`,
		len(snap.PageTags), func(i int) []any {
			e := snap.PageTags[i]
			return []any{e.Page, e.Tag}
		}); err != nil {
		return err
	}
	return bulkInsert(tx, "block_tags",
		`INSERT INTO block_tags (block, tag) VALUES (?, ?)`,
		len(snap.BlockTags), func(i int) []any {
			e := snap.BlockTags[i]
			return []any{e.Block.String(), e.Tag}
		})
}

// bulkInsert prepares one statement and executes it for each of n rows.
func bulkInsert(tx *sql.Tx, table, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("loader: prepare %s insert: %w", table, err)
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return fmt.Errorf("loader: insert into %s: %w", table, err)
		}
	}
	return nil
}

// Checksum returns the checksum recorded by the last load, or the empty
// string when nothing has been loaded yet.
func (db *DB) Checksum() (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM runs WHERE id = 1`).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loader: read checksum: %w", err)
	}
	return cs, nil
}

// Counts returns the row count of every graph table, keyed by table name.
func (db *DB) Counts() (map[string]int, error) {
	out := make(map[string]int, len(nodeTables)+len(relationTables))
	for _, table := range nodeTables {
		n, err := db.count(table)
		if err != nil {
			return nil, err
		}
		out[table] = n
	}
	for _, table := range relationTables {
		n, err := db.count(table)
		if err != nil {
			return nil, err
		}
		out[table] = n
	}
	return out, nil
}

func (db *DB) count(table string) (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("loader: count %s: %w", table, err)
	}
	return n, nil
}
