// Package storage defines read-only access to the note collection on disk.
// Extraction never mutates the collection, so the surface is deliberately
// List and Read only.
package storage

// Provider is the interface for reading a note collection.
type Provider interface {
	// List returns the collection-relative path of every note file under
	// dir (relative to the collection root), sorted.
	List(dir string) ([]string, error)
	// Read returns the raw bytes of the note at path (relative to the
	// collection root).
	Read(path string) ([]byte, error)
}
