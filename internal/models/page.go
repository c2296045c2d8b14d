package models

// Page is the canonical entity for one normalized page name. A Page exists
// either because a note authored it or because something referenced it; the
// latter is a placeholder until (and unless) the name is authored, at which
// point the placeholder is promoted in place and every reference recorded
// against it stays valid.
type Page struct {
	Name          string // normalized identifier
	IsPlaceholder bool
	IsPublic      bool
	Properties    Properties
	Tags          []string
	Blocks        []*Block
	Sources       []string // note paths that authored this page, merge order
}

// Resource is the canonical entity for one referenced file or URL. Path
// keeps the first spelling seen; identity is decided by the normalized key.
type Resource struct {
	Path    string
	IsAsset bool
}
