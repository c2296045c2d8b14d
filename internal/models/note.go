// Package models defines the domain types for the extraction engine: parsed
// notes and their outline blocks, the references blocks make, and the
// canonical Page/Resource entities those references resolve to.
package models

// Note is the parsed fragment of one source file: the page it authors plus
// its outline blocks. Fragments are produced independently per file and only
// gain cross-collection meaning during identity resolution.
type Note struct {
	Path       string // collection-relative source path
	Name       string // normalized page name derived from Path
	Properties Properties
	Tags       []string // targets of a page-level tags:: property
	IsPublic   bool
	Blocks     []*Block
	Checksum   string // content digest of the source file
}
