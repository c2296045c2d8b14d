package models

import (
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// Block is one outline node of a note. Depth is the depth claimed by the
// source indentation; the tree position actually assigned to the block is
// settled during graph assembly, where inconsistent indentation is rounded
// to the nearest valid parent.
type Block struct {
	ID         uuid.UUID
	Content    string
	Depth      int
	IsHeading  bool
	Directive  string // control token from a #+BEGIN_X fence, e.g. "QUOTE"
	Properties Properties
	Tags       []string // targets of a tags:: property on this block
	Refs       []Reference
}

// DeriveBlockID returns the stable identifier for the ordinal-th block of
// the note at path. Blocks whose source authors no id:: receive one of
// these, so repeated extractions of the same collection agree.
func DeriveBlockID(path string, ordinal int) uuid.UUID {
	key := "block:" + filepath.ToSlash(path) + "#" + strconv.Itoa(ordinal)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
}

// RefKind enumerates the closed set of reference forms a block can make.
type RefKind int

const (
	RefPage     RefKind = iota // [[Page]]
	RefTag                     // #tag or #[[tag]]
	RefBlock                   // ((block-id))
	RefResource                // [label](path-or-url), ![label](target)
)

// String returns the kind name used in logs.
func (k RefKind) String() string {
	switch k {
	case RefPage:
		return "page"
	case RefTag:
		return "tag"
	case RefBlock:
		return "block"
	case RefResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Reference is a single cross-reference found in block content. Target holds
// the page name or resource path exactly as written; normalization happens
// when the reference is resolved against the whole collection. Each kind
// carries only the payload it needs.
type Reference struct {
	Kind    RefKind
	Target  string
	BlockID uuid.UUID // RefBlock only
	Label   string    // RefResource display label
	IsAsset bool      // RefResource media/embed classification
}
