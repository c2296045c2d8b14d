// Package parser turns one note's raw outline text into blocks carrying
// properties, tags, and cross-references. Parsing is total: malformed
// syntax degrades to plain content line by line, never failing the note.
package parser

import (
	"strings"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/models"
)

// Parser holds the collection-level parsing conventions. A zero-configured
// Parser (via New with empty values) uses "/" namespacing, the "public"
// publication key, and accepts any directive token.
type Parser struct {
	separator  string
	publicKey  string
	directives map[string]bool
}

// New creates a Parser. directives lists the recognized control tokens;
// empty means accept any.
func New(separator, publicKey string, directives []string) *Parser {
	if separator == "" {
		separator = "/"
	}
	if publicKey == "" {
		publicKey = "public"
	}
	p := &Parser{separator: separator, publicKey: strings.ToLower(publicKey)}
	if len(directives) > 0 {
		p.directives = make(map[string]bool, len(directives))
		for _, d := range directives {
			p.directives[strings.ToUpper(strings.TrimSpace(d))] = true
		}
	}
	return p
}

func (p *Parser) recognized(token string) bool {
	return p.directives == nil || p.directives[token]
}

// ParseNote parses one note file into its fragment: the page it authors and
// that page's blocks. Blocks without an authored id:: receive an identifier
// derived from the note path and block ordinal, so repeated extractions of
// the same collection agree.
func (p *Parser) ParseNote(path string, src []byte) *models.Note {
	n := &models.Note{
		Path:     path,
		Name:     models.PageNameFromPath(path, p.separator),
		Checksum: checksum.Sum(src),
	}
	ordinal := 0
	for b := range p.Blocks(string(src)) {
		if b.ID == uuid.Nil {
			b.ID = models.DeriveBlockID(path, ordinal)
		}
		ordinal++
		n.Blocks = append(n.Blocks, b)
	}
	p.hoistPageProperties(n)
	return n
}

// hoistPageProperties promotes the leading block's properties to the page.
// The leading block donates when it is the unbulleted head of the file or a
// root bullet consisting solely of property lines. Donated properties leave
// the block, so each key:: line annotates exactly one owner.
func (p *Parser) hoistPageProperties(n *models.Note) {
	if len(n.Blocks) == 0 {
		return
	}
	first := n.Blocks[0]
	unbulleted := first.Depth == 0
	pure := first.Content == "" && len(first.Properties) > 0 && first.Directive == ""
	if !unbulleted && !pure {
		return
	}
	n.Properties = first.Properties
	first.Properties = nil
	first.Tags = nil
	if prop, ok := n.Properties.Last("tags"); ok {
		n.Tags = prop.List()
	}
	if prop, ok := n.Properties.Last(p.publicKey); ok {
		n.IsPublic = prop.Bool()
	}
}
