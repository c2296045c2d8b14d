package parser

import (
	"iter"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/models"
)

// Blocks returns a lazy, restartable sequence over the blocks of one note's
// text. Every block-opener line starts a new block; continuation lines and
// unbulleted leading lines extend the current one. Ranging again re-parses
// from the start.
func (p *Parser) Blocks(src string) iter.Seq[*models.Block] {
	return func(yield func(*models.Block) bool) {
		var group []line
		for _, raw := range splitLines(src) {
			ln := parseLine(raw)
			if ln.opener && len(group) > 0 {
				if !yield(p.buildBlock(group)) {
					return
				}
				group = group[:0]
			}
			group = append(group, ln)
		}
		if len(group) > 0 {
			yield(p.buildBlock(group))
		}
	}
}

// splitLines normalizes line endings and splits. An empty file still yields
// one empty line, so every note has at least one (empty) block.
func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.TrimSuffix(src, "\n")
	return strings.Split(src, "\n")
}

// buildBlock assembles one block from its grouped lines. The block claims
// its first line's depth; lines that disagree degrade into its content
// rather than failing the note. Inside a code fence, property and reference
// syntax is inert. Directive fences record their token and are excluded
// from content; a closer without an opener, a token mismatch, or an
// unrecognized token all degrade the line to plain content.
func (p *Parser) buildBlock(group []line) *models.Block {
	b := &models.Block{Depth: group[0].depth}

	var content []string
	inCode := false
	dirOpen := false
	for _, ln := range group {
		if ln.isFence() {
			inCode = !inCode
			content = append(content, ln.content)
			continue
		}
		if inCode {
			content = append(content, ln.content)
			continue
		}
		if token, ok := ln.directiveOpen(); ok && !dirOpen && b.Directive == "" && p.recognized(token) {
			b.Directive = token
			dirOpen = true
			continue
		}
		if token, ok := ln.directiveClose(); ok && dirOpen && token == b.Directive {
			dirOpen = false
			continue
		}
		if ln.isProperty() {
			if prop, ok := parseProperty(ln.content); ok {
				b.Properties = append(b.Properties, prop)
				continue
			}
		}
		content = append(content, ln.content)
		b.Refs = append(b.Refs, scanRefs(ln.content)...)
	}

	b.Content = strings.Join(content, "\n")

	if prop, ok := b.Properties.Last("id"); ok {
		if id, err := uuid.Parse(strings.TrimSpace(prop.Value)); err == nil {
			b.ID = id
		}
	}
	if headingRe.MatchString(b.Content) {
		b.IsHeading = true
	}
	if prop, ok := b.Properties.Last("heading"); ok && prop.Bool() {
		b.IsHeading = true
	}
	if prop, ok := b.Properties.Last("tags"); ok {
		b.Tags = prop.List()
	}
	return b
}

// parseProperty splits a key:: value line. A line with an empty key is not
// a property and degrades to content.
func parseProperty(text string) (models.Property, bool) {
	k, v, ok := strings.Cut(text, markProperty)
	if !ok {
		return models.Property{}, false
	}
	key := strings.ToLower(strings.TrimSpace(k))
	if key == "" {
		return models.Property{}, false
	}
	return models.Property{Key: key, Value: strings.TrimSpace(v)}, true
}
