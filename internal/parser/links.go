package parser

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/models"
)

var (
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	embedRe      = regexp.MustCompile(`!\[(.*?)\]\((.+?)\)`)
	resourceRe   = regexp.MustCompile(`\[(.*?)\]\((.+?)\)`)
	tagPageRe    = regexp.MustCompile(`#\[\[(.+?)\]\]`)
	pageRe       = regexp.MustCompile(`\[\[(.+?)\]\]`)
	blockRefRe   = regexp.MustCompile(`\(\(([0-9a-fA-F-]{32,36})\)\)`)
	tagRe        = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
	headingRe    = regexp.MustCompile(`^#{1,6} `)
)

// Extensions treated as media assets when referenced as resources.
var assetExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".webp": true, ".bmp": true, ".ico": true, ".pdf": true, ".mp3": true,
	".mp4": true, ".mov": true, ".webm": true, ".wav": true, ".ogg": true,
}

// Candidate priorities when two matches start at the same offset and have
// the same length: the more specific form wins.
const (
	prioCode = iota
	prioEmbed
	prioResource
	prioTagPage
	prioPage
	prioBlockRef
	prioTag
)

// span is one candidate claim over block content. A nil ref is a
// suppression-only claim (inline code).
type span struct {
	start, end int
	prio       int
	ref        *models.Reference
}

// scanRefs finds every reference in one line of content. Candidates claim
// text spans greedily: earliest start first, then longest, then most
// specific. A span is claimed at most once, so an inline-code span silences
// everything inside it and a resource link's label never doubles as a page
// link.
func scanRefs(text string) []models.Reference {
	if text == "" {
		return nil
	}
	var spans []span

	for _, m := range inlineCodeRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span{start: m[0], end: m[1], prio: prioCode})
	}
	for _, m := range embedRe.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span{start: m[0], end: m[1], prio: prioEmbed, ref: &models.Reference{
			Kind:    models.RefResource,
			Target:  text[m[4]:m[5]],
			Label:   text[m[2]:m[3]],
			IsAsset: true,
		}})
	}
	for _, m := range resourceRe.FindAllStringSubmatchIndex(text, -1) {
		target := text[m[4]:m[5]]
		spans = append(spans, span{start: m[0], end: m[1], prio: prioResource, ref: &models.Reference{
			Kind:    models.RefResource,
			Target:  target,
			Label:   text[m[2]:m[3]],
			IsAsset: assetTarget(target),
		}})
	}
	for _, m := range tagPageRe.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span{start: m[0], end: m[1], prio: prioTagPage, ref: &models.Reference{
			Kind:   models.RefTag,
			Target: text[m[2]:m[3]],
		}})
	}
	for _, m := range pageRe.FindAllStringSubmatchIndex(text, -1) {
		spans = append(spans, span{start: m[0], end: m[1], prio: prioPage, ref: &models.Reference{
			Kind:   models.RefPage,
			Target: text[m[2]:m[3]],
		}})
	}
	for _, m := range blockRefRe.FindAllStringSubmatchIndex(text, -1) {
		id, err := uuid.Parse(text[m[2]:m[3]])
		if err != nil {
			continue // not a block identifier, leave the span as content
		}
		spans = append(spans, span{start: m[0], end: m[1], prio: prioBlockRef, ref: &models.Reference{
			Kind:    models.RefBlock,
			BlockID: id,
		}})
	}
	for _, m := range tagRe.FindAllStringSubmatchIndex(text, -1) {
		// The match may include the preceding whitespace; claim from the '#'.
		start := m[2] - 1
		spans = append(spans, span{start: start, end: m[3], prio: prioTag, ref: &models.Reference{
			Kind:   models.RefTag,
			Target: text[m[2]:m[3]],
		}})
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		if spans[i].end != spans[j].end {
			return spans[i].end > spans[j].end
		}
		return spans[i].prio < spans[j].prio
	})

	var refs []models.Reference
	claimed := 0
	for _, s := range spans {
		if s.start < claimed {
			continue
		}
		claimed = s.end
		if s.ref != nil {
			refs = append(refs, *s.ref)
		}
	}
	return refs
}

// assetTarget classifies a resource target as a media asset by location or
// extension.
func assetTarget(target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	if strings.HasPrefix(t, "../assets/") || strings.HasPrefix(t, "assets/") {
		return true
	}
	if i := strings.IndexAny(t, "?#"); i >= 0 {
		t = t[:i]
	}
	return assetExts[path.Ext(t)]
}
