// Package graph consolidates per-note fragments into the final node and
// relationship model: canonical Page/Resource identities, the placeholder
// lifecycle, and the assembled immutable snapshot.
package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/models"
)

// Resolver owns the canonical identity tables for one extraction run. Pages
// and resources are stored arena-style, addressed by normalized key, so a
// placeholder promoted to a real page keeps its identity for every
// reference already recorded against it. A Resolver is built fresh per run
// and discarded with it.
type Resolver struct {
	separator string
	pages     map[string]*models.Page
	resources map[string]*models.Resource
	blocks    map[uuid.UUID]*models.Block
}

// NewResolver creates an empty identity table using the given namespace
// separator.
func NewResolver(separator string) *Resolver {
	if separator == "" {
		separator = "/"
	}
	return &Resolver{
		separator: separator,
		pages:     make(map[string]*models.Page),
		resources: make(map[string]*models.Resource),
		blocks:    make(map[uuid.UUID]*models.Block),
	}
}

// AddNote merges one parsed fragment into the canonical tables. The page it
// authors is materialized (or promoted from a placeholder), and every name
// the fragment references (link targets, tags, property keys, namespace
// ancestors) is materialized as a placeholder if still unknown.
//
// Two fragments may author the same canonical name; they merge
// deterministically: blocks and properties concatenate in the order notes
// are added, and publication wins over non-publication.
func (r *Resolver) AddNote(n *models.Note) error {
	page := r.page(n.Name)
	if page == nil {
		return fmt.Errorf("graph: note %s: empty page name", n.Path)
	}
	page.IsPlaceholder = false
	page.IsPublic = page.IsPublic || n.IsPublic
	page.Properties = append(page.Properties, n.Properties...)
	page.Tags = append(page.Tags, n.Tags...)
	page.Blocks = append(page.Blocks, n.Blocks...)
	page.Sources = append(page.Sources, n.Path)

	for i, b := range n.Blocks {
		r.claimBlockID(n.Path, i, b)
	}
	for _, prop := range n.Properties {
		r.page(prop.Key)
	}
	for _, tag := range n.Tags {
		r.page(tag)
	}
	for _, b := range n.Blocks {
		for _, prop := range b.Properties {
			r.page(prop.Key)
		}
		for _, tag := range b.Tags {
			r.page(tag)
		}
		for _, ref := range b.Refs {
			switch ref.Kind {
			case models.RefPage, models.RefTag:
				r.page(ref.Target)
			case models.RefResource:
				r.resource(ref.Target, ref.IsAsset)
			}
			// Block references resolve at assembly, once every block
			// in the collection is known.
		}
	}
	return nil
}

// claimBlockID registers a block's identifier in the run-wide index. An id::
// already claimed by an earlier block keeps its first claimant; the later
// block falls back to a salted derived identifier, so identifiers stay
// unique and the containment tree stays a tree.
func (r *Resolver) claimBlockID(path string, ordinal int, b *models.Block) {
	for salt := 0; ; salt++ {
		if _, taken := r.blocks[b.ID]; !taken {
			r.blocks[b.ID] = b
			return
		}
		b.ID = models.DeriveBlockID(path+"&"+strconv.Itoa(salt), ordinal)
	}
}

// page returns the canonical Page for a name as written, materializing it
// as a placeholder (with its namespace ancestors) on first encounter.
// Names that normalize to nothing yield nil.
func (r *Resolver) page(raw string) *models.Page {
	name := models.NormalizeName(raw, r.separator)
	if name == "" {
		return nil
	}
	if p, ok := r.pages[name]; ok {
		return p
	}
	p := &models.Page{Name: name, IsPlaceholder: true}
	r.pages[name] = p
	if parent := models.NamespaceParent(name, r.separator); parent != "" {
		r.page(parent)
	}
	return p
}

// resource returns the canonical Resource for a target as written,
// materializing it on first encounter. The first spelling seen becomes the
// stored path; asset classification is sticky across references.
func (r *Resolver) resource(raw string, isAsset bool) *models.Resource {
	key := models.ResourceKey(raw)
	if key == "" {
		return nil
	}
	if res, ok := r.resources[key]; ok {
		res.IsAsset = res.IsAsset || isAsset
		return res
	}
	res := &models.Resource{
		Path:    strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/"),
		IsAsset: isAsset,
	}
	r.resources[key] = res
	return res
}

// Page looks up the canonical page for a name as written.
func (r *Resolver) Page(raw string) (*models.Page, bool) {
	p, ok := r.pages[models.NormalizeName(raw, r.separator)]
	return p, ok
}

// Resource looks up the canonical resource for a target as written.
func (r *Resolver) Resource(raw string) (*models.Resource, bool) {
	res, ok := r.resources[models.ResourceKey(raw)]
	return res, ok
}

// HasBlock reports whether any block in the run carries id.
func (r *Resolver) HasBlock(id uuid.UUID) bool {
	_, ok := r.blocks[id]
	return ok
}

// Pages returns every canonical page ordered by name.
func (r *Resolver) Pages() []*models.Page {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*models.Page, len(names))
	for i, name := range names {
		out[i] = r.pages[name]
	}
	return out
}

// Resources returns every canonical resource ordered by path.
func (r *Resolver) Resources() []*models.Resource {
	out := make([]*models.Resource, 0, len(r.resources))
	for _, res := range r.resources {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
