package graph

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// Assemble consolidates the resolver's canonical entities into the final
// immutable snapshot. Block containment is settled into a tree, reference
// candidates become relationship rows, structurally identical rows collapse
// into one, tables take their canonical order, and every relationship
// endpoint is checked against the node set. An endpoint missing from the
// node set is a resolver defect and fails the run.
func Assemble(r *Resolver) (*Snapshot, error) {
	a := &assembler{r: r, snap: &Snapshot{}}

	for _, page := range r.Pages() {
		a.addPage(page)
	}
	for _, res := range r.Resources() {
		a.snap.Resources = append(a.snap.Resources, ResourceRow{Path: res.Path, IsAsset: res.IsAsset})
	}

	a.finalize()
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a.snap, nil
}

type assembler struct {
	r        *Resolver
	snap     *Snapshot
	dangling int
}

func (a *assembler) addPage(page *models.Page) {
	s := a.snap
	s.Pages = append(s.Pages, PageRow{
		Name:          page.Name,
		IsPlaceholder: page.IsPlaceholder,
		IsPublic:      page.IsPublic,
	})
	if parent := models.NamespaceParent(page.Name, a.r.separator); parent != "" {
		s.InNamespace = append(s.InNamespace, NamespaceEdge{Child: page.Name, Parent: parent})
	}
	for _, prop := range page.Properties {
		if key := a.pageName(prop.Key); key != "" {
			s.PageProperties = append(s.PageProperties, PagePropertyEdge{Page: page.Name, Key: key, Value: prop.Value})
		}
	}
	for _, tag := range page.Tags {
		if name := a.pageName(tag); name != "" {
			s.PageTags = append(s.PageTags, PageTagEdge{Page: page.Name, Tag: name})
		}
	}
	a.addTree(page)
}

// addTree settles a page's flat block sequence into its containment tree.
// A block nests under the nearest preceding block with a smaller claimed
// depth; a depth jump wider than one level rounds down to the parent's
// level plus one. Position is the zero-based sibling index on each edge.
func (a *assembler) addTree(page *models.Page) {
	s := a.snap
	type branch struct {
		id       uuid.UUID
		claimed  int
		children int
	}
	var open []branch
	roots := 0
	for _, b := range page.Blocks {
		s.Blocks = append(s.Blocks, BlockRow{
			ID:        b.ID,
			Content:   b.Content,
			IsHeading: b.IsHeading,
			Directive: b.Directive,
		})
		for len(open) > 0 && open[len(open)-1].claimed >= b.Depth {
			open = open[:len(open)-1]
		}
		depth := len(open)
		if depth == 0 {
			s.PageHolds = append(s.PageHolds, PageHoldEdge{Page: page.Name, Block: b.ID, Position: roots, Depth: 0})
			roots++
		} else {
			parent := &open[len(open)-1]
			s.BlockHolds = append(s.BlockHolds, BlockHoldEdge{Parent: parent.id, Child: b.ID, Position: parent.children, Depth: depth})
			parent.children++
		}
		open = append(open, branch{id: b.ID, claimed: b.Depth})
		a.addBlockAnnotations(b)
	}
}

func (a *assembler) addBlockAnnotations(b *models.Block) {
	s := a.snap
	for _, prop := range b.Properties {
		if key := a.pageName(prop.Key); key != "" {
			s.BlockProperties = append(s.BlockProperties, BlockPropertyEdge{Block: b.ID, Key: key, Value: prop.Value})
		}
	}
	for _, tag := range b.Tags {
		if name := a.pageName(tag); name != "" {
			s.BlockTags = append(s.BlockTags, BlockTagEdge{Block: b.ID, Tag: name})
		}
	}
	for _, ref := range b.Refs {
		switch ref.Kind {
		case models.RefPage:
			if name := a.pageName(ref.Target); name != "" {
				s.Links = append(s.Links, LinkEdge{Block: b.ID, Page: name})
			}
		case models.RefTag:
			if name := a.pageName(ref.Target); name != "" {
				s.TagLinks = append(s.TagLinks, TagLinkEdge{Block: b.ID, Page: name})
			}
		case models.RefBlock:
			if !a.r.HasBlock(ref.BlockID) {
				a.dangling++
				continue
			}
			s.BlockRefs = append(s.BlockRefs, BlockRefEdge{Block: b.ID, Target: ref.BlockID})
		case models.RefResource:
			key := models.ResourceKey(ref.Target)
			if key == "" {
				continue
			}
			// A miss here is emitted with the bare key so endpoint
			// validation fails loudly instead of hiding a resolver defect.
			path := key
			if res, ok := a.r.Resource(ref.Target); ok {
				path = res.Path
			}
			s.ResourceLinks = append(s.ResourceLinks, ResourceLinkEdge{Block: b.ID, Resource: path, Label: ref.Label})
		}
	}
}

// pageName normalizes a referenced name the same way the resolver did when
// it materialized the target, so edges and nodes agree. Empty results mark
// spans the resolver skipped; their edges are skipped too.
func (a *assembler) pageName(raw string) string {
	return models.NormalizeName(raw, a.r.separator)
}

// finalize sorts every relationship table by its full column tuple and
// collapses structurally identical rows. Node tables are already canonical:
// pages and resources arrive sorted from the resolver, blocks stay in
// (page, outline) order and are unique by identifier.
func (a *assembler) finalize() {
	s := a.snap

	cmpUUID := func(x, y uuid.UUID) int { return bytes.Compare(x[:], y[:]) }

	s.InNamespace = dedupe(s.InNamespace, func(x, y NamespaceEdge) int {
		return cmp.Or(cmp.Compare(x.Child, y.Child), cmp.Compare(x.Parent, y.Parent))
	})
	s.PageHolds = dedupe(s.PageHolds, func(x, y PageHoldEdge) int {
		return cmp.Or(cmp.Compare(x.Page, y.Page), cmpUUID(x.Block, y.Block), cmp.Compare(x.Position, y.Position), cmp.Compare(x.Depth, y.Depth))
	})
	s.BlockHolds = dedupe(s.BlockHolds, func(x, y BlockHoldEdge) int {
		return cmp.Or(cmpUUID(x.Parent, y.Parent), cmpUUID(x.Child, y.Child), cmp.Compare(x.Position, y.Position), cmp.Compare(x.Depth, y.Depth))
	})
	s.Links = dedupe(s.Links, func(x, y LinkEdge) int {
		return cmp.Or(cmpUUID(x.Block, y.Block), cmp.Compare(x.Page, y.Page))
	})
	s.TagLinks = dedupe(s.TagLinks, func(x, y TagLinkEdge) int {
		return cmp.Or(cmpUUID(x.Block, y.Block), cmp.Compare(x.Page, y.Page))
	})
	s.BlockRefs = dedupe(s.BlockRefs, func(x, y BlockRefEdge) int {
		return cmp.Or(cmpUUID(x.Block, y.Block), cmpUUID(x.Target, y.Target))
	})
	s.ResourceLinks = dedupe(s.ResourceLinks, func(x, y ResourceLinkEdge) int {
		return cmp.Or(cmpUUID(x.Block, y.Block), cmp.Compare(x.Resource, y.Resource), cmp.Compare(x.Label, y.Label))
	})
	s.PageProperties = dedupe(s.PageProperties, func(x, y PagePropertyEdge) int {
		return cmp.Or(cmp.Compare(x.Page, y.Page), cmp.Compare(x.Key, y.Key), cmp.Compare(x.Value, y.Value))
	})
	s.BlockProperties = dedupe(s.BlockProperties, func(x, y BlockPropertyEdge) int {
		return cmp.Or(cmpUUID(x.Block, y.Block), cmp.Compare(x.Key, y.Key), cmp.Compare(x.Value, y.Value))
	})
	s.PageTags = dedupe(s.PageTags, func(x, y PageTagEdge) int {
		return cmp.Or(cmp.Compare(x.Page, y.Page), cmp.Compare(x.Tag, y.Tag))
	})
	s.BlockTags = dedupe(s.BlockTags, func(x, y BlockTagEdge) int {
		return cmp.Or(cmpUUID(x.Block, y.Block), cmp.Compare(x.Tag, y.Tag))
	})

	placeholders := 0
	for _, p := range s.Pages {
		if p.IsPlaceholder {
			placeholders++
		}
	}
	s.Stats = Stats{
		Pages:        len(s.Pages),
		Placeholders: placeholders,
		Blocks:       len(s.Blocks),
		Resources:    len(s.Resources),
		Relationships: len(s.InNamespace) + len(s.PageHolds) + len(s.BlockHolds) +
			len(s.Links) + len(s.TagLinks) + len(s.BlockRefs) + len(s.ResourceLinks) +
			len(s.PageProperties) + len(s.BlockProperties) + len(s.PageTags) + len(s.BlockTags),
		DanglingRefs: a.dangling,
	}
}

func dedupe[E comparable](rows []E, compare func(E, E) int) []E {
	slices.SortFunc(rows, compare)
	return slices.Compact(rows)
}

// validate checks that both endpoints of every relationship exist in the
// node tables. Placeholders satisfy forward references, so by the time a
// snapshot is assembled any miss is an internal defect, never bad input.
func (a *assembler) validate() error {
	s := a.snap
	pages := make(map[string]bool, len(s.Pages))
	for _, row := range s.Pages {
		pages[row.Name] = true
	}
	blocks := make(map[uuid.UUID]bool, len(s.Blocks))
	for _, row := range s.Blocks {
		blocks[row.ID] = true
	}
	resources := make(map[string]bool, len(s.Resources))
	for _, row := range s.Resources {
		resources[row.Path] = true
	}

	fail := func(table, endpoint string) error {
		return fmt.Errorf("graph: %s references %q missing from the node set: %w", table, endpoint, apperr.ErrInconsistent)
	}
	for _, e := range s.InNamespace {
		if !pages[e.Child] {
			return fail("in_namespace", e.Child)
		}
		if !pages[e.Parent] {
			return fail("in_namespace", e.Parent)
		}
	}
	for _, e := range s.PageHolds {
		if !pages[e.Page] {
			return fail("page_holds", e.Page)
		}
		if !blocks[e.Block] {
			return fail("page_holds", e.Block.String())
		}
	}
	for _, e := range s.BlockHolds {
		if !blocks[e.Parent] {
			return fail("block_holds", e.Parent.String())
		}
		if !blocks[e.Child] {
			return fail("block_holds", e.Child.String())
		}
	}
	for _, e := range s.Links {
		if !blocks[e.Block] {
			return fail("links", e.Block.String())
		}
		if !pages[e.Page] {
			return fail("links", e.Page)
		}
	}
	for _, e := range s.TagLinks {
		if !blocks[e.Block] {
			return fail("tag_links", e.Block.String())
		}
		if !pages[e.Page] {
			return fail("tag_links", e.Page)
		}
	}
	for _, e := range s.BlockRefs {
		if !blocks[e.Block] {
			return fail("block_refs", e.Block.String())
		}
		if !blocks[e.Target] {
			return fail("block_refs", e.Target.String())
		}
	}
	for _, e := range s.ResourceLinks {
		if !blocks[e.Block] {
			return fail("resource_links", e.Block.String())
		}
		if !resources[e.Resource] {
			return fail("resource_links", e.Resource)
		}
	}
	for _, e := range s.PageProperties {
		if !pages[e.Page] {
			return fail("page_properties", e.Page)
		}
		if !pages[e.Key] {
			return fail("page_properties", e.Key)
		}
	}
	for _, e := range s.BlockProperties {
		if !blocks[e.Block] {
			return fail("block_properties", e.Block.String())
		}
		if !pages[e.Key] {
			return fail("block_properties", e.Key)
		}
	}
	for _, e := range s.PageTags {
		if !pages[e.Page] {
			return fail("page_tags", e.Page)
		}
		if !pages[e.Tag] {
			return fail("page_tags", e.Tag)
		}
	}
	for _, e := range s.BlockTags {
		if !blocks[e.Block] {
			return fail("block_tags", e.Block.String())
		}
		if !pages[e.Tag] {
			return fail("block_tags", e.Tag)
		}
	}
	return nil
}
