package graph

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/checksum"
)

// Node table rows. Attribute shapes match what a property-graph bulk loader
// maps onto node tables.
type (
	// PageRow is one Page node.
	PageRow struct {
		Name          string
		IsPlaceholder bool
		IsPublic      bool
	}

	// BlockRow is one Block node. Position and depth live on the
	// containment edges, not the node.
	BlockRow struct {
		ID        uuid.UUID
		Content   string
		IsHeading bool
		Directive string
	}

	// ResourceRow is one Resource node.
	ResourceRow struct {
		Path    string
		IsAsset bool
	}
)

// Relationship table rows. Relationships whose source may be a Page or a
// Block are split into one table per endpoint shape.
type (
	// NamespaceEdge: child page's namespace prefix names its parent.
	NamespaceEdge struct {
		Child  string
		Parent string
	}

	// PageHoldEdge: a page holds one of its root blocks.
	PageHoldEdge struct {
		Page     string
		Block    uuid.UUID
		Position int
		Depth    int
	}

	// BlockHoldEdge: a block holds one of its child blocks.
	BlockHoldEdge struct {
		Parent   uuid.UUID
		Child    uuid.UUID
		Position int
		Depth    int
	}

	// LinkEdge: a block links to a page ([[Page]]).
	LinkEdge struct {
		Block uuid.UUID
		Page  string
	}

	// TagLinkEdge: a block links to a page in tag form (#tag).
	TagLinkEdge struct {
		Block uuid.UUID
		Page  string
	}

	// BlockRefEdge: a block references another block directly.
	BlockRefEdge struct {
		Block  uuid.UUID
		Target uuid.UUID
	}

	// ResourceLinkEdge: a block references a file or URL, with its display
	// label.
	ResourceLinkEdge struct {
		Block    uuid.UUID
		Resource string
		Label    string
	}

	// PagePropertyEdge: a page carries key:: value, the key being a page.
	PagePropertyEdge struct {
		Page  string
		Key   string
		Value string
	}

	// BlockPropertyEdge: a block carries key:: value.
	BlockPropertyEdge struct {
		Block uuid.UUID
		Key   string
		Value string
	}

	// PageTagEdge: a page declares a tag via its tags:: property.
	PageTagEdge struct {
		Page string
		Tag  string
	}

	// BlockTagEdge: a block declares a tag via its tags:: property.
	BlockTagEdge struct {
		Block uuid.UUID
		Tag   string
	}
)

// Stats summarizes one finalized snapshot.
type Stats struct {
	Pages         int
	Placeholders  int
	Blocks        int
	Resources     int
	Relationships int
	DanglingRefs  int // block references to unknown blocks, dropped
}

// Snapshot is the finished graph of one extraction run: every node and
// relationship table, deterministically ordered and deduplicated, validated
// so that each relationship endpoint exists in the node set. A snapshot is
// immutable once returned; downstream consumers only read it.
type Snapshot struct {
	Pages     []PageRow
	Blocks    []BlockRow
	Resources []ResourceRow

	InNamespace     []NamespaceEdge
	PageHolds       []PageHoldEdge
	BlockHolds      []BlockHoldEdge
	Links           []LinkEdge
	TagLinks        []TagLinkEdge
	BlockRefs       []BlockRefEdge
	ResourceLinks   []ResourceLinkEdge
	PageProperties  []PagePropertyEdge
	BlockProperties []BlockPropertyEdge
	PageTags        []PageTagEdge
	BlockTags       []BlockTagEdge

	Stats Stats
}

// Table is the uniform serialized view of one snapshot table, consumed by
// the exporters and the checksum.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Tables renders every table in its canonical order with stringified
// values.
func (s *Snapshot) Tables() []Table {
	bs := strconv.FormatBool
	is := strconv.Itoa

	tables := []Table{
		{Name: "pages", Columns: []string{"name", "is_placeholder", "is_public"}},
		{Name: "blocks", Columns: []string{"id", "content", "is_heading", "directive"}},
		{Name: "resources", Columns: []string{"path", "is_asset"}},
		{Name: "in_namespace", Columns: []string{"child", "parent"}},
		{Name: "page_holds", Columns: []string{"page", "block", "position", "depth"}},
		{Name: "block_holds", Columns: []string{"parent", "child", "position", "depth"}},
		{Name: "links", Columns: []string{"block", "page"}},
		{Name: "tag_links", Columns: []string{"block", "page"}},
		{Name: "block_refs", Columns: []string{"block", "target"}},
		{Name: "resource_links", Columns: []string{"block", "resource", "label"}},
		{Name: "page_properties", Columns: []string{"page", "key", "value"}},
		{Name: "block_properties", Columns: []string{"block", "key", "value"}},
		{Name: "page_tags", Columns: []string{"page", "tag"}},
		{Name: "block_tags", Columns: []string{"block", "tag"}},
	}

	for _, r := range s.Pages {
		tables[0].Rows = append(tables[0].Rows, []string{r.Name, bs(r.IsPlaceholder), bs(r.IsPublic)})
	}
	for _, r := range s.Blocks {
		tables[1].Rows = append(tables[1].Rows, []string{r.ID.String(), r.Content, bs(r.IsHeading), r.Directive})
	}
	for _, r := range s.Resources {
		tables[2].Rows = append(tables[2].Rows, []string{r.Path, bs(r.IsAsset)})
	}
	for _, e := range s.InNamespace {
		tables[3].Rows = append(tables[3].Rows, []string{e.Child, e.Parent})
	}
	for _, e := range s.PageHolds {
		tables[4].Rows = append(tables[4].Rows, []string{e.Page, e.Block.String(), is(e.Position), is(e.Depth)})
	}
	for _, e := range s.BlockHolds {
		tables[5].Rows = append(tables[5].Rows, []string{e.Parent.String(), e.Child.String(), is(e.Position), is(e.Depth)})
	}
	for _, e := range s.Links {
		tables[6].Rows = append(tables[6].Rows, []string{e.Block.String(), e.Page})
	}
	for _, e := range s.TagLinks {
		tables[7].Rows = append(tables[7].Rows, []string{e.Block.String(), e.Page})
	}
	for _, e := range s.BlockRefs {
		tables[8].Rows = append(tables[8].Rows, []string{e.Block.String(), e.Target.String()})
	}
	for _, e := range s.ResourceLinks {
		tables[9].Rows = append(tables[9].Rows, []string{e.Block.String(), e.Resource, e.Label})
	}
	for _, e := range s.PageProperties {
		tables[10].Rows = append(tables[10].Rows, []string{e.Page, e.Key, e.Value})
	}
	for _, e := range s.BlockProperties {
		tables[11].Rows = append(tables[11].Rows, []string{e.Block.String(), e.Key, e.Value})
	}
	for _, e := range s.PageTags {
		tables[12].Rows = append(tables[12].Rows, []string{e.Page, e.Tag})
	}
	for _, e := range s.BlockTags {
		tables[13].Rows = append(tables[13].Rows, []string{e.Block.String(), e.Tag})
	}
	return tables
}

// Checksum returns a digest over the canonical serialization. Two runs over
// the same collection produce equal checksums.
func (s *Snapshot) Checksum() string {
	var parts []string
	for _, t := range s.Tables() {
		parts = append(parts, t.Name)
		parts = append(parts, t.Columns...)
		for _, row := range t.Rows {
			parts = append(parts, row...)
		}
	}
	return checksum.SumStrings(parts...)
}
