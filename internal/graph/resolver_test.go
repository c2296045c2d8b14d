package graph

import (
	"testing"

	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/models"
)

func note(path string, blocks ...*models.Block) *models.Note {
	return &models.Note{
		Path:   path,
		Name:   models.PageNameFromPath(path, "/"),
		Blocks: blocks,
	}
}

func blk(path string, ordinal, depth int, content string, refs ...models.Reference) *models.Block {
	return &models.Block{
		ID:      models.DeriveBlockID(path, ordinal),
		Depth:   depth,
		Content: content,
		Refs:    refs,
	}
}

func pageRef(target string) models.Reference {
	return models.Reference{Kind: models.RefPage, Target: target}
}

func addNote(t *testing.T, r *Resolver, n *models.Note) {
	t.Helper()
	if err := r.AddNote(n); err != nil {
		t.Fatalf("AddNote(%s): %v", n.Path, err)
	}
}

func TestResolver_LinkMaterializesPlaceholder(t *testing.T) {
	r := NewResolver("/")
	addNote(t, r, note("a.md", blk("a.md", 0, 1, "see [[Target]]", pageRef("Target"))))

	p, ok := r.Page("Target")
	if !ok {
		t.Fatal("referenced page was not materialized")
	}
	if p.Name != "target" {
		t.Errorf("name = %q, want %q", p.Name, "target")
	}
	if !p.IsPlaceholder {
		t.Error("referenced-only page should be a placeholder")
	}
}

func TestResolver_PromotionPreservesIdentity(t *testing.T) {
	r := NewResolver("/")
	addNote(t, r, note("a.md", blk("a.md", 0, 1, "see [[Foo]]", pageRef("Foo"))))

	before, ok := r.Page("foo")
	if !ok || !before.IsPlaceholder {
		t.Fatalf("placeholder missing: %+v", before)
	}

	addNote(t, r, note("Foo.md", blk("Foo.md", 0, 1, "authored now")))

	after, ok := r.Page("foo")
	if !ok {
		t.Fatal("page vanished after promotion")
	}
	if after != before {
		t.Error("promotion must keep the same entity, not replace it")
	}
	if after.IsPlaceholder {
		t.Error("authored page still flagged placeholder")
	}
}

func TestResolver_SpellingsMergeToOnePage(t *testing.T) {
	r := NewResolver("/")
	addNote(t, r, note("a.md", blk("a.md", 0, 1, "x", pageRef("My Page"))))
	addNote(t, r, note("b.md", blk("b.md", 0, 1, "y", pageRef("my page"))))

	first, _ := r.Page("My Page")
	second, _ := r.Page("my page")
	if first == nil || first != second {
		t.Fatal("spellings of one name must resolve to one page")
	}
	if got := len(r.Pages()); got != 3 {
		t.Errorf("pages = %d, want a, b and the shared target", got)
	}
}

func TestResolver_NamespaceAncestorsMaterialized(t *testing.T) {
	r := NewResolver("/")
	addNote(t, r, note("projects/alpha/log.md", blk("projects/alpha/log.md", 0, 1, "x")))

	for _, name := range []string{"projects/alpha/log", "projects/alpha", "projects"} {
		p, ok := r.Page(name)
		if !ok {
			t.Fatalf("ancestor %q not materialized", name)
		}
		if name != "projects/alpha/log" && !p.IsPlaceholder {
			t.Errorf("ancestor %q should be a placeholder", name)
		}
	}
}

func TestResolver_PropertyKeyIsAPage(t *testing.T) {
	r := NewResolver("/")
	n := note("a.md", blk("a.md", 0, 1, "x"))
	n.Blocks[0].Properties = models.Properties{{Key: "status", Value: "active"}}
	addNote(t, r, n)

	p, ok := r.Page("status")
	if !ok || !p.IsPlaceholder {
		t.Fatalf("property key page = %+v, want placeholder", p)
	}
}

func TestResolver_TagTargetsMaterialized(t *testing.T) {
	r := NewResolver("/")
	n := note("a.md", blk("a.md", 0, 1, "x"))
	n.Tags = []string{"Reading"}
	n.Blocks[0].Tags = []string{"go/testing"}
	addNote(t, r, n)

	if _, ok := r.Page("reading"); !ok {
		t.Error("page-level tag target missing")
	}
	if _, ok := r.Page("go/testing"); !ok {
		t.Error("block-level tag target missing")
	}
	if _, ok := r.Page("go"); !ok {
		t.Error("tag namespace ancestor missing")
	}
}

func TestResolver_DuplicateAuthoredPagesMerge(t *testing.T) {
	r := NewResolver("/")
	a := note("Topic.md", blk("Topic.md", 0, 1, "from a"))
	a.IsPublic = true
	b := note("topic.md", blk("topic.md", 0, 1, "from b"))
	addNote(t, r, a)
	addNote(t, r, b)

	p, ok := r.Page("topic")
	if !ok {
		t.Fatal("merged page missing")
	}
	if p.IsPlaceholder {
		t.Error("authored page flagged placeholder")
	}
	if !p.IsPublic {
		t.Error("publication must survive the merge")
	}
	if len(p.Blocks) != 2 {
		t.Errorf("blocks = %d, want both fragments' blocks", len(p.Blocks))
	}
	if len(p.Sources) != 2 || p.Sources[0] != "Topic.md" || p.Sources[1] != "topic.md" {
		t.Errorf("sources = %v, want both paths in add order", p.Sources)
	}
}

func TestResolver_DuplicateBlockIDRederived(t *testing.T) {
	r := NewResolver("/")
	id := uuid.MustParse("649abefd-2575-4ef5-8437-cb1d9b67a1e5")

	a := note("a.md", &models.Block{ID: id, Depth: 1, Content: "first claimant"})
	b := note("b.md", &models.Block{ID: id, Depth: 1, Content: "late duplicate"})
	addNote(t, r, a)
	addNote(t, r, b)

	if a.Blocks[0].ID != id {
		t.Error("first claimant must keep its authored id")
	}
	if b.Blocks[0].ID == id {
		t.Error("duplicate id must be re-derived")
	}
	if b.Blocks[0].ID == uuid.Nil {
		t.Error("re-derived id missing")
	}
	if !r.HasBlock(id) || !r.HasBlock(b.Blocks[0].ID) {
		t.Error("both blocks must be indexed")
	}
}

func TestResolver_ResourceIdentity(t *testing.T) {
	r := NewResolver("/")
	n := note("a.md",
		blk("a.md", 0, 1, "x", models.Reference{Kind: models.RefResource, Target: `..\assets\Cat.png`}),
		blk("a.md", 1, 1, "y", models.Reference{Kind: models.RefResource, Target: "../assets/cat.png", IsAsset: true}),
	)
	addNote(t, r, n)

	if got := len(r.Resources()); got != 1 {
		t.Fatalf("resources = %d, want spellings merged to one", got)
	}
	res, ok := r.Resource("../ASSETS/CAT.PNG")
	if !ok {
		t.Fatal("resource lookup by variant spelling failed")
	}
	if res.Path != "../assets/Cat.png" {
		t.Errorf("path = %q, want first spelling with slashes normalized", res.Path)
	}
	if !res.IsAsset {
		t.Error("asset classification must stick once any reference marks it")
	}
}

func TestResolver_EmptyPageNameRejected(t *testing.T) {
	r := NewResolver("/")
	bad := &models.Note{Path: ".md", Name: ""}
	if err := r.AddNote(bad); err == nil {
		t.Fatal("note with empty page name should be rejected")
	}
}
