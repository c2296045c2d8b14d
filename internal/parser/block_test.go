package parser

import (
	"testing"

	"github.com/starford/ansuz/internal/models"
)

func collect(t *testing.T, p *Parser, src string) []*models.Block {
	t.Helper()
	var out []*models.Block
	for b := range p.Blocks(src) {
		out = append(out, b)
	}
	return out
}

func TestBlocks_Grouping(t *testing.T) {
	p := New("/", "", nil)
	blocks := collect(t, p, "- a\n- b\n\t- c")
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	wantDepth := []int{1, 1, 2}
	wantContent := []string{"a", "b", "c"}
	for i, b := range blocks {
		if b.Depth != wantDepth[i] || b.Content != wantContent[i] {
			t.Errorf("block %d = {%q depth %d}, want {%q depth %d}",
				i, b.Content, b.Depth, wantContent[i], wantDepth[i])
		}
	}
}

func TestBlocks_Continuation(t *testing.T) {
	p := New("/", "", nil)
	blocks := collect(t, p, "- first line\n  second line")
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Content != "first line\nsecond line" {
		t.Errorf("content = %q", blocks[0].Content)
	}
}

func TestBlocks_EmptySource(t *testing.T) {
	p := New("/", "", nil)
	blocks := collect(t, p, "")
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Content != "" || blocks[0].Depth != 0 {
		t.Errorf("empty source block = {%q depth %d}", blocks[0].Content, blocks[0].Depth)
	}
}

func TestBlocks_UnbulletedHeadThenBullets(t *testing.T) {
	p := New("/", "", nil)
	blocks := collect(t, p, "title:: Home\nintro text\n- first")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Depth != 0 || blocks[0].Content != "intro text" {
		t.Errorf("head block = {%q depth %d}", blocks[0].Content, blocks[0].Depth)
	}
	if len(blocks[0].Properties) != 1 || blocks[0].Properties[0].Key != "title" {
		t.Errorf("head properties = %+v", blocks[0].Properties)
	}
}

func TestBuildBlock_Properties(t *testing.T) {
	p := New("/", "", nil)
	blocks := collect(t, p, "- task text\n  status:: doing\n  status:: done")
	b := blocks[0]
	if b.Content != "task text" {
		t.Errorf("content = %q, property lines should be removed", b.Content)
	}
	if len(b.Properties) != 2 {
		t.Fatalf("properties = %+v, want both occurrences kept", b.Properties)
	}
	if got, _ := b.Properties.Last("status"); got.Value != "done" {
		t.Errorf("Last(status) = %q, want %q", got.Value, "done")
	}
}

func TestBuildBlock_CodeFenceSuppressesMarkup(t *testing.T) {
	p := New("/", "", nil)
	src := "- ```\n  key:: value\n  [[link]]\n  ```"
	b := collect(t, p, src)[0]
	if len(b.Properties) != 0 {
		t.Errorf("properties inside fence = %+v, want none", b.Properties)
	}
	if len(b.Refs) != 0 {
		t.Errorf("refs inside fence = %+v, want none", b.Refs)
	}
	if b.Content != "```\nkey:: value\n[[link]]\n```" {
		t.Errorf("content = %q", b.Content)
	}
}

func TestBuildBlock_UnclosedFenceDegrades(t *testing.T) {
	p := New("/", "", nil)
	b := collect(t, p, "- ```\n  key:: value")[0]
	if len(b.Properties) != 0 {
		t.Errorf("unclosed fence should stay inert, got properties %+v", b.Properties)
	}
	if b.Content != "```\nkey:: value" {
		t.Errorf("content = %q", b.Content)
	}
}

func TestBuildBlock_Directive(t *testing.T) {
	p := New("/", "", nil)
	b := collect(t, p, "- #+BEGIN_QUOTE\n  Hello!\n  #+END_QUOTE")[0]
	if b.Directive != "QUOTE" {
		t.Errorf("directive = %q, want QUOTE", b.Directive)
	}
	if b.Content != "Hello!" {
		t.Errorf("content = %q, want Hello!", b.Content)
	}
}

func TestBuildBlock_DirectiveUnclosed(t *testing.T) {
	p := New("/", "", nil)
	b := collect(t, p, "- #+BEGIN_QUOTE\n  still quoted")[0]
	if b.Directive != "QUOTE" {
		t.Errorf("directive = %q, want QUOTE", b.Directive)
	}
	if b.Content != "still quoted" {
		t.Errorf("content = %q", b.Content)
	}
}

func TestBuildBlock_CloserWithoutOpener(t *testing.T) {
	p := New("/", "", nil)
	b := collect(t, p, "- #+END_QUOTE")[0]
	if b.Directive != "" {
		t.Errorf("directive = %q, want empty", b.Directive)
	}
	if b.Content != "#+END_QUOTE" {
		t.Errorf("content = %q, closer without opener should stay content", b.Content)
	}
}

func TestBuildBlock_UnrecognizedDirectiveToken(t *testing.T) {
	p := New("/", "", []string{"QUOTE"})
	b := collect(t, p, "- #+BEGIN_SPOILER\n  boo\n  #+END_SPOILER")[0]
	if b.Directive != "" {
		t.Errorf("directive = %q, want empty for unrecognized token", b.Directive)
	}
	if b.Content != "#+BEGIN_SPOILER\nboo\n#+END_SPOILER" {
		t.Errorf("content = %q", b.Content)
	}
}

func TestBuildBlock_Heading(t *testing.T) {
	p := New("/", "", nil)
	cases := []struct {
		src  string
		want bool
	}{
		{"- # Overview", true},
		{"- ### Deep", true},
		{"- ###### Six", true},
		{"- ####### Seven", false},
		{"- #NoSpace", false},
		{"- plain\n  heading:: true", true},
		{"- plain\n  heading:: false", false},
	}
	for _, tc := range cases {
		b := collect(t, p, tc.src)[0]
		if b.IsHeading != tc.want {
			t.Errorf("IsHeading(%q) = %v, want %v", tc.src, b.IsHeading, tc.want)
		}
	}
}

func TestBuildBlock_Tags(t *testing.T) {
	p := New("/", "", nil)
	b := collect(t, p, "- note\n  tags:: alpha, beta")[0]
	if len(b.Tags) != 2 || b.Tags[0] != "alpha" || b.Tags[1] != "beta" {
		t.Errorf("tags = %v", b.Tags)
	}
}
