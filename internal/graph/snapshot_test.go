package graph

import "testing"

func TestSnapshot_TablesShape(t *testing.T) {
	r := NewResolver("/")
	parseAdd(t, r, "projects/alpha.md", "status:: active\n- see [[beta]] and #todo\n\t- [brief](docs/brief.pdf)")
	s := assemble(t, r)

	tables := s.Tables()
	wantNames := []string{
		"pages", "blocks", "resources",
		"in_namespace", "page_holds", "block_holds",
		"links", "tag_links", "block_refs", "resource_links",
		"page_properties", "block_properties", "page_tags", "block_tags",
	}
	if len(tables) != len(wantNames) {
		t.Fatalf("tables = %d, want %d", len(tables), len(wantNames))
	}
	rows := make(map[string]int, len(tables))
	for i, tbl := range tables {
		if tbl.Name != wantNames[i] {
			t.Errorf("table %d = %q, want %q", i, tbl.Name, wantNames[i])
		}
		if len(tbl.Columns) == 0 {
			t.Errorf("table %q has no columns", tbl.Name)
		}
		for _, row := range tbl.Rows {
			if len(row) != len(tbl.Columns) {
				t.Errorf("table %q row %v does not match columns %v", tbl.Name, row, tbl.Columns)
			}
		}
		rows[tbl.Name] = len(tbl.Rows)
	}

	if rows["pages"] != s.Stats.Pages || rows["blocks"] != s.Stats.Blocks || rows["resources"] != s.Stats.Resources {
		t.Errorf("node rows %v do not match stats %+v", rows, s.Stats)
	}
	relRows := 0
	for _, tbl := range tables[3:] {
		relRows += len(tbl.Rows)
	}
	if relRows != s.Stats.Relationships {
		t.Errorf("relationship rows = %d, stats say %d", relRows, s.Stats.Relationships)
	}
}

func TestSnapshot_ChecksumReflectsContent(t *testing.T) {
	build := func(src string) *Snapshot {
		r := NewResolver("/")
		parseAdd(t, r, "a.md", src)
		return assemble(t, r)
	}
	one := build("- one")
	if one.Checksum() != one.Checksum() {
		t.Error("checksum must be stable across calls")
	}
	if one.Checksum() == build("- two").Checksum() {
		t.Error("different content must change the checksum")
	}
}
