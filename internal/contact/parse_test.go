package contact

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/mosesoghene/whats-app-group-export/internal/selector"
)

const participantListHTML = `
<div>
  <div data-testid="cell-frame-container">
    <span data-testid="cell-frame-title">Alice</span>
    <span data-testid="cell-frame-secondary">+1 555 222 3333</span>
    <span data-testid="admin-label">Group admin</span>
  </div>
  <div data-testid="cell-frame-container">
    <span data-testid="cell-frame-title">Bob</span>
    <span data-testid="cell-frame-secondary">Busy today</span>
  </div>
  <div data-testid="cell-frame-container">
    <span data-testid="cell-frame-secondary"></span>
  </div>
</div>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestParseCells(t *testing.T) {
	doc := parseDoc(t, participantListHTML)
	table := selector.Default()

	cells := table.ResolveAll(selector.ParticipantCell, doc.Selection)
	if cells == nil || cells.Length() != 3 {
		t.Fatalf("expected 3 cells, got %v", cells)
	}

	records := ParseCells(cells, table, false)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}

	alice := records[0]
	if alice.Name != "Alice" || alice.PhoneNumber != "+15552223333" || alice.Status != "" || !alice.IsAdmin {
		t.Errorf("unexpected first record: %+v", alice)
	}

	bob := records[1]
	if bob.Name != "Bob" || bob.PhoneNumber != "" || bob.Status != "Busy today" || bob.IsAdmin {
		t.Errorf("unexpected second record: %+v", bob)
	}
}

func TestParseCellsAdminsOnly(t *testing.T) {
	doc := parseDoc(t, participantListHTML)
	table := selector.Default()

	cells := table.ResolveAll(selector.ParticipantCell, doc.Selection)
	records := ParseCells(cells, table, true)
	if len(records) != 1 {
		t.Fatalf("expected 1 admin record, got %d", len(records))
	}
	if records[0].Name != "Alice" || !records[0].IsAdmin {
		t.Errorf("unexpected admin record: %+v", records[0])
	}
}

func TestParseCellUnknownWithPhoneKept(t *testing.T) {
	html := `<div data-testid="cell-frame-container">
	  <span data-testid="cell-frame-secondary">+1 555 222 3333</span>
	</div>`
	doc := parseDoc(t, html)
	table := selector.Default()

	cell := table.ResolveAll(selector.ParticipantCell, doc.Selection)
	if cell == nil {
		t.Fatal("cell not found")
	}

	r := ParseCell(cell.First(), table, false)
	if r == nil {
		t.Fatal("expected a record for an unnamed cell with a phone")
	}
	if r.Name != UnknownName || r.PhoneNumber != "+15552223333" {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestRecordType(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"complete", Record{PhoneNumber: "123", Status: "hey"}, "Complete"},
		{"phone only", Record{PhoneNumber: "123"}, "With Phone"},
		{"status only", Record{Status: "hey"}, "With Status"},
		{"name only", Record{Name: "Alice"}, "Name Only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Type(); got != tt.want {
				t.Errorf("Type() = %q, want %q", got, tt.want)
			}
		})
	}
}
