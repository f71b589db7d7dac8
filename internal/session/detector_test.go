package session

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/mosesoghene/whats-app-group-export/internal/selector"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestDetectGroup(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		wantOpen bool
		wantName string
	}{
		{
			name: "participant count in header",
			html: `<header data-testid="conversation-header">
			  <span data-testid="conversation-title">Book Club</span>
			  <span>5 participants</span>
			</header>`,
			wantOpen: true,
			wantName: "Book Club",
		},
		{
			name: "members keyword",
			html: `<header data-testid="conversation-header">
			  <span data-testid="conversation-title">Some Chat</span>
			  <div>12 members</div>
			</header>`,
			wantOpen: true,
			wantName: "Some Chat",
		},
		{
			name: "group-shaped name with year",
			html: `<header data-testid="conversation-header">
			  <span data-testid="conversation-title">Reunion 2024</span>
			</header>`,
			wantOpen: true,
			wantName: "Reunion 2024",
		},
		{
			name: "group keyword in name",
			html: `<header data-testid="conversation-header">
			  <span data-testid="conversation-title">Family</span>
			</header>`,
			wantOpen: true,
			wantName: "Family",
		},
		{
			name: "direct chat stays closed",
			html: `<header data-testid="conversation-header">
			  <span data-testid="conversation-title">Jo</span>
			  <span>last seen today</span>
			</header>`,
			wantOpen: false,
			wantName: "Jo",
		},
		{
			name: "chat body fallback",
			html: `<div>
			  <header data-testid="conversation-header">
			    <span data-testid="conversation-title">Jo</span>
			  </header>
			  <div data-testid="conversation-panel-body"></div>
			</div>`,
			wantOpen: true,
			wantName: "Jo",
		},
		{
			name:     "no conversation open",
			html:     `<div><p>Select a chat to start messaging</p></div>`,
			wantOpen: false,
			wantName: "",
		},
		{
			name: "group indicator element",
			html: `<div>
			  <header data-testid="conversation-header">
			    <span data-testid="conversation-title">Jo</span>
			  </header>
			  <div data-testid="group-info-drawer"></div>
			</div>`,
			wantOpen: true,
			wantName: "Jo",
		},
		{
			name: "long title counts as group",
			html: `<header data-testid="conversation-header">
			  <span data-testid="conversation-title">The quarterly planning committee</span>
			</header>`,
			wantOpen: true,
			wantName: "The quarterly planning committee",
		},
	}

	table := selector.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DetectGroup(parseDoc(t, tt.html), table)
			if st.IsGroupOpen != tt.wantOpen {
				t.Errorf("IsGroupOpen = %v, want %v", st.IsGroupOpen, tt.wantOpen)
			}
			if st.GroupName != tt.wantName {
				t.Errorf("GroupName = %q, want %q", st.GroupName, tt.wantName)
			}
		})
	}
}

func TestParticipantCountFromHeader(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{"participants", `<header><span>5 participants</span></header>`, 5},
		{"members", `<header><div>120 members</div></header>`, 120},
		{"people", `<header><span>3 people</span></header>`, 3},
		{"no count", `<header><span>online</span></header>`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDoc(t, tt.html)
			header := doc.Find("header")
			if got := participantCountFromHeader(header); got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLikelyGroupName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"single rune", "J", false},
		{"short personal name", "Jo", false},
		{"family keyword", "Smith Family", true},
		{"year", "Trip 2023", true},
		{"group emoji", "Chat 👥", true},
		{"long title", "a conversation title over twenty", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := likelyGroupName(tt.in); got != tt.want {
				t.Errorf("likelyGroupName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
