// Package selector maps semantic roles of the host page's UI to ranked
// CSS selector alternatives. WhatsApp Web's markup is unversioned and
// changes without notice; every role carries a fallback cascade ordered
// from the most specific data-testid hook down to generic structural
// selectors. The first selector with any match wins — alternatives are
// ranked, never unioned.
package selector

import "github.com/PuerkitoBio/goquery"

// Role names one semantic element of the host UI.
type Role string

const (
	ConversationHeader  Role = "conversationHeader"
	ConversationTitle   Role = "conversationTitle"
	GroupIndicator      Role = "groupIndicator"
	GroupInfoDrawer     Role = "groupInfoDrawer"
	ParticipantsSection Role = "participantsSection"
	ParticipantCell     Role = "participantCell"
	CellTitle           Role = "cellTitle"
	CellSecondary       Role = "cellSecondary"
	AdminLabel          Role = "adminLabel"
	CloseButton         Role = "closeButton"
	ChatBody            Role = "chatBody"
)

// Table is a versioned set of ranked selector lists. Swapping the table
// is the only change needed when the host page ships new markup.
type Table struct {
	Version string
	roles   map[Role][]string
}

func New(version string, roles map[Role][]string) *Table {
	return &Table{Version: version, roles: roles}
}

// Default returns the selector table for the WhatsApp Web markup
// generations observed so far.
func Default() *Table {
	return New("2024-09", map[Role][]string{
		ConversationHeader: {
			`[data-testid="conversation-header"]`,
			`header[data-testid="conversation-header"]`,
			`.copyable-text[data-testid="conversation-title"]`,
			`div[role="banner"]`,
			`header`,
		},
		ConversationTitle: {
			`[data-testid="conversation-title"]`,
			`.copyable-text[data-testid="conversation-title"]`,
			`span[title]`,
			`div[title]`,
		},
		GroupIndicator: {
			`[data-testid="group-info-drawer"]`,
			`span[title*="participants"]`,
			`span[title*="members"]`,
			`div[title*="participants"]`,
			`div[title*="members"]`,
		},
		GroupInfoDrawer: {
			`[data-testid="group-info-drawer"]`,
			`[data-testid="drawer-right"]`,
			`.drawer-section-body`,
		},
		ParticipantsSection: {
			`[data-testid="group-info-participants"]`,
			`.group-info-participants`,
			`[data-testid="section-participants"]`,
		},
		ParticipantCell: {
			`[data-testid="cell-frame-container"]`,
			`.cell-frame-container`,
			`[data-testid="participant-cell"]`,
		},
		CellTitle: {
			`[data-testid="cell-frame-title"]`,
			`.cell-frame-title`,
			`span[title]`,
		},
		CellSecondary: {
			`[data-testid="cell-frame-secondary"]`,
			`.cell-frame-secondary`,
			`.participant-secondary`,
		},
		AdminLabel: {
			`[data-testid="admin-label"]`,
			`.admin-label`,
			`[title*="admin"]`,
		},
		CloseButton: {
			`[data-testid="drawer-right"] [data-testid="x"]`,
			`[data-testid="x"]`,
			`.drawer-header button[aria-label*="Close"]`,
		},
		ChatBody: {
			`[data-testid="conversation-panel-body"]`,
			`[data-testid="main"]`,
			`div[role="main"]`,
		},
	})
}

// List returns the ranked selector alternatives for a role. The returned
// slice is shared; callers must not mutate it.
func (t *Table) List(role Role) []string {
	return t.roles[role]
}

// Resolve returns the first match of the highest-ranked selector that
// matches anything within scope, or nil if no alternative matches.
func (t *Table) Resolve(role Role, scope *goquery.Selection) *goquery.Selection {
	for _, sel := range t.roles[role] {
		if found := scope.Find(sel); found.Length() > 0 {
			return found.First()
		}
	}
	return nil
}

// ResolveAll returns the full match set of the highest-ranked selector
// with a non-empty match set. The lists are ranked alternatives for the
// same semantic element under different markup generations — a union
// across them would mix elements from distinct generations and change
// what counts as "the" participant list.
func (t *Table) ResolveAll(role Role, scope *goquery.Selection) *goquery.Selection {
	for _, sel := range t.roles[role] {
		if found := scope.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}
