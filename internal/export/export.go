// Package export renders a normalized contact list into one of the
// supported download formats. Each format has a fixed byte-level
// contract pinned by tests; changing any of them breaks files users
// already rely on importing elsewhere (Excel, phone address books).
package export

import (
	"fmt"
	"regexp"
	"time"

	"github.com/mosesoghene/whats-app-group-export/internal/contact"
)

// ExportedBy is the tool signature embedded in file metadata.
const ExportedBy = "WhatsApp Contacts Exporter"

type Format string

const (
	CSV   Format = "csv"
	TXT   Format = "txt"
	JSON  Format = "json"
	VCard Format = "vcf"
)

// ParseFormat maps a request string to a Format. Empty input selects
// CSV, the historical default.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return CSV, nil
	case CSV, TXT, JSON, VCard:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

func (f Format) MIME() string {
	switch f {
	case CSV:
		return "text/csv"
	case JSON:
		return "application/json"
	case VCard:
		return "text/vcard"
	default:
		return "text/plain"
	}
}

func (f Format) Ext() string {
	return string(f)
}

// Render serializes contacts into the requested format. Contacts are
// sorted (admins first, collated name within) before rendering so every
// format shares the same row order regardless of caller preprocessing.
func Render(contacts []contact.Record, groupName string, now time.Time, f Format) ([]byte, error) {
	sorted := make([]contact.Record, len(contacts))
	copy(sorted, contacts)
	contact.Sort(sorted)

	switch f {
	case CSV:
		return renderCSV(sorted, groupName, now), nil
	case TXT:
		return renderTXT(sorted, groupName, now), nil
	case JSON:
		return renderJSON(sorted, groupName, now)
	case VCard:
		return renderVCF(sorted, groupName), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", string(f))
	}
}

var unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename builds the download filename:
// whatsapp_contacts_<sanitized-group>_<timestamp>.<ext>, with every
// non-alphanumeric rune of the group name replaced by an underscore and
// an ISO-8601 UTC instant with colons swapped for hyphens.
func Filename(groupName string, now time.Time, f Format) string {
	safe := unsafeFilenameRe.ReplaceAllString(groupName, "_")
	ts := now.UTC().Format("2006-01-02T15-04-05")
	return fmt.Sprintf("whatsapp_contacts_%s_%s.%s", safe, ts, f.Ext())
}

// humanTime renders the human-facing export timestamp used in CSV
// metadata and the text report.
func humanTime(now time.Time) string {
	return now.Format("1/2/2006, 3:04:05 PM")
}
