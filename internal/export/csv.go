package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/mosesoghene/whats-app-group-export/internal/contact"
)

// utf8BOM keeps Excel from misdetecting the encoding of exported files.
const utf8BOM = "\uFEFF"

// csvHeader is the fixed column set. Export Date and Group Name repeat
// per row so individual rows stay meaningful when copied out.
var csvHeader = []string{
	"Full Name",
	"Phone Number",
	"Status Message",
	"Admin Role",
	"Contact Type",
	"Export Date",
	"Group Name",
}

// renderCSV writes the CSV contract: a UTF-8 BOM so Excel detects the
// encoding, four # comment lines of metadata, one blank separator line,
// the header row, then one row per contact.
func renderCSV(contacts []contact.Record, groupName string, now time.Time) []byte {
	date := humanTime(now)

	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString("# WhatsApp Group: " + groupName + "\n")
	b.WriteString("# Export Date: " + date + "\n")
	b.WriteString("# Total Contacts: " + strconv.Itoa(len(contacts)) + "\n")
	b.WriteString("# Exported By: " + ExportedBy + "\n")
	b.WriteString("\n")
	b.WriteString(strings.Join(csvHeader, ",") + "\n")

	for i, c := range contacts {
		role := "Member"
		if c.IsAdmin {
			role = "Admin"
		}
		row := []string{
			escapeCSVField(c.Name),
			contact.FormatPhone(c.PhoneNumber),
			escapeCSVField(c.Status),
			role,
			c.Type(),
			escapeCSVField(date),
			escapeCSVField(groupName),
		}
		b.WriteString(strings.Join(row, ","))
		if i < len(contacts)-1 {
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

// escapeCSVField quotes a field when it is empty or contains a comma,
// quote, newline, carriage return, or leading/trailing space. Internal
// quotes are doubled. encoding/csv cannot express this contract (it
// never quotes empty fields), hence the hand-rolled writer.
func escapeCSVField(field string) string {
	field = strings.TrimSpace(field)

	needsQuoting := field == "" ||
		strings.ContainsAny(field, ",\"\n\r") ||
		strings.HasPrefix(field, " ") ||
		strings.HasSuffix(field, " ")

	if needsQuoting {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
