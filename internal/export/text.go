package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/mosesoghene/whats-app-group-export/internal/contact"
)

// renderTXT writes the human-readable report: a banner, summary counts,
// then numbered ADMINISTRATORS and MEMBERS sections with phone and
// status on indented sublines, and a completion trailer.
func renderTXT(contacts []contact.Record, groupName string, now time.Time) []byte {
	date := humanTime(now)

	var admins, members []contact.Record
	withPhone, withStatus := 0, 0
	for _, c := range contacts {
		if c.IsAdmin {
			admins = append(admins, c)
		} else {
			members = append(members, c)
		}
		if c.PhoneNumber != "" {
			withPhone++
		}
		if c.Status != "" {
			withStatus++
		}
	}

	var b strings.Builder
	b.WriteString("WhatsApp Group Contacts Export\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	fmt.Fprintf(&b, "Group Name: %s\n", groupName)
	fmt.Fprintf(&b, "Export Date: %s\n", date)
	fmt.Fprintf(&b, "Total Contacts: %d\n", len(contacts))
	fmt.Fprintf(&b, "Administrators: %d\n", len(admins))
	fmt.Fprintf(&b, "Members: %d\n", len(members))
	fmt.Fprintf(&b, "Contacts with Phone: %d\n", withPhone)
	fmt.Fprintf(&b, "Contacts with Status: %d\n\n", withStatus)

	writeSection(&b, "ADMINISTRATORS", admins)
	writeSection(&b, "MEMBERS", members)

	b.WriteString("\n" + strings.Repeat("=", 40) + "\n")
	b.WriteString("Generated by " + ExportedBy + "\n")
	fmt.Fprintf(&b, "Export completed at %s\n", date)

	return []byte(b.String())
}

func writeSection(b *strings.Builder, title string, contacts []contact.Record) {
	if len(contacts) == 0 {
		return
	}

	fmt.Fprintf(b, "%s (%d)\n", title, len(contacts))
	b.WriteString(strings.Repeat("-", 20) + "\n")

	for i, c := range contacts {
		fmt.Fprintf(b, "%d. %s\n", i+1, c.Name)
		if c.PhoneNumber != "" {
			fmt.Fprintf(b, "   📞 %s\n", contact.FormatPhone(c.PhoneNumber))
		}
		if c.Status != "" {
			fmt.Fprintf(b, "   💬 %s\n", c.Status)
		}
		b.WriteString("\n")
	}
}
