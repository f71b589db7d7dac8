package export

import (
	"strings"

	"github.com/mosesoghene/whats-app-group-export/internal/contact"
)

// renderVCF writes one vCard 3.0 block per contact. TEL and NOTE appear
// only when present, TITLE marks group admins, and ORG carries the
// group name so address books keep the group association.
func renderVCF(contacts []contact.Record, groupName string) []byte {
	var b strings.Builder

	for _, c := range contacts {
		b.WriteString("BEGIN:VCARD\n")
		b.WriteString("VERSION:3.0\n")
		b.WriteString("FN:" + c.Name + "\n")
		if c.PhoneNumber != "" {
			b.WriteString("TEL:" + c.PhoneNumber + "\n")
		}
		if c.Status != "" {
			b.WriteString("NOTE:" + c.Status + "\n")
		}
		if c.IsAdmin {
			b.WriteString("TITLE:WhatsApp Group Admin\n")
		}
		b.WriteString("ORG:" + groupName + "\n")
		b.WriteString("END:VCARD\n\n")
	}

	return []byte(b.String())
}
