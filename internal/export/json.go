package export

import (
	"encoding/json"
	"time"

	"github.com/mosesoghene/whats-app-group-export/internal/contact"
)

type jsonMetadata struct {
	GroupName     string `json:"groupName"`
	ExportDate    string `json:"exportDate"`
	TotalContacts int    `json:"totalContacts"`
	ExportedBy    string `json:"exportedBy"`
}

// jsonContact uses pointers for phone and status so absent values
// serialize as null rather than "" — the JSON contract differs from
// CSV's empty-string convention on purpose.
type jsonContact struct {
	Name        string  `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	Status      *string `json:"status"`
	IsAdmin     bool    `json:"isAdmin"`
	ContactType string  `json:"contactType"`
}

type jsonExport struct {
	Metadata jsonMetadata  `json:"metadata"`
	Contacts []jsonContact `json:"contacts"`
}

func renderJSON(contacts []contact.Record, groupName string, now time.Time) ([]byte, error) {
	out := jsonExport{
		Metadata: jsonMetadata{
			GroupName:     groupName,
			ExportDate:    now.UTC().Format("2006-01-02T15:04:05.000Z"),
			TotalContacts: len(contacts),
			ExportedBy:    ExportedBy,
		},
		Contacts: make([]jsonContact, 0, len(contacts)),
	}

	for _, c := range contacts {
		out.Contacts = append(out.Contacts, jsonContact{
			Name:        c.Name,
			PhoneNumber: nullable(c.PhoneNumber),
			Status:      nullable(c.Status),
			IsAdmin:     c.IsAdmin,
			ContactType: c.Type(),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
