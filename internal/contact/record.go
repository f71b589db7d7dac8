// Package contact holds the participant record model and the
// extraction, normalization, and filtering pipeline that turns raw
// participant cells into a clean contact list.
package contact

// UnknownName is the sentinel used when no title element resolves
// within a participant cell. A record carrying only the sentinel and no
// phone number is useless and never constructed.
const UnknownName = "Unknown"

// Record is one extracted participant.
type Record struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Status      string `json:"status"`
	IsAdmin     bool   `json:"isAdmin"`
}

// Type classifies a record by which optional fields it carries. The
// labels feed the CSV "Contact Type" column and the JSON export.
func (r Record) Type() string {
	switch {
	case r.PhoneNumber != "" && r.Status != "":
		return "Complete"
	case r.PhoneNumber != "":
		return "With Phone"
	case r.Status != "":
		return "With Status"
	default:
		return "Name Only"
	}
}
