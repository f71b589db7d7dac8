package contact

import (
	"sort"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Options selects the normalization steps applied to a raw contact
// list. All steps default to off; Normalize always sorts.
type Options struct {
	AdminsOnly       bool `json:"includeAdminsOnly"`
	ValidatePhones   bool `json:"validatePhones"`
	RemoveDuplicates bool `json:"removeDuplicates"`
}

// Key is the deduplication identity of a record: the phone number when
// present, otherwise the name.
func (r Record) Key() string {
	if r.PhoneNumber != "" {
		return r.PhoneNumber
	}
	return r.Name
}

// Normalize applies, in order: the admins-only filter, the
// phone-validation filter, first-wins deduplication keyed by
// phone-or-name, and a stable sort placing admins before members and
// ordering by collated name within each group. Applying it twice
// yields the same list.
func Normalize(records []Record, opts Options) []Record {
	out := records

	if opts.AdminsOnly {
		out = lo.Filter(out, func(r Record, _ int) bool { return r.IsAdmin })
	}
	if opts.ValidatePhones {
		out = lo.Filter(out, func(r Record, _ int) bool {
			return r.PhoneNumber != "" && ValidPhone(r.PhoneNumber)
		})
	}
	if opts.RemoveDuplicates {
		out = lo.UniqBy(out, Record.Key)
	}

	sorted := make([]Record, len(out))
	copy(sorted, out)
	Sort(sorted)
	return sorted
}

// Sort orders records in place: admins first, then ascending by
// locale-collated name. The sort is stable for equal keys.
func Sort(records []Record) {
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].IsAdmin != records[j].IsAdmin {
			return records[i].IsAdmin
		}
		return c.CompareString(records[i].Name, records[j].Name) < 0
	})
}
