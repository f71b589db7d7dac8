package contact

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mosesoghene/whats-app-group-export/internal/selector"
)

// ParseCell extracts one Record from a participant cell. It returns nil
// for cells that are filtered out (adminsOnly with a non-admin) or that
// carry too little data to be useful: an empty name, or the Unknown
// sentinel with no phone number.
func ParseCell(cell *goquery.Selection, table *selector.Table, adminsOnly bool) *Record {
	name := UnknownName
	if title := table.Resolve(selector.CellTitle, cell); title != nil {
		name = strings.TrimSpace(title.Text())
	}

	var phone, status string
	if sub := table.Resolve(selector.CellSecondary, cell); sub != nil {
		phone, status = SplitSubtitle(sub.Text())
	}

	isAdmin := table.Resolve(selector.AdminLabel, cell) != nil

	if adminsOnly && !isAdmin {
		return nil
	}
	if name == "" || (name == UnknownName && phone == "") {
		return nil
	}

	return &Record{
		Name:        name,
		PhoneNumber: phone,
		Status:      status,
		IsAdmin:     isAdmin,
	}
}

// ParseCells runs ParseCell over every element of a ranked participant
// cell match set, dropping filtered and unusable cells.
func ParseCells(cells *goquery.Selection, table *selector.Table, adminsOnly bool) []Record {
	var records []Record
	if cells == nil {
		return records
	}
	cells.Each(func(_ int, cell *goquery.Selection) {
		if r := ParseCell(cell, table, adminsOnly); r != nil {
			records = append(records, *r)
		}
	})
	return records
}
