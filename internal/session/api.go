package session

import (
	"context"

	"github.com/mosesoghene/whats-app-group-export/internal/contact"
	"github.com/mosesoghene/whats-app-group-export/internal/export"
)

// Status is the group-detection result for the currently open
// conversation. It is rebuilt from live DOM state on every check and
// carries no identity beyond that.
type Status struct {
	IsGroupOpen bool   `json:"isGroupOpen"`
	GroupName   string `json:"groupName"`
}

// ExportOptions selects what a direct export extracts and how it is
// rendered.
type ExportOptions struct {
	AdminsOnly       bool
	ValidatePhones   bool
	RemoveDuplicates bool
	Format           export.Format
}

// ExportResult is the finished artifact of one export operation.
type ExportResult struct {
	Data      []byte
	Filename  string
	Count     int
	GroupName string
	Format    export.Format
}

// API is the operation surface the HTTP layer drives. Handlers depend
// on this interface so they can be tested without a browser.
type API interface {
	CheckStatus(ctx context.Context) (Status, error)
	Export(ctx context.Context, opts ExportOptions) (*ExportResult, error)
	QuickScan(ctx context.Context) ([]contact.Record, error)
	ExportCached(names []string, opts contact.Options, format export.Format) (*ExportResult, error)
	Cached() ([]contact.Record, string)
}
