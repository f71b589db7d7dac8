// Package session orchestrates one exporter session against the
// WhatsApp Web tab: group detection, panel navigation, participant
// extraction, and rendering. A Session is explicitly constructed and
// owns all of its state; there are no package-level singletons.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/samber/lo"

	"github.com/mosesoghene/whats-app-group-export/internal/config"
	"github.com/mosesoghene/whats-app-group-export/internal/contact"
	"github.com/mosesoghene/whats-app-group-export/internal/export"
	"github.com/mosesoghene/whats-app-group-export/internal/selector"
	"github.com/mosesoghene/whats-app-group-export/internal/web"
)

// TabProvider yields the chromedp context bound to the WhatsApp tab.
type TabProvider interface {
	Tab(ctx context.Context) (context.Context, error)
}

type Session struct {
	cfg     *config.RuntimeConfig
	browser TabProvider
	table   *selector.Table

	// CDP execution hooks; replaced in tests.
	evaluate func(ctx context.Context, js string, out any) error
	poll     func(ctx context.Context, expr string, timeout time.Duration) error

	// Quick-scan cache for the interactive preview/selection flow.
	// Last write wins; the caller serializes operations, the mutex
	// only keeps concurrent readers safe.
	mu    sync.Mutex
	cache cacheState
}

type cacheState struct {
	contacts  []contact.Record
	groupName string
}

func New(browser TabProvider, table *selector.Table, cfg *config.RuntimeConfig) *Session {
	return &Session{
		cfg:     cfg,
		browser: browser,
		table:   table,
		evaluate: func(ctx context.Context, js string, out any) error {
			return chromedp.Run(ctx, chromedp.Evaluate(js, out))
		},
		poll: func(ctx context.Context, expr string, timeout time.Duration) error {
			var found bool
			return chromedp.Run(ctx, chromedp.Poll(expr, &found,
				chromedp.WithPollingMutation(),
				chromedp.WithPollingTimeout(timeout),
			))
		},
	}
}

// tabContext resolves the WhatsApp tab and bounds the operation with
// the action timeout. The returned context is also canceled when the
// caller's request context ends.
func (s *Session) tabContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	tab, err := s.browser.Tab(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("whatsapp tab: %w", err)
	}
	tctx, cancel := context.WithTimeout(tab, s.cfg.ActionTimeout)
	go web.CancelOnClientDone(ctx, cancel)
	return tctx, cancel, nil
}

func (s *Session) captureDocument(ctx context.Context) (*goquery.Document, error) {
	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("capture page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// CheckStatus snapshots the page and runs group detection. The result
// is rebuilt from live DOM state on every call.
func (s *Session) CheckStatus(ctx context.Context) (Status, error) {
	tctx, cancel, err := s.tabContext(ctx)
	if err != nil {
		return Status{}, err
	}
	defer cancel()

	doc, err := s.captureDocument(tctx)
	if err != nil {
		return Status{}, err
	}

	st := DetectGroup(doc, s.table)
	slog.Info("status check", "open", st.IsGroupOpen, "group", st.GroupName)
	return st, nil
}

// extract runs the full panel sequence — open, await, snapshot, close —
// and parses participant cells from the snapshot. The panel is closed
// before parsing; extraction works entirely offline on the captured
// document.
func (s *Session) extract(ctx context.Context, adminsOnly bool) ([]contact.Record, string, error) {
	if err := s.openPanel(ctx); err != nil {
		return nil, "", err
	}
	if err := s.awaitParticipants(ctx); err != nil {
		return nil, "", err
	}

	doc, err := s.captureDocument(ctx)
	s.closePanel(ctx)
	if err != nil {
		return nil, "", err
	}

	groupName := DetectGroup(doc, s.table).GroupName

	cells := s.table.ResolveAll(selector.ParticipantCell, doc.Selection)
	if cells == nil {
		return nil, groupName, ErrNoParticipants
	}

	records := contact.ParseCells(cells, s.table, adminsOnly)
	slog.Info("extracted participants", "cells", cells.Length(), "records", len(records), "group", groupName)
	return records, groupName, nil
}

// Export performs a one-shot export: drive the panel, extract, apply
// the normalization options, and render. Any failure aborts the whole
// operation; a partial file is never produced.
func (s *Session) Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	tctx, cancel, err := s.tabContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	records, groupName, err := s.extract(tctx, opts.AdminsOnly)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoContacts
	}

	records = contact.Normalize(records, contact.Options{
		ValidatePhones:   opts.ValidatePhones,
		RemoveDuplicates: opts.RemoveDuplicates,
	})
	if len(records) == 0 {
		return nil, ErrNoContacts
	}

	return s.render(records, groupName, opts.Format)
}

// QuickScan extracts every participant without filtering and caches the
// result for the preview/selection flow.
func (s *Session) QuickScan(ctx context.Context) ([]contact.Record, error) {
	tctx, cancel, err := s.tabContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	records, groupName, err := s.extract(tctx, false)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoContacts
	}

	s.mu.Lock()
	s.cache = cacheState{contacts: records, groupName: groupName}
	s.mu.Unlock()
	return records, nil
}

// Cached returns the last quick-scan result and its group name.
func (s *Session) Cached() ([]contact.Record, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cache.contacts), s.cache.groupName
}

// ExportCached renders a filtered — and optionally name-selected —
// subset of the cached scan without touching the browser.
func (s *Session) ExportCached(names []string, opts contact.Options, format export.Format) (*ExportResult, error) {
	cached, groupName := s.Cached()
	if len(cached) == 0 {
		return nil, ErrNoScan
	}

	records := contact.Normalize(cached, opts)
	if len(names) > 0 {
		selected := make(map[string]struct{}, len(names))
		for _, n := range names {
			selected[n] = struct{}{}
		}
		records = lo.Filter(records, func(r contact.Record, _ int) bool {
			_, ok := selected[r.Name]
			return ok
		})
	}
	if len(records) == 0 {
		return nil, ErrNoContacts
	}

	return s.render(records, groupName, format)
}

func (s *Session) render(records []contact.Record, groupName string, format export.Format) (*ExportResult, error) {
	now := time.Now()
	data, err := export.Render(records, groupName, now, format)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		Data:      data,
		Filename:  export.Filename(groupName, now, format),
		Count:     len(records),
		GroupName: groupName,
		Format:    format,
	}, nil
}
