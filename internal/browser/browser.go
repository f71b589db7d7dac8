// Package browser owns the Chrome lifecycle: launching a local browser
// or attaching to a running one over CDP, and locating the WhatsApp Web
// tab the exporter drives.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/mosesoghene/whats-app-group-export/internal/config"
)

type Browser struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	cfg           *config.RuntimeConfig

	mu        sync.Mutex
	tabCtx    context.Context
	tabCancel context.CancelFunc
	tabTarget target.ID
}

// Init connects to Chrome: via a remote allocator when CDP_URL is set
// (attach to the user's running browser, the common case — WhatsApp Web
// sessions live in the user's profile), otherwise by launching a
// browser with the configured profile directory.
func Init(cfg *config.RuntimeConfig) (*Browser, error) {
	slog.Info("starting chrome initialization", "headless", cfg.Headless, "cdp", cfg.CdpURL, "profile", cfg.ProfileDir)

	var allocCtx context.Context
	var allocCancel context.CancelFunc

	if cfg.CdpURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.CdpURL)
	} else {
		opts := chromedp.DefaultExecAllocatorOptions[:]
		if cfg.Headless {
			opts = append(opts, chromedp.Headless)
		} else {
			opts = append(opts, chromedp.Flag("headless", false))
		}
		if cfg.ChromeBinary != "" {
			opts = append(opts, chromedp.ExecPath(cfg.ChromeBinary))
		}
		if cfg.ProfileDir != "" {
			opts = append(opts, chromedp.UserDataDir(cfg.ProfileDir))
		}
		opts = append(opts,
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("disable-dev-shm-usage", ""),
			chromedp.Flag("no-first-run", ""),
			chromedp.Flag("no-default-browser-check", ""),
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	slog.Info("chrome connected")
	return &Browser{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		cfg:           cfg,
	}, nil
}

func (b *Browser) Close() {
	b.mu.Lock()
	if b.tabCancel != nil {
		b.tabCancel()
		b.tabCtx, b.tabCancel = nil, nil
	}
	b.mu.Unlock()
	b.browserCancel()
	b.allocCancel()
}

// Targets lists the open page targets.
func (b *Browser) Targets() ([]*target.Info, error) {
	return chromedp.Targets(b.browserCtx)
}

// Tab returns a chromedp context bound to the WhatsApp Web tab,
// creating and navigating one when none exists and OpenTab allows it.
// The context is cached until the underlying target disappears.
func (b *Browser) Tab(ctx context.Context) (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	targets, err := chromedp.Targets(b.browserCtx)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}

	info := matchTarget(targets, b.cfg.WhatsAppURL)
	if info != nil {
		if b.tabCtx != nil && b.tabTarget == info.TargetID {
			return b.tabCtx, nil
		}
		if b.tabCancel != nil {
			b.tabCancel()
		}
		tabCtx, tabCancel := chromedp.NewContext(b.browserCtx, chromedp.WithTargetID(info.TargetID))
		b.tabCtx, b.tabCancel, b.tabTarget = tabCtx, tabCancel, info.TargetID
		slog.Info("attached to whatsapp tab", "target", string(info.TargetID), "url", info.URL)
		return tabCtx, nil
	}

	if !b.cfg.OpenTab {
		return nil, fmt.Errorf("no tab open at %s", b.cfg.WhatsAppURL)
	}

	if b.tabCancel != nil {
		b.tabCancel()
	}
	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	if err := Navigate(tabCtx, b.cfg.WhatsAppURL); err != nil {
		tabCancel()
		b.tabCtx, b.tabCancel = nil, nil
		return nil, fmt.Errorf("open whatsapp tab: %w", err)
	}
	if c := chromedp.FromContext(tabCtx); c != nil && c.Target != nil {
		b.tabTarget = c.Target.TargetID
	}
	b.tabCtx, b.tabCancel = tabCtx, tabCancel
	slog.Info("opened whatsapp tab", "url", b.cfg.WhatsAppURL)
	return tabCtx, nil
}

// matchTarget picks the first page target whose URL lives under the
// WhatsApp Web origin.
func matchTarget(targets []*target.Info, waURL string) *target.Info {
	host := waURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.SplitN(host, "/", 2)[0]

	for _, t := range targets {
		if t.Type == "page" && strings.Contains(t.URL, host) {
			return t
		}
	}
	return nil
}
