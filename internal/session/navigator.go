package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/mosesoghene/whats-app-group-export/internal/selector"
)

// The navigator drives the host UI with injected scripts that carry the
// same ranked-alternative semantics as the offline resolver: every
// snippet walks a selector list in order and acts on the first match.

const clickHeaderJS = `(() => {
	const sels = %s;
	let header = null;
	for (const s of sels) { header = document.querySelector(s); if (header) break; }
	if (!header) return "no-header";
	const targets = [header, header.querySelector("div"), header.querySelector("span")].filter(Boolean);
	const i = %d;
	if (i >= targets.length) return "exhausted";
	targets[i].click();
	return "clicked";
})()`

const countCellsJS = `(() => {
	const sels = %s;
	for (const s of sels) {
		const els = document.querySelectorAll(s);
		if (els.length > 0) return els.length;
	}
	return 0;
})()`

const sectionHeightJS = `(() => {
	const sels = %s;
	for (const s of sels) {
		const el = document.querySelector(s);
		if (el) return el.scrollHeight;
	}
	return -1;
})()`

const sectionScrollJS = `(() => {
	const sels = %s;
	for (const s of sels) {
		const el = document.querySelector(s);
		if (el) { el.scrollTop = el.scrollHeight; return true; }
	}
	return false;
})()`

const closePanelJS = `(() => {
	const sels = %s;
	for (const s of sels) {
		const btn = document.querySelector(s);
		if (btn) { btn.click(); return "clicked"; }
	}
	document.dispatchEvent(new KeyboardEvent("keydown", { key: "Escape" }));
	return "escape";
})()`

func jsList(sels []string) string {
	b, _ := json.Marshal(sels)
	return string(b)
}

// waitAny blocks until any selector for the role matches, observing DOM
// mutations rather than polling on a timer. The injected observer is
// torn down on both success and timeout; timeout surfaces as
// chromedp.ErrPollingTimeout.
func (s *Session) waitAny(ctx context.Context, role selector.Role, timeout time.Duration) error {
	expr := fmt.Sprintf(`%s.some((s) => document.querySelector(s) !== null)`, jsList(s.table.List(role)))
	return s.poll(ctx, expr, timeout)
}

// openPanel clicks the conversation header — then, if the group-info
// drawer does not appear, the header's first child div and span — until
// the drawer materializes. The host UI moves its click handler between
// markup generations, hence the cascade.
func (s *Session) openPanel(ctx context.Context) error {
	headerList := jsList(s.table.List(selector.ConversationHeader))

	for i := 0; i < 3; i++ {
		var result string
		js := fmt.Sprintf(clickHeaderJS, headerList, i)
		if err := s.evaluate(ctx, js, &result); err != nil {
			return fmt.Errorf("click header: %w", err)
		}
		if result == "no-header" || result == "exhausted" {
			return ErrPanelNotFound
		}

		err := s.waitAny(ctx, selector.GroupInfoDrawer, s.cfg.PanelTimeout)
		if err == nil {
			return nil
		}
		if !errors.Is(err, chromedp.ErrPollingTimeout) {
			return fmt.Errorf("wait for drawer: %w", err)
		}
		slog.Debug("drawer did not appear, trying next click target", "attempt", i)
	}
	return ErrPanelNotFound
}

// awaitParticipants waits for the participants section and drains its
// lazy-loaded list. When the section never appears within the timeout,
// the drawer is still accepted if participant cells already exist in
// the DOM; the section is then re-checked and drained anyway, since it
// can materialize after its first cells do.
func (s *Session) awaitParticipants(ctx context.Context) error {
	err := s.waitAny(ctx, selector.ParticipantsSection, s.cfg.ParticipantsTimeout)
	if err != nil {
		if !errors.Is(err, chromedp.ErrPollingTimeout) {
			return fmt.Errorf("wait for participants: %w", err)
		}
		var n int
		js := fmt.Sprintf(countCellsJS, jsList(s.table.List(selector.ParticipantCell)))
		if cerr := s.evaluate(ctx, js, &n); cerr != nil {
			return fmt.Errorf("count participant cells: %w", cerr)
		}
		if n == 0 {
			return ErrNoParticipants
		}
	}
	return s.drainScroll(ctx)
}

// drainScroll repeatedly jumps the participants container to its bottom
// and waits a settle interval, re-reading the content height until it
// stabilizes for ScrollStableRounds consecutive rounds or
// ScrollMaxAttempts passes. This forces virtualized lists to
// materialize every participant. A missing container is a no-op.
func (s *Session) drainScroll(ctx context.Context) error {
	sectionList := jsList(s.table.List(selector.ParticipantsSection))
	heightJS := fmt.Sprintf(sectionHeightJS, sectionList)
	scrollJS := fmt.Sprintf(sectionScrollJS, sectionList)

	var cur int
	if err := s.evaluate(ctx, heightJS, &cur); err != nil {
		return fmt.Errorf("read list height: %w", err)
	}
	if cur < 0 {
		return nil
	}

	stable := 0
	for attempt := 0; attempt < s.cfg.ScrollMaxAttempts; attempt++ {
		last := cur
		if err := s.evaluate(ctx, scrollJS, nil); err != nil {
			return fmt.Errorf("drain participant list: %w", err)
		}
		if err := sleepCtx(ctx, s.cfg.ScrollSettle); err != nil {
			return err
		}
		if err := s.evaluate(ctx, heightJS, &cur); err != nil {
			return fmt.Errorf("drain participant list: %w", err)
		}
		if cur == last {
			stable++
			if stable >= s.cfg.ScrollStableRounds {
				break
			}
		} else {
			stable = 0
		}
	}
	return nil
}

// closePanel dismisses the drawer via its close button, falling back to
// a synthetic Escape keydown when no button resolves. Best-effort: a
// stuck-open drawer is a cosmetic failure, not an operational one.
func (s *Session) closePanel(ctx context.Context) {
	var how string
	js := fmt.Sprintf(closePanelJS, jsList(s.table.List(selector.CloseButton)))
	if err := s.evaluate(ctx, js, &how); err != nil {
		slog.Warn("close panel", "err", err)
		return
	}
	if how == "escape" {
		slog.Debug("panel dismissed via synthetic escape")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
