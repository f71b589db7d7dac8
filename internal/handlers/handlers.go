// Package handlers provides the HTTP surface of the exporter: the
// status/export/scan/download protocol plus the preview and selection
// flow over cached scans.
package handlers

import (
	"net/http"
	"time"

	"github.com/chromedp/cdproto/target"

	"github.com/mosesoghene/whats-app-group-export/internal/config"
	"github.com/mosesoghene/whats-app-group-export/internal/session"
	"github.com/mosesoghene/whats-app-group-export/internal/web"
)

// TargetLister reports the open browser page targets. Health checks use
// it to tell a dead CDP connection from a live one with no tabs.
type TargetLister interface {
	Targets() ([]*target.Info, error)
}

type Handlers struct {
	Session session.API
	Browser TargetLister
	Config  *config.RuntimeConfig
	started time.Time
}

func New(s session.API, b TargetLister, cfg *config.RuntimeConfig) *Handlers {
	return &Handlers{
		Session: s,
		Browser: b,
		Config:  cfg,
		started: time.Now(),
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux, doShutdown func()) {
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /metrics", h.HandleMetrics)
	mux.HandleFunc("GET /status", h.HandleStatus)
	mux.HandleFunc("POST /scan", h.HandleScan)
	mux.HandleFunc("GET /contacts", h.HandleContacts)
	mux.HandleFunc("POST /export", h.HandleExport)
	mux.HandleFunc("POST /export/selected", h.HandleExportSelected)
	mux.HandleFunc("POST /download", h.HandleDownload)
	mux.HandleFunc("GET /help", h.HandleHelp)

	if doShutdown != nil {
		mux.HandleFunc("POST /shutdown", h.HandleShutdown(doShutdown))
	}
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":   "ok",
		"uptimeMs": time.Since(h.started).Milliseconds(),
		"cdp":      h.Config.CdpURL,
	}
	if h.Browser != nil {
		targets, err := h.Browser.Targets()
		if err != nil {
			resp["status"] = "disconnected"
			resp["error"] = err.Error()
		} else {
			resp["tabs"] = len(targets)
		}
	}
	web.JSON(w, 200, resp)
}

func (h *Handlers) HandleHelp(w http.ResponseWriter, r *http.Request) {
	web.JSON(w, 200, map[string]any{
		"endpoints": map[string]string{
			"GET /health":           "server liveness and CDP tab count",
			"GET /metrics":          "runtime request metrics",
			"GET /status":           "group detection for the open conversation",
			"POST /scan":            "extract all participants and cache them",
			"GET /contacts":         "filtered view of the cached scan",
			"POST /export":          "one-shot export of the open group",
			"POST /export/selected": "export a selected subset of the cached scan",
			"POST /download":        "write a payload into the output directory",
		},
	})
}

func (h *Handlers) HandleShutdown(doShutdown func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		web.JSON(w, 200, map[string]string{"status": "shutting down"})
		go doShutdown()
	}
}
