package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/mosesoghene/whats-app-group-export/internal/export"
	"github.com/mosesoghene/whats-app-group-export/internal/session"
	"github.com/mosesoghene/whats-app-group-export/internal/web"
)

const maxBodySize = 1 << 20

// failStatus maps the extraction error taxonomy to HTTP status codes.
// Every failure still carries the {success:false, error} envelope so
// protocol clients need not inspect the status line.
func failStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrPanelNotFound),
		errors.Is(err, session.ErrNoParticipants),
		errors.Is(err, session.ErrNoContacts),
		errors.Is(err, session.ErrNoScan):
		return 404
	default:
		return 502
	}
}

func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Session.CheckStatus(r.Context())
	if err != nil {
		web.Fail(w, failStatus(err), err)
		return
	}
	web.JSON(w, 200, st)
}

func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IncludeAdminsOnly bool   `json:"includeAdminsOnly"`
		ValidatePhones    bool   `json:"validatePhones"`
		RemoveDuplicates  bool   `json:"removeDuplicates"`
		Format            string `json:"format"`
		Save              bool   `json:"save"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		web.Fail(w, 400, fmt.Errorf("decode: %w", err))
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		web.Fail(w, 400, err)
		return
	}

	res, err := h.Session.Export(r.Context(), session.ExportOptions{
		AdminsOnly:       req.IncludeAdminsOnly,
		ValidatePhones:   req.ValidatePhones,
		RemoveDuplicates: req.RemoveDuplicates,
		Format:           format,
	})
	if err != nil {
		web.Fail(w, failStatus(err), err)
		return
	}

	resp := map[string]any{
		"success":  true,
		"data":     string(res.Data),
		"filename": res.Filename,
		"count":    res.Count,
		"mimeType": res.Format.MIME(),
	}

	if req.Save {
		path, err := h.saveExport(res)
		if err != nil {
			web.Fail(w, 500, err)
			return
		}
		resp["path"] = path
	}

	web.JSON(w, 200, resp)
}

func (h *Handlers) HandleExportSelected(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names             []string `json:"names"`
		IncludeAdminsOnly bool     `json:"includeAdminsOnly"`
		ValidatePhones    bool     `json:"validatePhones"`
		RemoveDuplicates  bool     `json:"removeDuplicates"`
		Format            string   `json:"format"`
		Save              bool     `json:"save"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		web.Fail(w, 400, fmt.Errorf("decode: %w", err))
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		web.Fail(w, 400, err)
		return
	}

	res, err := h.Session.ExportCached(req.Names, previewOptions(req.IncludeAdminsOnly, req.ValidatePhones, req.RemoveDuplicates), format)
	if err != nil {
		web.Fail(w, failStatus(err), err)
		return
	}

	resp := map[string]any{
		"success":  true,
		"data":     string(res.Data),
		"filename": res.Filename,
		"count":    res.Count,
		"mimeType": res.Format.MIME(),
	}

	if req.Save {
		path, err := h.saveExport(res)
		if err != nil {
			web.Fail(w, 500, err)
			return
		}
		resp["path"] = path
	}

	web.JSON(w, 200, resp)
}

// saveExport persists a rendered export under the output directory.
func (h *Handlers) saveExport(res *session.ExportResult) (string, error) {
	path, err := web.SafePath(h.Config.OutputDir, res.Filename)
	if err != nil {
		return "", fmt.Errorf("invalid filename: %w", err)
	}
	if err := os.MkdirAll(h.Config.OutputDir, 0750); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, res.Data, 0600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
