package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/mosesoghene/whats-app-group-export/internal/export"
	"github.com/mosesoghene/whats-app-group-export/internal/web"
)

// HandleDownload is the download sink: it accepts an arbitrary payload
// plus a suggested filename and writes it under the output directory.
//
// POST /download {"data": "...", "base64": false, "filename": "contacts.csv"}
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data     string `json:"data"`
		Base64   bool   `json:"base64"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<20)).Decode(&req); err != nil {
		web.Fail(w, 400, fmt.Errorf("decode: %w", err))
		return
	}
	if req.Filename == "" {
		web.Fail(w, 400, fmt.Errorf("filename required"))
		return
	}
	if req.Data == "" {
		web.Fail(w, 400, fmt.Errorf("data required"))
		return
	}

	body := []byte(req.Data)
	if req.Base64 {
		decoded, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			web.Fail(w, 400, fmt.Errorf("decode base64: %w", err))
			return
		}
		body = decoded
	}

	path, err := web.SafePath(h.Config.OutputDir, req.Filename)
	if err != nil {
		web.Fail(w, 400, fmt.Errorf("invalid filename: %w", err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		web.Fail(w, 500, fmt.Errorf("create output dir: %w", err))
		return
	}
	if err := os.WriteFile(path, body, 0600); err != nil {
		web.Fail(w, 500, fmt.Errorf("write file: %w", err))
		return
	}

	web.JSON(w, 200, map[string]any{
		"success":     true,
		"downloadId":  uuid.NewString(),
		"path":        path,
		"size":        len(body),
		"contentType": contentTypeFor(req.Filename, body),
	})
}

// contentTypeFor prefers the well-known export format extensions and
// falls back to content sniffing for anything else.
func contentTypeFor(filename string, body []byte) string {
	if ext := filepath.Ext(filename); len(ext) > 1 {
		if f, err := export.ParseFormat(ext[1:]); err == nil {
			return f.MIME()
		}
	}
	return mimetype.Detect(body).String()
}
