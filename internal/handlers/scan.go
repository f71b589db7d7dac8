package handlers

import (
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/mosesoghene/whats-app-group-export/internal/contact"
	"github.com/mosesoghene/whats-app-group-export/internal/session"
	"github.com/mosesoghene/whats-app-group-export/internal/web"
)

func (h *Handlers) HandleScan(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Session.QuickScan(r.Context())
	if err != nil {
		web.Fail(w, failStatus(err), err)
		return
	}
	web.JSON(w, 200, map[string]any{
		"success":  true,
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// previewOptions builds the normalization options for the preview and
// selection flow. Both flows share the one pipeline.
func previewOptions(adminsOnly, validatePhones, removeDuplicates bool) contact.Options {
	return contact.Options{
		AdminsOnly:       adminsOnly,
		ValidatePhones:   validatePhones,
		RemoveDuplicates: removeDuplicates,
	}
}

// HandleContacts serves a filtered view of the cached scan:
// GET /contacts?adminsOnly=true&validatePhones=true&removeDuplicates=true&q=alice
// An empty cache is a missing scan, not an empty group: a scan that
// finds nobody never populates the cache.
func (h *Handlers) HandleContacts(w http.ResponseWriter, r *http.Request) {
	cached, groupName := h.Session.Cached()
	if len(cached) == 0 {
		web.Fail(w, failStatus(session.ErrNoScan), session.ErrNoScan)
		return
	}

	q := r.URL.Query()
	contacts := contact.Normalize(cached, previewOptions(
		q.Get("adminsOnly") == "true",
		q.Get("validatePhones") == "true",
		q.Get("removeDuplicates") == "true",
	))

	if search := strings.ToLower(strings.TrimSpace(q.Get("q"))); search != "" {
		contacts = lo.Filter(contacts, func(c contact.Record, _ int) bool {
			return strings.Contains(strings.ToLower(c.Name), search) ||
				strings.Contains(c.PhoneNumber, search) ||
				strings.Contains(strings.ToLower(c.Status), search)
		})
	}

	admins := lo.CountBy(contacts, func(c contact.Record) bool { return c.IsAdmin })
	withPhone := lo.CountBy(contacts, func(c contact.Record) bool { return c.PhoneNumber != "" })

	web.JSON(w, 200, map[string]any{
		"groupName": groupName,
		"contacts":  contacts,
		"count":     len(contacts),
		"stats": map[string]int{
			"total":     len(contacts),
			"admins":    admins,
			"withPhone": withPhone,
		},
	})
}
