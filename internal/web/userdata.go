package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/events"
	"github.com/ziadkadry99/studyhub/internal/session"
	"github.com/ziadkadry99/studyhub/internal/userdata"
)

var (
	errLinkNotAllowed   = errors.New("resource link not allowed")
	errResourceNotFound = errors.New("resource not found")
)

func (h *Handler) resource(r *http.Request) (catalog.Resource, bool) {
	return h.Catalog.Tables().Resource(chi.URLParam(r, "id"))
}

func (h *Handler) toggleBookmark(r *http.Request) (catalog.Resource, bool, error) {
	res, ok := h.resource(r)
	if !ok {
		return res, false, errResourceNotFound
	}
	added, err := h.Store.ToggleBookmark(r.Context(), session.FromRequest(r), res.ID)
	return res, added, err
}

func (h *Handler) handleBookmarkForm(w http.ResponseWriter, r *http.Request) {
	_, added, err := h.toggleBookmark(r)
	switch {
	case errors.Is(err, errResourceNotFound):
		h.toast(r, events.KindWarning, "That resource is no longer available.")
	case err != nil:
		h.logger.Error("toggling bookmark", zap.Error(err))
		h.toast(r, events.KindError, "Could not update your saved resources.")
	case added:
		h.toast(r, events.KindSuccess, "Saved for later")
	default:
		h.toast(r, events.KindInfo, "Removed from saved")
	}
	redirectHome(w, r)
}

func (h *Handler) handleBookmarkJSON(w http.ResponseWriter, r *http.Request) {
	res, added, err := h.toggleBookmark(r)
	if errors.Is(err, errResourceNotFound) {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	if err != nil {
		h.logger.Error("toggling bookmark", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": res.ID, "bookmarked": added})
}

func (h *Handler) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Store.Bookmarks(r.Context(), session.FromRequest(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (h *Handler) handleListDownloads(w http.ResponseWriter, r *http.Request) {
	downloads, err := h.Store.Downloads(r.Context(), session.FromRequest(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, downloads)
}

// checkLink accepts http(s) links whose host matches one of the allowed
// globs. No globs means any host.
func checkLink(link string, allowed []string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errLinkNotAllowed
	}
	if len(allowed) == 0 {
		return u, nil
	}
	host := strings.ToLower(u.Hostname())
	for _, pattern := range allowed {
		if ok, _ := doublestar.Match(strings.ToLower(pattern), host); ok {
			return u, nil
		}
	}
	return nil, errLinkNotAllowed
}

// handleDownload records the download and redirects to the resource link.
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(r)
	if !ok {
		http.Error(w, "resource not found", http.StatusNotFound)
		return
	}
	u, err := checkLink(res.Link, h.AllowedLinkHosts)
	if err != nil {
		h.logger.Warn("refusing resource link", zap.String("resource", res.ID), zap.String("link", res.Link))
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	if h.Features.DownloadTracking {
		visitor := session.FromRequest(r)
		h.Catalog.TrackDownload(res.ID)
		if _, err := h.Store.RecordDownload(r.Context(), visitor, res.ID); err != nil {
			h.logger.Error("recording download", zap.String("resource", res.ID), zap.Error(err))
		}
		h.logger.Info("resource downloaded",
			zap.String("type", res.Type), zap.String("title", res.Title), zap.String("visitor", visitor))
	}
	http.Redirect(w, r, u.String(), http.StatusFound)
}

func (h *Handler) handleThemeForm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Store.ToggleTheme(r.Context(), session.FromRequest(r)); err != nil {
		h.logger.Error("toggling theme", zap.Error(err))
	}
	redirectHome(w, r)
}

type themeRequest struct {
	Theme userdata.Theme `json:"theme"`
}

// handleThemeJSON sets the theme given in the body, or toggles it when the
// body names none.
func (h *Handler) handleThemeJSON(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	visitor := session.FromRequest(r)
	theme := req.Theme
	var err error
	if theme == "" {
		theme, err = h.Store.ToggleTheme(r.Context(), visitor)
	} else {
		err = h.Store.SetTheme(r.Context(), visitor, theme)
	}
	if errors.Is(err, userdata.ErrInvalidTheme) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]userdata.Theme{"theme": theme})
}
