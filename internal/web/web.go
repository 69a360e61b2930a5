// Package web serves the browser: the rendered page, the form and JSON
// navigation endpoints, per-visitor data and share replay.
package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/config"
	"github.com/ziadkadry99/studyhub/internal/events"
	"github.com/ziadkadry99/studyhub/internal/logging"
	"github.com/ziadkadry99/studyhub/internal/navigator"
	"github.com/ziadkadry99/studyhub/internal/render"
	"github.com/ziadkadry99/studyhub/internal/search"
	"github.com/ziadkadry99/studyhub/internal/session"
	"github.com/ziadkadry99/studyhub/internal/share"
	"github.com/ziadkadry99/studyhub/internal/userdata"
)

// homeAnchor is where every form post lands: the page scrolled to the panel.
const homeAnchor = "/#courses"

// Deps are the components the handlers work on. Index may be nil when
// search is disabled.
type Deps struct {
	Catalog  *catalog.Repository
	Sessions *session.Manager
	Store    *userdata.Store
	Renderer *render.Renderer
	Replayer *share.Replayer
	Hub      *events.Hub
	Index    *search.Index
	Logger   *zap.Logger

	BaseURL          string
	Features         config.FeatureFlags
	AllowedLinkHosts []string
}

// Handler holds the route handlers.
type Handler struct {
	Deps
	logger *zap.Logger
}

// New creates a Handler.
func New(d Deps) *Handler {
	return &Handler{Deps: d, logger: logging.OrNop(d.Logger)}
}

// RegisterRoutes mounts the browser and API routes on r. Every route runs
// behind the visitor session middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.Middleware)

		r.Get("/", h.handlePage)
		r.Get("/share", h.handleShareRedirect)
		r.Post("/filter", h.handleFilterForm)
		r.Post("/bookmarks/{id}", h.handleBookmarkForm)
		r.Get("/download/{id}", h.handleDownload)
		r.Post("/theme", h.handleThemeForm)
		r.Get("/ws/events", h.Hub.Handler(session.FromRequest))

		r.Route("/nav", func(r chi.Router) {
			for _, route := range navRoutes {
				r.Post(route.pattern, h.formNav(route.action))
			}
		})

		r.Route("/api", func(r chi.Router) {
			r.Route("/nav", func(r chi.Router) {
				for _, route := range navRoutes {
					r.Post(route.pattern, h.jsonNav(route.action))
				}
			})
			r.Get("/view", h.handleView)
			r.Post("/filter", h.handleFilterJSON)
			r.Get("/bookmarks", h.handleListBookmarks)
			r.Post("/bookmarks/{id}", h.handleBookmarkJSON)
			r.Get("/downloads", h.handleListDownloads)
			r.Post("/theme", h.handleThemeJSON)
			r.Get("/share", h.handleShareInfo)
			r.Post("/replay", h.handleReplay)
			r.Get("/search", h.handleSearch)
		})
	})
}

func (h *Handler) navigator(r *http.Request) *navigator.Navigator {
	return h.Sessions.Navigator(session.FromRequest(r))
}

// toast sends a toast to the visitor's open pages.
func (h *Handler) toast(r *http.Request, kind, message string) {
	if h.Hub != nil {
		h.Hub.Publish(session.FromRequest(r), events.Toast(kind, message))
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, homeAnchor, http.StatusSeeOther)
}

// view builds the render view of the visitor's current state.
func (h *Handler) view(ctx context.Context, visitor string) render.View {
	in := render.Input{
		State:     h.Sessions.Navigator(visitor).State(),
		Highlight: h.Replayer.Highlight(visitor),
	}

	select {
	case <-h.Catalog.Ready():
		in.Tables = h.Catalog.Tables()
		in.Err = h.Catalog.Err()
	default:
		in.Loading = true
	}
	if h.Features.DownloadTracking {
		in.Downloads = h.Catalog.DownloadCount
	}

	if h.Store != nil {
		bookmarks, err := h.Store.BookmarkSet(ctx, visitor)
		if err != nil {
			h.logger.Error("loading bookmarks", zap.String("visitor", visitor), zap.Error(err))
		}
		in.Bookmarks = bookmarks

		theme, err := h.Store.Theme(ctx, visitor)
		if err != nil {
			h.logger.Error("loading theme", zap.String("visitor", visitor), zap.Error(err))
		}
		in.Theme = theme
	}
	return h.Renderer.Build(in)
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	v := h.view(r.Context(), session.FromRequest(r))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Renderer.Page(w, v); err != nil {
		h.logger.Error("rendering page", zap.Error(err))
	}
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view(r.Context(), session.FromRequest(r)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
