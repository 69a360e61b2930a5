package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/studyhub/internal/events"
	"github.com/ziadkadry99/studyhub/internal/filter"
	"github.com/ziadkadry99/studyhub/internal/navigator"
	"github.com/ziadkadry99/studyhub/internal/session"
)

type navAction func(nav *navigator.Navigator, r *http.Request) (navigator.State, error)

func selectAt(level navigator.Level) navAction {
	return func(nav *navigator.Navigator, r *http.Request) (navigator.State, error) {
		return nav.Select(level, chi.URLParam(r, "id"))
	}
}

func goBack(nav *navigator.Navigator, r *http.Request) (navigator.State, error) {
	level, err := navigator.ParseLevel(chi.URLParam(r, "level"))
	if err != nil {
		return nav.State(), err
	}
	return nav.GoBack(level)
}

func goHome(nav *navigator.Navigator, _ *http.Request) (navigator.State, error) {
	return nav.ShowCourses(), nil
}

var navRoutes = []struct {
	pattern string
	action  navAction
}{
	{"/course/{id}", selectAt(navigator.LevelCourse)},
	{"/branch/{id}", selectAt(navigator.LevelBranch)},
	{"/semester/{id}", selectAt(navigator.LevelSemester)},
	{"/subject/{id}", selectAt(navigator.LevelSubject)},
	{"/back/{level}", goBack},
	{"/home", goHome},
}

// navStatus maps a navigation error to an HTTP status.
func navStatus(err error) int {
	switch {
	case errors.Is(err, navigator.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, navigator.ErrNoParent), errors.Is(err, navigator.ErrWrongLevel):
		return http.StatusConflict
	case errors.Is(err, navigator.ErrUnknownLevel):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func navMessage(err error) string {
	switch {
	case errors.Is(err, navigator.ErrNotFound):
		return "That item is no longer available."
	case errors.Is(err, navigator.ErrWrongLevel):
		return "Filters apply to resources only."
	default:
		return "Could not open that page."
	}
}

// formNav runs a transition from a form post and redirects to the page. A
// failed transition leaves the view unchanged and shows a toast.
func (h *Handler) formNav(action navAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := action(h.navigator(r), r); err != nil {
			h.toast(r, events.KindWarning, navMessage(err))
		}
		redirectHome(w, r)
	}
}

// jsonNav runs a transition and answers with the new view.
func (h *Handler) jsonNav(action navAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := action(h.navigator(r), r); err != nil {
			writeError(w, navStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, h.view(r.Context(), session.FromRequest(r)))
	}
}

func (h *Handler) applyFilters(r *http.Request, typ, language string) error {
	_, err := h.navigator(r).SetFilters(func(f *filter.Filters) {
		if typ != "" {
			f.Type = typ
		}
		if language != "" {
			f.Language = language
		}
	})
	return err
}

func (h *Handler) handleFilterForm(w http.ResponseWriter, r *http.Request) {
	if err := h.applyFilters(r, r.PostFormValue("type"), r.PostFormValue("language")); err != nil {
		h.toast(r, events.KindWarning, navMessage(err))
	}
	redirectHome(w, r)
}

type filterRequest struct {
	Type     string `json:"type"`
	Language string `json:"language"`
}

func (h *Handler) handleFilterJSON(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.applyFilters(r, req.Type, req.Language); err != nil {
		writeError(w, navStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.view(r.Context(), session.FromRequest(r)))
}
