package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ziadkadry99/studyhub/internal/search"
)

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	if h.Index == nil {
		writeError(w, http.StatusNotFound, "search is disabled")
		return
	}

	q := r.URL.Query()
	query := search.Query{
		Text:      q.Get("q"),
		SubjectID: q.Get("subject"),
		Type:      q.Get("type"),
		Language:  q.Get("language"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			query.Limit = n
		}
	}

	hits, err := h.Index.Search(r.Context(), query)
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, search.ErrNotIndexed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, hits)
	}
}
