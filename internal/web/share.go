package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/navigator"
	"github.com/ziadkadry99/studyhub/internal/session"
	"github.com/ziadkadry99/studyhub/internal/share"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// decodeJSON decodes the request body into v. An empty body leaves v as is.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ShareInfo is everything the share dialog shows.
type ShareInfo struct {
	URL     string         `json:"url"`
	Text    string         `json:"text"`
	View    share.View     `json:"view"`
	Link    share.Link     `json:"link"`
	Targets []share.Target `json:"targets"`
}

// shareView resolves what is being shared. Without a type it is the deepest
// selected level; a resource is described by its own title.
func (h *Handler) shareView(st navigator.State, typ, id string) share.View {
	if typ == "" {
		return share.CurrentView(st)
	}
	v := share.View{Type: typ, ID: id}
	if typ == string(navigator.LevelResource) {
		v.Title, v.Description = "Resource", "Check out this study resource!"
		if res, ok := h.Catalog.Tables().Resource(id); ok {
			v.ID = res.ID
			if res.Title != "" {
				v.Title = res.Title
			}
			if res.Description != "" {
				v.Description = res.Description
			}
		}
		return v
	}
	cur := share.CurrentView(st)
	v.Title, v.Description = cur.Title, cur.Description
	return v
}

func (h *Handler) handleShareInfo(w http.ResponseWriter, r *http.Request) {
	st := h.navigator(r).State()
	q := r.URL.Query()
	v := h.shareView(st, q.Get("type"), q.Get("id"))

	link := share.FromState(st, v.Type, v.ID)
	u := link.URL(h.BaseURL)
	writeJSON(w, http.StatusOK, ShareInfo{
		URL:     u,
		Text:    share.ShareText(v.Title, v.Description),
		View:    v,
		Link:    link,
		Targets: share.Targets(u, v.Title, v.Description),
	})
}

type replayRequest struct {
	Fragment string `json:"fragment"`
}

// handleReplay replays a share fragment forwarded by the page script. A
// fragment without the share route is ignored.
func (h *Handler) handleReplay(w http.ResponseWriter, r *http.Request) {
	var req replayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	visitor := session.FromRequest(r)
	link, ok := share.Parse(req.Fragment)
	if !ok {
		writeJSON(w, http.StatusOK, share.Result{Level: h.Sessions.Navigator(visitor).State().Level})
		return
	}

	res := h.Replayer.Replay(r.Context(), visitor, link)
	if res.Err != nil {
		h.logger.Info("share replay incomplete", zap.String("visitor", visitor), zap.Error(res.Err))
	}
	writeJSON(w, http.StatusOK, res)
}

// handleShareRedirect replays a share link opened as a path and sends the
// visitor to the page.
func (h *Handler) handleShareRedirect(w http.ResponseWriter, r *http.Request) {
	visitor := session.FromRequest(r)
	res := h.Replayer.Replay(r.Context(), visitor, share.FromValues(r.URL.Query()))
	if res.Err != nil {
		h.logger.Info("share replay incomplete", zap.String("visitor", visitor), zap.Error(res.Err))
	}
	redirectHome(w, r)
}
