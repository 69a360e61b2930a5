package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/config"
	"github.com/ziadkadry99/studyhub/internal/db"
	"github.com/ziadkadry99/studyhub/internal/events"
	"github.com/ziadkadry99/studyhub/internal/navigator"
	"github.com/ziadkadry99/studyhub/internal/render"
	"github.com/ziadkadry99/studyhub/internal/search"
	"github.com/ziadkadry99/studyhub/internal/session"
	"github.com/ziadkadry99/studyhub/internal/share"
	"github.com/ziadkadry99/studyhub/internal/userdata"
)

func fixture() *catalog.Tables {
	return &catalog.Tables{
		Courses:   []catalog.Course{{ID: "1", Name: "BTech"}, {ID: "2", Name: "BCA"}},
		Branches:  []catalog.Branch{{ID: "10", CourseID: "1", Name: "CS"}},
		Semesters: []catalog.Semester{{ID: "100", BranchID: "10", Number: "1", Name: "First"}},
		Subjects:  []catalog.Subject{{ID: "1000", SemesterID: "100", Code: "CS101", Name: "Programming"}},
		Resources: []catalog.Resource{
			{ID: "R1", SubjectID: "1000", Type: "PDF", Title: "Notes", Link: "https://drive.google.com/file/r1", Downloads: 2},
			{ID: "R2", SubjectID: "1000", Type: "Video", Title: "Lecture", Language: "Hindi", Link: "https://evil.example/r2"},
			{ID: "R3", SubjectID: "1000", Type: "PDF", Title: "Script", Link: "javascript:alert(1)"},
		},
	}
}

type testEnv struct {
	t       *testing.T
	router  chi.Router
	repo    *catalog.Repository
	store   *userdata.Store
	cookies []*http.Cookie
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := catalog.NewRepository()
	repo.Set(fixture())

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	renderer, err := render.New(config.DefaultConfig().Features, nil)
	if err != nil {
		t.Fatal(err)
	}

	hub := events.NewHub(nil)
	sessions := session.NewManager([]byte("0123456789abcdef0123456789abcdef"), repo)
	replayer := share.NewReplayer(repo, sessions.Navigator,
		share.WithWait(time.Second),
		share.WithHighlightDuration(time.Hour),
		share.WithPublisher(hub))
	t.Cleanup(func() {
		replayer.Close()
		hub.Close()
	})

	index := search.NewIndex(search.NewHashEmbedder(64), nil)
	if err := index.Build(context.Background(), repo.Tables()); err != nil {
		t.Fatal(err)
	}

	store := userdata.NewStore(database)
	h := New(Deps{
		Catalog:          repo,
		Sessions:         sessions,
		Store:            store,
		Renderer:         renderer,
		Replayer:         replayer,
		Hub:              hub,
		Index:            index,
		BaseURL:          "https://studyhub.example/",
		Features:         config.DefaultConfig().Features,
		AllowedLinkHosts: []string{"*.google.com"},
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return &testEnv{t: t, router: r, repo: repo, store: store}
}

// do sends a request carrying the visitor cookie from earlier responses.
func (e *testEnv) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if cs := w.Result().Cookies(); len(cs) > 0 {
		e.cookies = cs
	}
	return w
}

func (e *testEnv) view() render.View {
	e.t.Helper()
	w := e.do("GET", "/api/view", "", "")
	if w.Code != http.StatusOK {
		e.t.Fatalf("GET /api/view: %d", w.Code)
	}
	var v render.View
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		e.t.Fatalf("decode view: %v", err)
	}
	return v
}

func TestPageIssuesVisitorCookie(t *testing.T) {
	env := newEnv(t)
	w := env.do("GET", "/", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if len(env.cookies) == 0 {
		t.Fatal("expected a visitor cookie")
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "BTech") {
		t.Error("page should list courses")
	}
}

func TestFormNavigation(t *testing.T) {
	env := newEnv(t)
	env.do("GET", "/", "", "")

	for _, p := range []string{"/nav/course/1", "/nav/branch/10", "/nav/semester/100"} {
		w := env.do("POST", p, "", "")
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/#courses" {
			t.Fatalf("POST %s: %d %q", p, w.Code, w.Header().Get("Location"))
		}
	}
	if v := env.view(); v.Level != navigator.LevelSubject || len(v.Cards) != 1 {
		t.Fatalf("view = %s with %d cards", v.Level, len(v.Cards))
	}

	// A miss leaves the view where it was.
	env.do("POST", "/nav/subject/nope", "", "")
	if v := env.view(); v.Level != navigator.LevelSubject {
		t.Errorf("level after miss = %s", v.Level)
	}

	env.do("POST", "/nav/back/branch", "", "")
	if v := env.view(); v.Level != navigator.LevelBranch {
		t.Errorf("level after back = %s", v.Level)
	}

	env.do("POST", "/nav/home", "", "")
	if v := env.view(); v.Level != navigator.LevelCourse || v.Breadcrumb != nil {
		t.Errorf("home view = %+v", v)
	}
}

func TestJSONNavigationStatuses(t *testing.T) {
	env := newEnv(t)

	tests := []struct {
		path string
		want int
	}{
		{"/api/nav/branch/10", http.StatusConflict},
		{"/api/nav/course/99", http.StatusNotFound},
		{"/api/nav/course/1", http.StatusOK},
		{"/api/nav/back/nowhere", http.StatusBadRequest},
		{"/api/nav/back/resource", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := env.do("POST", tt.path, "", "")
		if w.Code != tt.want {
			t.Errorf("POST %s = %d, want %d: %s", tt.path, w.Code, tt.want, w.Body.String())
		}
	}

	w := env.do("POST", "/api/filter", "application/json", `{"type":"PDF"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("filter at branch level = %d, want 409", w.Code)
	}
}

func TestFiltersAndBookmarks(t *testing.T) {
	env := newEnv(t)
	for _, p := range []string{"/api/nav/course/1", "/api/nav/branch/10", "/api/nav/semester/100", "/api/nav/subject/1000"} {
		if w := env.do("POST", p, "", ""); w.Code != http.StatusOK {
			t.Fatalf("POST %s: %d", p, w.Code)
		}
	}

	form := url.Values{"language": {"Hindi"}}.Encode()
	env.do("POST", "/filter", "application/x-www-form-urlencoded", form)
	v := env.view()
	if len(v.Resources) != 1 || v.Resources[0].Resource.ID != "R2" {
		t.Fatalf("filtered resources = %+v", v.Resources)
	}

	w := env.do("POST", "/api/bookmarks/r2", "", "")
	var toggled struct {
		ID         string `json:"id"`
		Bookmarked bool   `json:"bookmarked"`
	}
	json.Unmarshal(w.Body.Bytes(), &toggled)
	if !toggled.Bookmarked || toggled.ID != "R2" {
		t.Fatalf("toggle = %+v", toggled)
	}
	if v := env.view(); !v.Resources[0].Bookmarked {
		t.Error("resource card should show the bookmark")
	}

	var ids []string
	json.Unmarshal(env.do("GET", "/api/bookmarks", "", "").Body.Bytes(), &ids)
	if len(ids) != 1 || ids[0] != "R2" {
		t.Errorf("bookmarks = %v", ids)
	}

	env.do("POST", "/bookmarks/R2", "", "")
	json.Unmarshal(env.do("GET", "/api/bookmarks", "", "").Body.Bytes(), &ids)
	if len(ids) != 0 {
		t.Errorf("bookmarks after second toggle = %v", ids)
	}

	if w := env.do("POST", "/api/bookmarks/missing", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown bookmark = %d", w.Code)
	}
}

func TestDownload(t *testing.T) {
	env := newEnv(t)

	w := env.do("GET", "/download/R1", "", "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "https://drive.google.com/file/r1" {
		t.Fatalf("download = %d %q", w.Code, w.Header().Get("Location"))
	}
	res, _ := env.repo.Tables().Resource("R1")
	if got := env.repo.DownloadCount(res); got != 3 {
		t.Errorf("download count = %d, want 3", got)
	}

	var downloads []userdata.Download
	json.Unmarshal(env.do("GET", "/api/downloads", "", "").Body.Bytes(), &downloads)
	if len(downloads) != 1 || downloads[0].ResourceID != "R1" {
		t.Errorf("downloads = %+v", downloads)
	}

	for _, id := range []string{"R2", "R3"} {
		if w := env.do("GET", "/download/"+id, "", ""); w.Code != http.StatusForbidden {
			t.Errorf("download %s = %d, want 403", id, w.Code)
		}
	}
	if w := env.do("GET", "/download/R9", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown download = %d", w.Code)
	}
}

func TestCheckLink(t *testing.T) {
	tests := []struct {
		link    string
		allowed []string
		ok      bool
	}{
		{"https://example.com/a", nil, true},
		{"ftp://example.com/a", nil, false},
		{"/relative", nil, false},
		{"https://docs.google.com/x", []string{"*.google.com"}, true},
		{"https://DOCS.Google.com/x", []string{"*.google.com"}, true},
		{"https://google.com.evil.io/x", []string{"*.google.com"}, false},
		{"https://youtu.be/x", []string{"*.google.com", "youtu.be"}, true},
	}
	for _, tt := range tests {
		_, err := checkLink(tt.link, tt.allowed)
		if (err == nil) != tt.ok {
			t.Errorf("checkLink(%q, %v) err = %v, want ok=%v", tt.link, tt.allowed, err, tt.ok)
		}
	}
}

func TestTheme(t *testing.T) {
	env := newEnv(t)
	if v := env.view(); v.Theme != userdata.ThemeLight {
		t.Fatalf("default theme = %q", v.Theme)
	}

	env.do("POST", "/theme", "", "")
	if v := env.view(); v.Theme != userdata.ThemeDark {
		t.Errorf("theme after toggle = %q", v.Theme)
	}

	if w := env.do("POST", "/api/theme", "application/json", `{"theme":"sepia"}`); w.Code != http.StatusBadRequest {
		t.Errorf("invalid theme = %d", w.Code)
	}
	if w := env.do("POST", "/api/theme", "application/json", `{"theme":"light"}`); w.Code != http.StatusOK {
		t.Errorf("set theme = %d", w.Code)
	}
	if v := env.view(); v.Theme != userdata.ThemeLight {
		t.Errorf("theme = %q", v.Theme)
	}
}

func TestShareInfo(t *testing.T) {
	env := newEnv(t)
	env.do("POST", "/api/nav/course/1", "", "")
	env.do("POST", "/api/nav/branch/10", "", "")

	var info ShareInfo
	json.Unmarshal(env.do("GET", "/api/share", "", "").Body.Bytes(), &info)
	want := "https://studyhub.example/#/share?type=branch&id=10&course=1&branch=10&highlight=true"
	if info.URL != want {
		t.Errorf("url = %q, want %q", info.URL, want)
	}
	if info.View.Title != "CS" || len(info.Targets) != 6 {
		t.Errorf("info = %+v", info)
	}

	json.Unmarshal(env.do("GET", "/api/share?type=resource&id=R1", "", "").Body.Bytes(), &info)
	if info.View.Title != "Notes" || info.View.Description != "Check out this study resource!" {
		t.Errorf("resource view = %+v", info.View)
	}
	if !strings.Contains(info.URL, "type=resource&id=R1&course=1&branch=10") {
		t.Errorf("resource url = %q", info.URL)
	}
}

func TestReplayEndpoint(t *testing.T) {
	env := newEnv(t)

	body := `{"fragment":"#/share?type=subject&id=1000&course=1&branch=10&sem=100&subject=1000&highlight=true"}`
	w := env.do("POST", "/api/replay", "application/json", body)
	if w.Code != http.StatusOK {
		t.Fatalf("replay = %d", w.Code)
	}
	var res share.Result
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.Level != navigator.LevelResource || !res.StripURL {
		t.Errorf("result = %+v", res)
	}
	if v := env.view(); v.Level != navigator.LevelResource {
		t.Errorf("view level = %s", v.Level)
	}

	w = env.do("POST", "/api/replay", "application/json", `{"fragment":"#courses"}`)
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.StripURL {
		t.Error("a non-share fragment should not ask to strip the URL")
	}

	if w := env.do("POST", "/api/replay", "application/json", `{`); w.Code != http.StatusBadRequest {
		t.Errorf("bad body = %d", w.Code)
	}
}

func TestReplayMalformedFragmentIsStripped(t *testing.T) {
	env := newEnv(t)

	for _, fragment := range []string{"#/share?course=1;x=2", "#/share?course=%zz&branch=10"} {
		body, _ := json.Marshal(map[string]string{"fragment": fragment})
		w := env.do("POST", "/api/replay", "application/json", string(body))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: replay = %d", fragment, w.Code)
		}
		var res share.Result
		if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
			t.Fatal(err)
		}
		if !res.StripURL || res.Level != navigator.LevelCourse || len(res.Steps) != 0 {
			t.Errorf("%s: result = %+v", fragment, res)
		}
	}
}

func TestShareRedirectHighlights(t *testing.T) {
	env := newEnv(t)

	w := env.do("GET", "/share?type=resource&id=R1&course=1&branch=10&sem=100&subject=1000&highlight=true", "", "")
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/#courses" {
		t.Fatalf("share redirect = %d %q", w.Code, w.Header().Get("Location"))
	}
	v := env.view()
	if v.Level != navigator.LevelResource || len(v.Resources) == 0 || !v.Resources[0].Highlight {
		t.Errorf("expected R1 highlighted at resource level, got %+v", v)
	}
}

func TestSearchEndpoint(t *testing.T) {
	env := newEnv(t)

	var hits []search.Hit
	w := env.do("GET", "/api/search?q=lecture&language=hindi", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d", w.Code)
	}
	json.Unmarshal(w.Body.Bytes(), &hits)
	if len(hits) != 1 || hits[0].Resource.ID != "R2" {
		t.Errorf("hits = %+v", hits)
	}

	if w := env.do("GET", "/api/search", "", ""); w.Code != http.StatusBadRequest {
		t.Errorf("empty query = %d", w.Code)
	}
}
