package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ziadkadry99/studyhub/internal/config"
)

// sheetFixtures mirrors the shape of the opensheet API: string cells, plus a
// few numeric ones to exercise normalisation.
var sheetFixtures = map[string]string{
	"Courses": `[{"ID":"1","CourseName":"BTech","Description":"Engineering","Icon":"fas fa-cogs"},
		{"ID":2,"CourseName":"BCA","Description":"Computer applications"}]`,
	"Branches":     `[{"ID":"10","CourseID":"1","BranchName":"CS","Description":"Computer Science","University":"AKTU"}]`,
	"Semesters":    `[{"ID":"100","BranchID":"10","SemesterNumber":"1","SemesterName":"First"}]`,
	"Subjects":     `[{"ID":"SUB3","SemesterID":"100","SubjectCode":"KCS101","SubjectName":"Programming","Credits":"4"}]`,
	"Resources":    `[{"ID":"r1","SubjectID":"sub3","ResourceType":"PDF","Title":"Unit 1","Link":"https://x/1.pdf","Downloads":"7"},{"ID":"r2","SubjectID":"SUB3","ResourceType":"Video","Title":"Lecture","Language":"Hindi","Downloads":null}]`,
	"Universities": `[{"ID":"u1","UniversityName":"AKTU"}]`,
}

func newSheetServer(t *testing.T, override map[string]http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 || parts[0] != "sheet-1" {
			http.NotFound(w, r)
			return
		}
		if h, ok := override[parts[1]]; ok {
			h(w, r)
			return
		}
		body, ok := sheetFixtures[parts[1]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchAll(t *testing.T) {
	srv, hits := newSheetServer(t, nil)
	g := NewGateway(srv.URL+"/", "sheet-1", config.DefaultSheets)

	tables, err := g.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if hits.Load() != 6 {
		t.Errorf("expected 6 requests, got %d", hits.Load())
	}

	want := Counts{Courses: 2, Branches: 1, Semesters: 1, Subjects: 1, Resources: 2, Universities: 1}
	if got := tables.Counts(); got != want {
		t.Errorf("counts = %+v, want %+v", got, want)
	}

	if tables.Courses[1].ID != "2" {
		t.Errorf("numeric id not normalised: %q", tables.Courses[1].ID)
	}
	if tables.Courses[0].Icon != "fas fa-cogs" {
		t.Errorf("icon = %q", tables.Courses[0].Icon)
	}
	if tables.Resources[0].Downloads != 7 {
		t.Errorf("downloads = %d, want 7", tables.Resources[0].Downloads)
	}
	if tables.Resources[1].Downloads != 0 {
		t.Errorf("null downloads should be 0, got %d", tables.Resources[1].Downloads)
	}
	if tables.Universities[0].Name != "AKTU" {
		t.Errorf("university name = %q", tables.Universities[0].Name)
	}
}

func TestFetchAllOneFailureFailsAll(t *testing.T) {
	srv, _ := newSheetServer(t, map[string]http.HandlerFunc{
		"Semesters": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	g := NewGateway(srv.URL, "sheet-1", config.DefaultSheets)

	tables, err := g.FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if tables != nil {
		t.Error("expected no partial tables")
	}
	if !errors.Is(err, ErrDataLoad) {
		t.Errorf("expected ErrDataLoad, got %v", err)
	}
	var se *SheetError
	if !errors.As(err, &se) {
		t.Fatalf("expected SheetError, got %T", err)
	}
	if se.Sheet != "Semesters" || se.Status != http.StatusInternalServerError {
		t.Errorf("unexpected sheet error: %+v", se)
	}
}

func TestFetchAllMalformedJSON(t *testing.T) {
	srv, _ := newSheetServer(t, map[string]http.HandlerFunc{
		"Resources": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"not an array"`))
		},
	})
	g := NewGateway(srv.URL, "sheet-1", config.DefaultSheets)

	if _, err := g.FetchAll(context.Background()); !errors.Is(err, ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
}

func TestSheetURL(t *testing.T) {
	g := NewGateway("https://opensheet.elk.sh/", "abc", config.DefaultSheets)
	if got := g.SheetURL("My Sheet"); got != "https://opensheet.elk.sh/abc/My%20Sheet" {
		t.Errorf("SheetURL = %q", got)
	}
}

func testTables() *Tables {
	return &Tables{
		Courses:   []Course{{ID: "1", Name: "BTech"}, {ID: "2", Name: "BCA"}},
		Branches:  []Branch{{ID: "10", CourseID: "1", Name: "CS"}, {ID: "11", CourseID: "1", Name: "ECE"}, {ID: "12", CourseID: "99", Name: "Orphan"}},
		Semesters: []Semester{{ID: "100", BranchID: "10", Number: "1"}},
		Subjects:  []Subject{{ID: "SUB3", SemesterID: "100", Name: "Programming"}},
		Resources: []Resource{{ID: "r1", SubjectID: "SUB3", Type: TypePDF, Downloads: 3}},
	}
}

func TestLookups(t *testing.T) {
	tables := testTables()

	if c, ok := tables.Course(" 1 "); !ok || c.Name != "BTech" {
		t.Errorf("Course(1) = %+v, %v", c, ok)
	}
	if _, ok := tables.Course("404"); ok {
		t.Error("expected miss for unknown course")
	}
	if _, ok := tables.Course(""); ok {
		t.Error("empty id must never match")
	}
	if s, ok := tables.Subject("sub3"); !ok || s.Name != "Programming" {
		t.Errorf("case-insensitive subject lookup failed: %+v, %v", s, ok)
	}

	branches := tables.BranchesOf("1")
	if len(branches) != 2 || branches[0].Name != "CS" || branches[1].Name != "ECE" {
		t.Errorf("BranchesOf(1) = %+v", branches)
	}
	if got := tables.BranchesOf("2"); len(got) != 0 {
		t.Errorf("expected no branches for course 2, got %+v", got)
	}
	if got := tables.SemestersOf("11"); got != nil {
		t.Errorf("expected nil semesters, got %+v", got)
	}
}

func TestRepositoryWaitForData(t *testing.T) {
	repo := NewRepository()

	if err := repo.WaitForData(context.Background(), 20*time.Millisecond); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady before load, got %v", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		repo.Set(testTables())
	}()
	if err := repo.WaitForData(context.Background(), time.Second); err != nil {
		t.Fatalf("WaitForData: %v", err)
	}
	if !repo.HasData() {
		t.Error("expected data")
	}
}

func TestRepositoryFailedLoad(t *testing.T) {
	repo := NewRepository()
	repo.Fail(ErrDataLoad)

	if err := repo.WaitForData(context.Background(), time.Second); !errors.Is(err, ErrDataLoad) {
		t.Fatalf("expected ErrDataLoad, got %v", err)
	}
	if len(repo.Tables().Courses) != 0 {
		t.Error("failed load must leave tables empty")
	}
}

func TestRepositoryNoCourses(t *testing.T) {
	repo := NewRepository()
	repo.Set(&Tables{})
	if err := repo.WaitForData(context.Background(), time.Second); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestTrackDownload(t *testing.T) {
	repo := NewRepository()
	repo.Set(testTables())

	n, ok := repo.TrackDownload("R1")
	if !ok || n != 4 {
		t.Fatalf("TrackDownload = %d, %v; want 4, true", n, ok)
	}
	repo.TrackDownload("r1")
	res, _ := repo.Tables().Resource("r1")
	if got := repo.DownloadCount(res); got != 5 {
		t.Errorf("DownloadCount = %d, want 5", got)
	}
	if _, ok := repo.TrackDownload("missing"); ok {
		t.Error("expected miss for unknown resource")
	}
}

type fakeFetcher struct {
	tables *Tables
	err    error
}

func (f fakeFetcher) FetchAll(context.Context) (*Tables, error) { return f.tables, f.err }

func TestRepositoryLoad(t *testing.T) {
	repo := NewRepository()
	if err := repo.Load(context.Background(), fakeFetcher{tables: testTables()}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	select {
	case <-repo.Ready():
	default:
		t.Fatal("expected ready after load")
	}

	failed := NewRepository()
	if err := failed.Load(context.Background(), fakeFetcher{err: ErrDataLoad}); err == nil {
		t.Fatal("expected load error")
	}
	if !errors.Is(failed.Err(), ErrDataLoad) {
		t.Errorf("Err() = %v", failed.Err())
	}
}
