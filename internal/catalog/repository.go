package catalog

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Fetcher loads a complete set of tables.
type Fetcher interface {
	FetchAll(ctx context.Context) (*Tables, error)
}

// Repository owns the loaded tables for the lifetime of the process and
// signals when the initial load has finished.
type Repository struct {
	mu        sync.RWMutex
	tables    *Tables
	err       error
	ready     chan struct{}
	readyOnce sync.Once

	// downloads counts tracked downloads per resource since start-up. The
	// counts are never written back to the sheet.
	downloads map[string]int
}

// NewRepository returns an empty repository that is not yet ready.
func NewRepository() *Repository {
	return &Repository{
		tables:    &Tables{},
		ready:     make(chan struct{}),
		downloads: make(map[string]int),
	}
}

// Load fetches the tables and marks the repository ready. On failure the
// tables stay empty and Err reports the cause.
func (r *Repository) Load(ctx context.Context, f Fetcher) error {
	t, err := f.FetchAll(ctx)
	if err != nil {
		r.Fail(err)
		return err
	}
	r.Set(t)
	return nil
}

// Set installs a loaded snapshot and marks the repository ready.
func (r *Repository) Set(t *Tables) {
	if t == nil {
		t = &Tables{}
	}
	r.mu.Lock()
	r.tables = t
	r.err = nil
	r.mu.Unlock()
	r.markReady()
}

// Fail records a load failure and marks the repository ready; waiters see the
// error instead of blocking.
func (r *Repository) Fail(err error) {
	r.mu.Lock()
	r.tables = &Tables{}
	r.err = err
	r.mu.Unlock()
	r.markReady()
}

func (r *Repository) markReady() {
	r.readyOnce.Do(func() { close(r.ready) })
}

// Ready is closed once the initial load has succeeded or failed.
func (r *Repository) Ready() <-chan struct{} { return r.ready }

// Tables returns the current snapshot. It is never nil.
func (r *Repository) Tables() *Tables {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tables
}

// Err returns the load failure, if any.
func (r *Repository) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// HasData reports whether at least one course is loaded.
func (r *Repository) HasData() bool {
	return len(r.Tables().Courses) > 0
}

// WaitForData blocks until the load finished with at least one course, the
// budget elapses (ErrNotReady) or ctx ends. A failed load returns its error;
// a successful load without courses returns ErrNoData.
func (r *Repository) WaitForData(ctx context.Context, budget time.Duration) error {
	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case <-r.ready:
	case <-timer.C:
		return ErrNotReady
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := r.Err(); err != nil {
		return err
	}
	if !r.HasData() {
		return ErrNoData
	}
	return nil
}

func downloadKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// TrackDownload bumps the in-memory download counter of a resource and
// returns the new total including the sheet's own count.
func (r *Repository) TrackDownload(id string) (int, bool) {
	res, ok := r.Tables().Resource(id)
	if !ok {
		return 0, false
	}
	r.mu.Lock()
	r.downloads[downloadKey(res.ID)]++
	n := res.Downloads + r.downloads[downloadKey(res.ID)]
	r.mu.Unlock()
	return n, true
}

// DownloadCount returns the sheet count plus downloads tracked since start-up.
func (r *Repository) DownloadCount(res Resource) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return res.Downloads + r.downloads[downloadKey(res.ID)]
}
