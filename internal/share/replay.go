package share

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/config"
	"github.com/ziadkadry99/studyhub/internal/events"
	"github.com/ziadkadry99/studyhub/internal/logging"
	"github.com/ziadkadry99/studyhub/internal/navigator"
)

// ErrReplayTimeout is reported when the catalog did not become ready within
// the replay's wait budget.
var ErrReplayTimeout = errors.New("share replay timed out waiting for data")

// DataSource is the catalog a replay waits on and reads from.
type DataSource interface {
	WaitForData(ctx context.Context, budget time.Duration) error
	Tables() *catalog.Tables
}

// NavigatorFunc returns the navigator of a visitor.
type NavigatorFunc func(visitor string) *navigator.Navigator

// Step is one selection attempted during a replay.
type Step struct {
	Level   navigator.Level `json:"level"`
	ID      string          `json:"id"`
	Applied bool            `json:"applied"`
	Skipped bool            `json:"skipped,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Result reports what a replay did. Replay failures are never surfaced to
// the visitor; Err is only for logs and tests.
type Result struct {
	Steps     []Step          `json:"steps"`
	Level     navigator.Level `json:"level"`
	Highlight string          `json:"highlight,omitempty"`
	StripURL  bool            `json:"strip_url"`
	Err       error           `json:"-"`
}

// Option configures a Replayer.
type Option func(*Replayer)

// WithConfig applies the wait budget and highlight duration from c.
func WithConfig(c config.ReplayConfig) Option {
	return func(r *Replayer) {
		r.wait = c.WaitBudget()
		r.highlightFor = c.HighlightDuration()
	}
}

// WithWait sets how long a replay waits for the catalog.
func WithWait(d time.Duration) Option {
	return func(r *Replayer) { r.wait = d }
}

// WithHighlightDuration sets how long a highlighted item stays marked.
func WithHighlightDuration(d time.Duration) Option {
	return func(r *Replayer) { r.highlightFor = d }
}

// WithPublisher sends highlight and navigation events to p.
func WithPublisher(p events.Publisher) Option {
	return func(r *Replayer) { r.pub = p }
}

// WithLogger sets the replay logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Replayer) { r.logger = logging.OrNop(l) }
}

type run struct {
	seq    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

type visitorState struct {
	run       *run
	highlight string
	hseq      uint64
	timer     *time.Timer
}

// Replayer replays share links. At most one replay runs per visitor: a new
// replay cancels the previous one and waits for it to stop before touching
// the navigator.
type Replayer struct {
	data         DataSource
	navs         NavigatorFunc
	pub          events.Publisher
	logger       *zap.Logger
	wait         time.Duration
	highlightFor time.Duration

	mu       sync.Mutex
	seq      uint64
	visitors map[string]*visitorState
	closed   bool
}

// NewReplayer creates a Replayer with the default replay settings.
func NewReplayer(data DataSource, navs NavigatorFunc, opts ...Option) *Replayer {
	def := config.DefaultConfig().Replay
	r := &Replayer{
		data:         data,
		navs:         navs,
		logger:       zap.NewNop(),
		wait:         def.WaitBudget(),
		highlightFor: def.HighlightDuration(),
		visitors:     make(map[string]*visitorState),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Replay drives the visitor's navigator along link: course, branch,
// semester, subject, each step only after the previous one succeeded. A
// lookup miss stops the chain. When link asks for a highlight and its id is
// rendered at the final level, that item is highlighted for a while.
func (r *Replayer) Replay(ctx context.Context, visitor string, link Link) Result {
	nav := r.navs(visitor)
	res := Result{StripURL: true, Level: nav.State().Level}
	if !link.HasPath() {
		r.logger.Debug("share link without a path", zap.String("visitor", visitor))
		return res
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cur, prev := r.begin(visitor, cancel)
	defer r.finish(visitor, cur)
	if prev != nil {
		<-prev.done
	}
	// A link that fails part way leaves the visitor at the course view.
	res.Level = nav.ShowCourses().Level

	if err := r.data.WaitForData(ctx, r.wait); err != nil {
		if errors.Is(err, catalog.ErrNotReady) {
			err = fmt.Errorf("%w: %w", ErrReplayTimeout, err)
		}
		r.abandon(visitor, err)
		res.Err = err
		return res
	}

	res.Steps = steps(link)
	failed := false
	for i := range res.Steps {
		s := &res.Steps[i]
		if failed {
			s.Skipped = true
			continue
		}
		if err := ctx.Err(); err != nil {
			r.abandon(visitor, err)
			res.Err = err
			s.Skipped = true
			failed = true
			continue
		}
		if _, err := nav.Select(s.Level, s.ID); err != nil {
			r.logger.Warn("share replay step failed",
				zap.String("visitor", visitor),
				zap.String("level", string(s.Level)),
				zap.String("id", s.ID),
				zap.Error(err))
			s.Error = err.Error()
			failed = true
			continue
		}
		s.Applied = true
	}

	st := nav.State()
	res.Level = st.Level
	if link.Highlight && link.ID != "" && ctx.Err() == nil {
		for _, id := range navigator.VisibleIDs(r.data.Tables(), st) {
			if catalog.SameID(id, link.ID) {
				if r.startHighlight(visitor, cur, id, st.Level) {
					res.Highlight = id
				}
				break
			}
		}
	}
	r.publish(visitor, events.Event{Type: events.TypeNavigate, Level: string(st.Level)})
	return res
}

func steps(link Link) []Step {
	all := []Step{
		{Level: navigator.LevelCourse, ID: link.Course},
		{Level: navigator.LevelBranch, ID: link.Branch},
		{Level: navigator.LevelSemester, ID: link.Semester},
		{Level: navigator.LevelSubject, ID: link.Subject},
	}
	out := all[:0]
	for _, s := range all {
		if s.ID != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *Replayer) abandon(visitor string, err error) {
	if errors.Is(err, context.Canceled) {
		r.logger.Debug("share replay superseded", zap.String("visitor", visitor))
		return
	}
	r.logger.Warn("share replay abandoned", zap.String("visitor", visitor), zap.Error(err))
}

// begin registers a new run for visitor, cancels the previous one and drops
// any highlight it left behind.
func (r *Replayer) begin(visitor string, cancel context.CancelFunc) (cur, prev *run) {
	r.mu.Lock()
	vs := r.stateLocked(visitor)
	r.seq++
	cur = &run{seq: r.seq, cancel: cancel, done: make(chan struct{})}
	prev = vs.run
	vs.run = cur
	if prev != nil {
		prev.cancel()
	}
	cleared := r.clearHighlightLocked(vs)
	r.mu.Unlock()

	if cleared != "" {
		r.publish(visitor, events.Event{Type: events.TypeHighlightClear, ID: cleared})
	}
	return cur, prev
}

func (r *Replayer) finish(visitor string, cur *run) {
	close(cur.done)
	r.mu.Lock()
	defer r.mu.Unlock()
	if vs, ok := r.visitors[visitor]; ok && vs.run == cur {
		vs.run = nil
	}
}

func (r *Replayer) stateLocked(visitor string) *visitorState {
	vs, ok := r.visitors[visitor]
	if !ok {
		vs = &visitorState{}
		r.visitors[visitor] = vs
	}
	return vs
}

func (r *Replayer) clearHighlightLocked(vs *visitorState) string {
	if vs.timer != nil {
		vs.timer.Stop()
		vs.timer = nil
	}
	id := vs.highlight
	vs.highlight = ""
	return id
}

// startHighlight marks id for the visitor and schedules its removal. It
// does nothing when cur has been superseded.
func (r *Replayer) startHighlight(visitor string, cur *run, id string, level navigator.Level) bool {
	r.mu.Lock()
	vs, ok := r.visitors[visitor]
	if r.closed || !ok || vs.run != cur {
		r.mu.Unlock()
		return false
	}
	vs.highlight = id
	vs.hseq = cur.seq
	seq := cur.seq
	vs.timer = time.AfterFunc(r.highlightFor, func() { r.expireHighlight(visitor, seq, id) })
	r.mu.Unlock()

	r.publish(visitor, events.Event{Type: events.TypeHighlight, ID: id, Level: string(level)})
	return true
}

func (r *Replayer) expireHighlight(visitor string, seq uint64, id string) {
	r.mu.Lock()
	vs, ok := r.visitors[visitor]
	if !ok || vs.hseq != seq || vs.highlight != id {
		r.mu.Unlock()
		return
	}
	vs.highlight = ""
	vs.timer = nil
	r.mu.Unlock()

	r.publish(visitor, events.Event{Type: events.TypeHighlightClear, ID: id})
}

// Highlight returns the item currently highlighted for visitor, if any.
func (r *Replayer) Highlight(visitor string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vs, ok := r.visitors[visitor]; ok {
		return vs.highlight
	}
	return ""
}

func (r *Replayer) running(visitor string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	vs, ok := r.visitors[visitor]
	return ok && vs.run != nil
}

// Forget cancels the visitor's replay and highlight and drops its state.
func (r *Replayer) Forget(visitor string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vs, ok := r.visitors[visitor]
	if !ok {
		return
	}
	if vs.run != nil {
		vs.run.cancel()
	}
	r.clearHighlightLocked(vs)
	delete(r.visitors, visitor)
}

// Close cancels every replay and pending highlight timer.
func (r *Replayer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for visitor, vs := range r.visitors {
		if vs.run != nil {
			vs.run.cancel()
		}
		r.clearHighlightLocked(vs)
		delete(r.visitors, visitor)
	}
}

func (r *Replayer) publish(visitor string, ev events.Event) {
	if r.pub != nil {
		r.pub.Publish(visitor, ev)
	}
}
