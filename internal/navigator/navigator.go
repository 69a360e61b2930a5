// Package navigator implements the five-level drill-down: course, branch,
// semester, subject, resource. Transitions move one level forward at a time
// or back to an ancestor level; selecting a level always clears everything
// below it.
package navigator

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/studyhub/internal/catalog"
	"github.com/ziadkadry99/studyhub/internal/filter"
	"github.com/ziadkadry99/studyhub/internal/logging"
)

// Source provides the currently loaded tables.
type Source interface {
	Tables() *catalog.Tables
}

// Path is the ordered selection chain. A nil entry is unselected, and a
// non-nil entry implies all entries above it are non-nil.
type Path struct {
	Course   *catalog.Course   `json:"course,omitempty"`
	Branch   *catalog.Branch   `json:"branch,omitempty"`
	Semester *catalog.Semester `json:"semester,omitempty"`
	Subject  *catalog.Subject  `json:"subject,omitempty"`
}

func (p Path) clone() Path {
	var c Path
	if p.Course != nil {
		v := *p.Course
		c.Course = &v
	}
	if p.Branch != nil {
		v := *p.Branch
		c.Branch = &v
	}
	if p.Semester != nil {
		v := *p.Semester
		c.Semester = &v
	}
	if p.Subject != nil {
		v := *p.Subject
		c.Subject = &v
	}
	return c
}

// State is an immutable snapshot of one visitor's navigation.
type State struct {
	Level   Level          `json:"level"`
	Path    Path           `json:"path"`
	Filters filter.Filters `json:"filters"`
}

// Navigator is one visitor's navigation state machine. It is safe for
// concurrent use; every transition runs under the navigator's lock.
type Navigator struct {
	mu      sync.Mutex
	src     Source
	logger  *zap.Logger
	level   Level
	path    Path
	filters filter.Filters
}

// New returns a navigator at the course level.
func New(src Source, logger *zap.Logger) *Navigator {
	return &Navigator{
		src:     src,
		logger:  logging.OrNop(logger),
		level:   LevelCourse,
		filters: filter.Default(),
	}
}

// State returns a snapshot of the current navigation.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stateLocked()
}

func (n *Navigator) stateLocked() State {
	return State{Level: n.level, Path: n.path.clone(), Filters: n.filters}
}

// ShowCourses returns to the course level and clears the whole selection.
func (n *Navigator) ShowCourses() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.showCoursesLocked()
	return n.stateLocked()
}

func (n *Navigator) showCoursesLocked() {
	n.level = LevelCourse
	n.path = Path{}
	n.filters = filter.Default()
}

// SelectCourse selects a course and reveals its branches.
func (n *Navigator) SelectCourse(id string) (State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.selectCourseLocked(id)
	return n.stateLocked(), err
}

func (n *Navigator) selectCourseLocked(id string) error {
	c, ok := n.src.Tables().Course(id)
	if !ok {
		return n.miss(LevelCourse, id)
	}
	n.level = LevelBranch
	n.path = Path{Course: &c}
	n.filters = filter.Default()
	n.logger.Debug("course selected", zap.String("id", c.ID), zap.String("name", c.Name))
	return nil
}

// SelectBranch selects a branch of the selected course and reveals its
// semesters.
func (n *Navigator) SelectBranch(id string) (State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.selectBranchLocked(id)
	return n.stateLocked(), err
}

func (n *Navigator) selectBranchLocked(id string) error {
	if n.path.Course == nil {
		return n.noParent(LevelBranch, id)
	}
	b, ok := n.src.Tables().Branch(id)
	if !ok || !catalog.SameID(b.CourseID, n.path.Course.ID) {
		return n.miss(LevelBranch, id)
	}
	n.level = LevelSemester
	n.path.Branch = &b
	n.path.Semester = nil
	n.path.Subject = nil
	n.filters = filter.Default()
	n.logger.Debug("branch selected", zap.String("id", b.ID), zap.String("name", b.Name))
	return nil
}

// SelectSemester selects a semester of the selected branch and reveals its
// subjects.
func (n *Navigator) SelectSemester(id string) (State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.selectSemesterLocked(id)
	return n.stateLocked(), err
}

func (n *Navigator) selectSemesterLocked(id string) error {
	if n.path.Branch == nil {
		return n.noParent(LevelSemester, id)
	}
	s, ok := n.src.Tables().Semester(id)
	if !ok || !catalog.SameID(s.BranchID, n.path.Branch.ID) {
		return n.miss(LevelSemester, id)
	}
	n.level = LevelSubject
	n.path.Semester = &s
	n.path.Subject = nil
	n.filters = filter.Default()
	n.logger.Debug("semester selected", zap.String("id", s.ID), zap.String("number", s.Number))
	return nil
}

// SelectSubject selects a subject of the selected semester, reveals its
// resources and resets both resource filters.
func (n *Navigator) SelectSubject(id string) (State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	err := n.selectSubjectLocked(id)
	return n.stateLocked(), err
}

func (n *Navigator) selectSubjectLocked(id string) error {
	if n.path.Semester == nil {
		return n.noParent(LevelSubject, id)
	}
	s, ok := n.src.Tables().Subject(id)
	if !ok || !catalog.SameID(s.SemesterID, n.path.Semester.ID) {
		return n.miss(LevelSubject, id)
	}
	n.level = LevelResource
	n.path.Subject = &s
	n.filters = filter.Default()
	n.logger.Debug("subject selected", zap.String("id", s.ID), zap.String("name", s.Name))
	return nil
}

// Select dispatches to the Select method for the level whose records are
// being chosen: LevelCourse selects a course, and so on.
func (n *Navigator) Select(level Level, id string) (State, error) {
	switch level {
	case LevelCourse:
		return n.SelectCourse(id)
	case LevelBranch:
		return n.SelectBranch(id)
	case LevelSemester:
		return n.SelectSemester(id)
	case LevelSubject:
		return n.SelectSubject(id)
	default:
		return n.State(), fmt.Errorf("%w: cannot select at %q", ErrUnknownLevel, level)
	}
}

// GoBack re-enters an ancestor level by replaying the stored parent
// selection. Filters are not restored. It fails with ErrNoParent when the
// selection needed for the replay is not set.
func (n *Navigator) GoBack(to Level) (State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var err error
	switch to {
	case LevelCourse:
		n.showCoursesLocked()
	case LevelBranch:
		if n.path.Course == nil {
			err = n.noParent(to, "")
			break
		}
		err = n.selectCourseLocked(n.path.Course.ID)
	case LevelSemester:
		if n.path.Branch == nil {
			err = n.noParent(to, "")
			break
		}
		err = n.selectBranchLocked(n.path.Branch.ID)
	case LevelSubject:
		if n.path.Semester == nil {
			err = n.noParent(to, "")
			break
		}
		err = n.selectSemesterLocked(n.path.Semester.ID)
	default:
		err = fmt.Errorf("%w: cannot go back to %q", ErrUnknownLevel, to)
	}
	return n.stateLocked(), err
}

// SetTypeFilter narrows the resource list by type. Only valid at the
// resource level.
func (n *Navigator) SetTypeFilter(t string) (State, error) {
	return n.SetFilters(func(f *filter.Filters) { f.Type = t })
}

// SetLanguageFilter narrows the resource list by language. Only valid at the
// resource level.
func (n *Navigator) SetLanguageFilter(l string) (State, error) {
	return n.SetFilters(func(f *filter.Filters) { f.Language = l })
}

// SetFilters edits the active filters. Only valid at the resource level.
func (n *Navigator) SetFilters(edit func(*filter.Filters)) (State, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.level != LevelResource {
		return n.stateLocked(), fmt.Errorf("%w: filters apply at %s, current level is %s", ErrWrongLevel, LevelResource, n.level)
	}
	edit(&n.filters)
	if n.filters.Type == "" {
		n.filters.Type = filter.All
	}
	if n.filters.Language == "" {
		n.filters.Language = filter.All
	}
	return n.stateLocked(), nil
}

// Resources returns the selected subject's resources after filtering. It is
// empty below the resource level.
func (n *Navigator) Resources() []catalog.Resource {
	return ResourcesFor(n.src.Tables(), n.State())
}

// ResourcesFor returns the filtered resources shown for state.
func ResourcesFor(t *catalog.Tables, st State) []catalog.Resource {
	if st.Level != LevelResource || st.Path.Subject == nil {
		return []catalog.Resource{}
	}
	return filter.Apply(t.Resources, st.Path.Subject.ID, st.Filters)
}

// VisibleIDs returns the ids of the records rendered in the current panel.
func (n *Navigator) VisibleIDs() []string {
	return VisibleIDs(n.src.Tables(), n.State())
}

// VisibleIDs returns the ids of the records rendered for state.
func VisibleIDs(t *catalog.Tables, st State) []string {
	var ids []string
	switch st.Level {
	case LevelCourse:
		for _, c := range t.Courses {
			ids = append(ids, c.ID)
		}
	case LevelBranch:
		for _, b := range t.BranchesOf(st.Path.Course.ID) {
			ids = append(ids, b.ID)
		}
	case LevelSemester:
		for _, s := range t.SemestersOf(st.Path.Branch.ID) {
			ids = append(ids, s.ID)
		}
	case LevelSubject:
		for _, s := range t.SubjectsOf(st.Path.Semester.ID) {
			ids = append(ids, s.ID)
		}
	case LevelResource:
		for _, r := range ResourcesFor(t, st) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func (n *Navigator) miss(level Level, id string) error {
	n.logger.Warn("selection lookup miss", zap.String("level", string(level)), zap.String("id", id))
	return fmt.Errorf("%w: %s %q", ErrNotFound, level, id)
}

func (n *Navigator) noParent(level Level, id string) error {
	n.logger.Warn("selection without parent", zap.String("level", string(level)), zap.String("id", id))
	return fmt.Errorf("%w: %s", ErrNoParent, level)
}
