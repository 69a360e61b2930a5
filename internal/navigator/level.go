package navigator

import (
	"errors"
	"fmt"
)

// Level is one step of the drill-down.
type Level string

const (
	LevelCourse   Level = "course"
	LevelBranch   Level = "branch"
	LevelSemester Level = "semester"
	LevelSubject  Level = "subject"
	LevelResource Level = "resource"
)

// Levels lists every level in drill-down order.
var Levels = []Level{LevelCourse, LevelBranch, LevelSemester, LevelSubject, LevelResource}

var (
	// ErrNotFound is a lookup miss: the id matches no record under the
	// currently selected parent.
	ErrNotFound = errors.New("not found")

	// ErrNoParent is returned when a transition needs a parent selection
	// that is not set.
	ErrNoParent = errors.New("parent not selected")

	// ErrWrongLevel is returned by operations that only apply at one level.
	ErrWrongLevel = errors.New("operation not valid at this level")

	// ErrUnknownLevel is returned for an unrecognised level name.
	ErrUnknownLevel = errors.New("unknown level")
)

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Depth returns 0 for the course level through 4 for the resource level.
func (l Level) Depth() int {
	for i, v := range Levels {
		if v == l {
			return i
		}
	}
	return -1
}
