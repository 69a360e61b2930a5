// Package userdata stores what each visitor keeps between visits: bookmarks,
// download history and the colour theme.
package userdata

import (
	"errors"
	"time"
)

// Theme is a visitor's colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme applies until a visitor picks one.
const DefaultTheme = ThemeLight

// ErrInvalidTheme is returned for a theme other than light or dark.
var ErrInvalidTheme = errors.New("invalid theme")

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Download is one recorded download. A visitor may download the same
// resource any number of times.
type Download struct {
	ID           string    `json:"id"`
	VisitorID    string    `json:"visitor_id"`
	ResourceID   string    `json:"resource_id"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

const prefTheme = "theme"
