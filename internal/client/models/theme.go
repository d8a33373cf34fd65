package models

import "fmt"

// Theme is the stored display preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ParseTheme validates a stored or user-supplied theme value.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// AppliedTheme is the single visual mode actually shown.
type AppliedTheme string

const (
	AppliedLight AppliedTheme = "light"
	AppliedDark  AppliedTheme = "dark"
	AppliedNight AppliedTheme = "night"
)

// ViewMode selects how the entry list is presented.
type ViewMode string

const (
	ViewTimeline ViewMode = "timeline"
	// ViewMindMap has no data dependency yet; it only renders a placeholder.
	ViewMindMap ViewMode = "mindmap"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(s); m {
	case ViewTimeline, ViewMindMap:
		return m, nil
	default:
		return "", fmt.Errorf("unknown view mode %q", s)
	}
}
