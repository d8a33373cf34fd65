// Package theme resolves the stored theme preference, the night mode switch
// and the OS color scheme into the single visual mode that is shown.
package theme

import "github.com/dmitrijs2005/echovault/internal/client/models"

// Resolve computes the applied theme.
//
//	night mode | theme  | OS dark | applied
//	-----------+--------+---------+--------
//	on         | dark   | any     | night
//	on         | system | yes     | night
//	any        | system | yes/no  | dark/light
//	any        | light  | any     | light
//	off        | dark   | any     | dark
func Resolve(nightMode bool, t models.Theme, osPrefersDark bool) models.AppliedTheme {
	if nightMode && (t == models.ThemeDark || (t == models.ThemeSystem && osPrefersDark)) {
		return models.AppliedNight
	}
	switch t {
	case models.ThemeSystem:
		if osPrefersDark {
			return models.AppliedDark
		}
		return models.AppliedLight
	case models.ThemeLight:
		return models.AppliedLight
	default:
		return models.AppliedDark
	}
}
