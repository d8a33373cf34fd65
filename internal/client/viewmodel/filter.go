package viewmodel

import (
	"strings"

	"github.com/dmitrijs2005/echovault/internal/client/models"
)

// Filter keeps the entries whose content or any tag contains term, ignoring
// case. An empty term returns entries unchanged.
func Filter(entries []models.Entry, term string) []models.Entry {
	if term == "" {
		return entries
	}
	needle := strings.ToLower(term)

	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e models.Entry, needle string) bool {
	if strings.Contains(strings.ToLower(e.Content), needle) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
