package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/echovault/internal/client/models"
	"github.com/dmitrijs2005/echovault/internal/client/notify"
	"github.com/dmitrijs2005/echovault/internal/client/theme"
)

const (
	dateLayout = "Jan 2, 2006"
	timeLayout = "15:04"
)

// formatEntry renders one entry as
//
//	<id>  Jan 2, 2006 15:04  [audio]
//	    content line
//	    #tag #tag
func formatEntry(e models.Entry) string {
	var b strings.Builder
	at := e.CreatedAt.Local()
	fmt.Fprintf(&b, "%s  %s %s", e.ID, at.Format(dateLayout), at.Format(timeLayout))
	if e.HasAudio() {
		b.WriteString("  [audio]")
	}
	for _, line := range strings.Split(e.Content, "\n") {
		b.WriteString("\n    ")
		b.WriteString(line)
	}
	if len(e.Tags) > 0 {
		b.WriteString("\n    #")
		b.WriteString(strings.Join(e.Tags, " #"))
	}
	return b.String()
}

func formatNotice(n notify.Notice) string {
	return fmt.Sprintf("[%s] %s", n.Title, n.Message)
}

func formatTheme(s theme.State) string {
	night := "off"
	if s.NightMode {
		night = "on"
	}
	return fmt.Sprintf("Theme: %s, night mode: %s, showing: %s", s.Theme, night, s.Applied)
}
