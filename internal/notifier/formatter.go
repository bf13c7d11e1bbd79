package notifier

import (
	"fmt"
	"html"
	"strings"

	"SentimentPanel/internal/model"
	"SentimentPanel/internal/report"
)

// FormatRunMessage formats a finished run into a Telegram HTML message.
func FormatRunMessage(s *model.RunSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>SentimentPanel</b> | %s\n\n", s.StartedAt.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("<pre>%s</pre>\n", html.EscapeString(report.FormatSummary(s))))

	if len(s.Outputs) > 0 {
		b.WriteString(fmt.Sprintf("\n%d files written", len(s.Outputs)))
	}
	return b.String()
}
