package notify

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Notification bodies are authored in markdown and rendered to HTML for
// delivery.
var templates = map[Kind]*template.Template{
	KindWelcome: template.Must(template.New("welcome").Parse(
		"# Welcome, {{.Username}}\n\n" +
			"Your account on The Connection is ready. Join a community, share a " +
			"microblog, or post a prayer request to get started.\n")),
	KindPrayerSupport: template.Must(template.New("prayer_support").Parse(
		"**{{.SupporterName}}** is praying for your request:\n\n" +
			"> {{.RequestTitle}}\n\n" +
			"{{.PrayerCount}} people have prayed for it so far.\n")),
	KindEventReminder: template.Must(template.New("event_reminder").Parse(
		"## Reminder: {{.EventTitle}}\n\n" +
			"Starts {{.StartsAt}}{{if .Location}} at {{.Location}}{{end}}.\n")),
	KindReportClosed: template.Must(template.New("report_closed").Parse(
		"Your report has been reviewed.\n\n" +
			"Outcome: **{{.Status}}**\n\n{{.Resolution}}\n")),
}

// Render produces the HTML body for a notification.
func Render(n *Notification) (string, error) {
	tmpl, ok := templates[n.Kind]
	if !ok {
		return "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, n.Data); err != nil {
		return "", fmt.Errorf("render %s template: %w", n.Kind, err)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML(buf.Bytes(), p, renderer)), nil
}
