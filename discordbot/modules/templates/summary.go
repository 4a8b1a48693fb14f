package templates

import (
	"fmt"
	"strings"

	"github.com/eientei/blueprint/history"
	"github.com/eientei/blueprint/template"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RoleColor returns hex notation of role color, empty for roles without color
func RoleColor(color int) string {
	if color == 0 {
		return ""
	}

	c := colorful.Color{
		R: float64(color>>16&0xff) / 255,
		G: float64(color>>8&0xff) / 255,
		B: float64(color&0xff) / 255,
	}

	return c.Hex()
}

// Summary renders document preview
func Summary(doc *template.Document) string {
	buf := &strings.Builder{}

	_, _ = fmt.Fprintf(buf, "**%s**", doc.Name)

	if doc.ExportedAt != "" {
		_, _ = fmt.Fprintf(buf, " exported at %s", doc.ExportedAt)
	}

	_, _ = fmt.Fprintf(buf, "\n%d roles, %d categories, %d channels\n",
		len(doc.Roles), len(doc.Categories), doc.ChannelCount())

	buf.WriteString("\n__Roles__\n")

	for _, r := range doc.Roles {
		_, _ = buf.WriteString(r.Name)

		if hex := RoleColor(r.Color); hex != "" {
			_, _ = buf.WriteString(" `" + hex + "`")
		}

		if names := r.Permissions.Names(); len(names) > 0 {
			_, _ = buf.WriteString(" " + strings.Join(names, ", "))
		}

		buf.WriteString("\n")
	}

	buf.WriteString("\n__Channels__\n")

	for _, c := range doc.Categories {
		_, _ = fmt.Fprintf(buf, "%s (%d)\n", c.Name, len(c.Channels))

		for _, ch := range c.Channels {
			_, _ = buf.WriteString("  #" + ch.Name + "\n")
		}
	}

	for _, ch := range doc.UncategorizedChannels {
		_, _ = buf.WriteString("#" + ch.Name + "\n")
	}

	return buf.String()
}

// RenderHistory renders run entries one per line
func RenderHistory(entries []history.Entry) string {
	if len(entries) == 0 {
		return "no runs recorded"
	}

	buf := &strings.Builder{}

	for _, e := range entries {
		_, _ = fmt.Fprintf(buf, "`%s` **%s** %s by <@%s>: %s\n",
			e.StartedAt.UTC().Format("2006-01-02 15:04"),
			e.Kind,
			e.Name,
			e.UserID,
			strings.ReplaceAll(e.Summary, "\n", "; "),
		)
	}

	return buf.String()
}
