// Package help provides bot module for command help message
package help

import (
	"strings"

	"github.com/eientei/blueprint/discordbot/bot"
	"github.com/eientei/blueprint/discordbot/router"

	"github.com/bwmarrin/discordgo"
)

// New provides module instance
func New() bot.Module {
	return &module{}
}

type module struct {
}

func (mod *module) Initialize(config *bot.Configuration) error {
	config.Router.Group("help").SetDescription("prints help").Handle("prints help", mod.commandHelp)

	return nil
}

func (mod *module) Configure(*bot.Configuration, *discordgo.Guild) {

}

func (mod *module) Shutdown(*bot.Configuration) {

}

func renderName(g *router.Group, r *router.Route) string {
	if r.Name == g.Name {
		return "/" + g.Name
	}

	return "/" + g.Name + " " + r.Name
}

// Render returns help text listing commands of router
func Render(r *router.Router) string {
	max := 0

	for _, g := range r.Groups {
		for _, v := range g.Routes {
			if l := len(renderName(g, v)); l > max {
				max = l
			}
		}
	}

	buf := &strings.Builder{}

	buf.WriteString("```autohotkey\n")

	for _, g := range r.Groups {
		_, _ = buf.WriteString("\n==" + strings.ToUpper(g.Name) + "==")

		if len(g.Description) > 0 {
			_, _ = buf.WriteString(" ")
			_, _ = buf.WriteString(g.Description)
		}

		_, _ = buf.WriteString("\n")

		for _, v := range g.Routes {
			name := renderName(g, v)
			_, _ = buf.WriteString(strings.Repeat(" ", max-len(name)))
			_, _ = buf.WriteString(name)
			_, _ = buf.WriteString(": ")
			_, _ = buf.WriteString(v.Description)
			buf.WriteString("\n")
		}
	}

	buf.WriteString("```")

	return buf.String()
}

func (mod *module) commandHelp(ctx *router.Context) error {
	return ctx.ReplyEmbed(Render(ctx.Route.Router))
}
