// Package reply provides bot module for reporting command errors back to invoking user
package reply

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/eientei/blueprint/discordbot/bot"
	"github.com/eientei/blueprint/discordbot/router"
)

const (
	emojiX = "\xe2\x9d\x8c"
)

// New provides module instance
func New() bot.Module {
	return &module{}
}

type module struct {
	config *bot.Configuration
}

func (mod *module) Initialize(config *bot.Configuration) error {
	mod.config = config

	config.Router.PrependMiddleware(mod.middlewareReply)

	return nil
}

func (mod *module) Configure(*bot.Configuration, *discordgo.Guild) {

}

func (mod *module) Shutdown(*bot.Configuration) {

}

func (mod *module) middlewareReply(handler router.HandlerFunc) router.HandlerFunc {
	return func(ctx *router.Context) error {
		origerr := handler(ctx)
		if origerr == nil || errors.Is(origerr, bot.ErrNoReply) {
			return nil
		}

		mod.config.Log.WithError(origerr).
			WithField("route", ctx.Route.Name).
			WithField("guild", ctx.GuildID()).
			WithField("user", ctx.UserID()).
			Error("executing command returned error")

		err := ctx.ReplyEmbed(emojiX + " " + origerr.Error())
		if err != nil {
			mod.config.Log.WithError(err).Error("Replying with error status")
		}

		return origerr
	}
}
