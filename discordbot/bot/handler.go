package bot

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/eientei/blueprint/discordbot/router"
)

func (bot *Bot) handlerReady(session *discordgo.Session, ready *discordgo.Ready) {
	commands := bot.Router.Commands()

	guilds := bot.Config.Private.Guilds
	if len(guilds) == 0 {
		guilds = []string{""}
	}

	for _, guildID := range guilds {
		_, err := session.ApplicationCommandBulkOverwrite(ready.User.ID, guildID, commands)
		if err != nil {
			bot.Log.WithError(err).WithField("guild", guildID).Error("Registering commands")

			continue
		}

		bot.Log.WithField("guild", guildID).WithField("commands", len(commands)).Info("Registered commands")
	}
}

func (bot *Bot) handlerGuildCreate(_ *discordgo.Session, guildCreate *discordgo.GuildCreate) {
	bot.configure(bot.guild(guildCreate.ID), guildCreate.Guild)

	for _, m := range bot.Modules {
		m.Configure(&bot.Configuration, guildCreate.Guild)
	}
}

func (bot *Bot) handlerInteractionCreate(session *discordgo.Session, interactionCreate *discordgo.InteractionCreate) {
	err := bot.Router.Dispatch(session, interactionCreate.Interaction)
	if errors.Is(err, router.ErrNotMatched) {
		bot.Log.WithField("interaction", interactionCreate.ID).Warn("Unknown command")
	}
}
