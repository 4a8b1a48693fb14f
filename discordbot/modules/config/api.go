// Package config provides bot module for managing per-server configuration
package config

import (
	"errors"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/eientei/blueprint/discordbot/bot"
	"github.com/eientei/blueprint/discordbot/modules/auth"
	"github.com/eientei/blueprint/discordbot/router"
	redis "github.com/go-redis/redis/v7"
)

var (
	// ErrMissingKey is retuned when key option is not supplied
	ErrMissingKey = errors.New("missing key")
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

	group := config.Router.Group("config").
		SetDescription("internal configuration").
		SetPermissions(discordgo.PermissionAdministrator).
		SetGuildOnly()
	group.Set(auth.RouteConfigKey, auth.Admin())

	group.On("get", "gets config value", mod.configGet).
		Option(discordgo.ApplicationCommandOptionString, "key", "config key", true)
	group.On("set", "sets config value", mod.configSet).
		Option(discordgo.ApplicationCommandOptionString, "key", "config key", true).
		Option(discordgo.ApplicationCommandOptionString, "value", "config value", true)
	group.On("del", "deletes config value", mod.configDel).
		Option(discordgo.ApplicationCommandOptionString, "key", "config key", true)
	group.On("list", "lists config values", mod.configList).
		Option(discordgo.ApplicationCommandOptionString, "mask", "key mask", false)

	return nil
}

func (mod *module) Configure(*bot.Configuration, *discordgo.Guild) {

}

func (mod *module) Shutdown(*bot.Configuration) {

}

func (mod *module) key(ctx *router.Context) (string, error) {
	key := ctx.Options.String("key")
	if key == "" {
		return "", ErrMissingKey
	}

	return ctx.GuildID() + "." + key, nil
}

func (mod *module) configGet(ctx *router.Context) error {
	key, err := mod.key(ctx)
	if err != nil {
		return err
	}

	value, err := mod.config.Client.Get(key).Result()
	if err == redis.Nil {
		err = nil
	}

	if err != nil {
		return err
	}

	return ctx.ReplyEmbed("```\n" + value + "```")
}

func (mod *module) configSet(ctx *router.Context) error {
	key, err := mod.key(ctx)
	if err != nil {
		return err
	}

	err = mod.config.Client.Set(key, ctx.Options.String("value"), 0).Err()
	if err != nil {
		return err
	}

	mod.config.Reload()

	return ctx.Reply("saved")
}

func (mod *module) configDel(ctx *router.Context) error {
	key, err := mod.key(ctx)
	if err != nil {
		return err
	}

	err = mod.config.Client.Del(key).Err()
	if err != nil {
		return err
	}

	mod.config.Reload()

	return ctx.Reply("deleted")
}

func (mod *module) configList(ctx *router.Context) error {
	prefix := ctx.GuildID() + "."
	key := prefix + "*"
	mask := ctx.Options.String("mask")

	if mask != "" {
		key = prefix + mask
	}

	slice, err := mod.config.Client.Keys(key).Result()
	if err != nil {
		return err
	}

	sort.Strings(slice)

	max := 0

	for _, s := range slice {
		if l := len(strings.TrimPrefix(s, prefix)); l > max {
			max = l
		}
	}

	buf := &strings.Builder{}

	for _, s := range slice {
		raw := s

		s = strings.TrimPrefix(s, prefix)
		_, _ = buf.WriteString(strings.Repeat(" ", max-len(s)))
		_, _ = buf.WriteString(s)
		_, _ = buf.WriteString(": ")

		var v string

		v, err = mod.config.Client.Get(raw).Result()
		if err == redis.Nil {
			err = nil
		}

		if err != nil {
			// snapshots are stored as hashes
			v = "<" + mod.config.Client.Type(raw).Val() + ">"
		}

		_, _ = buf.WriteString(v)
		_, _ = buf.WriteString("\n")
	}

	return ctx.ReplyEmbed("```\n" + router.Truncate(buf.String(), router.MaxDescription-len("```\n```")) + "```")
}
