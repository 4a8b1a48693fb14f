// Package bot provides main bot implementation
package bot

import (
	"errors"
	"net/http"
	"sync"

	"github.com/eientei/blueprint/discordbot/config"
	"github.com/eientei/blueprint/discordbot/model"
	"github.com/eientei/blueprint/discordbot/router"
	"github.com/eientei/blueprint/history"
	"github.com/eientei/blueprint/util/httputil/middleware"

	"github.com/bwmarrin/discordgo"
	redis "github.com/go-redis/redis/v7"
	"github.com/sirupsen/logrus"
)

// ErrNoReply special error value to avoid auto-reply
var ErrNoReply = errors.New("noreply")

// Options provide configuration options for bot
type Options struct {
	Discord    *discordgo.Session
	Client     *redis.Client
	Config     *config.Root
	Log        *logrus.Logger
	History    *history.Store
	HTTPClient *http.Client
	Modules    []Module
}

// Configuration store configuration for bot
type Configuration struct {
	Discord    *discordgo.Session
	Client     *redis.Client
	Config     *config.Root
	Log        *logrus.Logger
	Router     *router.Router
	Repository *model.Repository
	History    *history.Store
	HTTPClient *http.Client
	bot        *Bot
	Modules    []Module
}

// AdminRole returns configured administrator role of guild
func (conf *Configuration) AdminRole(guildID string) string {
	return conf.bot.guild(guildID).adminRole()
}

// HasPermission returns true if interaction member has administrative or matching permissions
func (conf *Configuration) HasPermission(
	interaction *discordgo.Interaction,
	permissions int64,
	roleIDs, roleNames []string,
) bool {
	member := interaction.Member
	if member == nil || member.User == nil {
		return false
	}

	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}

	if permissions != 0 && member.Permissions&permissions != 0 {
		return true
	}

	admrole := conf.AdminRole(interaction.GuildID)

	for _, r := range member.Roles {
		if permissions&discordgo.PermissionAdministrator != 0 && r == admrole {
			return true
		}

		if containsString(r, roleIDs...) {
			return true
		}

		if len(roleNames) == 0 {
			continue
		}

		role, err := conf.Discord.State.Role(interaction.GuildID, r)
		if err != nil {
			conf.Log.WithError(err).Error("Loading role", interaction.GuildID, r)
			continue
		}

		if containsString(role.Name, roleNames...) {
			return true
		}
	}

	return false
}

func containsString(s string, ss ...string) bool {
	for _, ri := range ss {
		if ri == s {
			return true
		}
	}

	return false
}

// Reload provides config reloading interface to modules
func (conf *Configuration) Reload() {
	conf.bot.Reload()
}

func (bot *Bot) configure(s *server, guild *discordgo.Guild) {
	admrole, err := bot.Repository.ConfigGet(guild.ID, "auth", "admin.role")
	if err != nil {
		bot.Log.WithError(err).Error("Getting admin role", guild.ID)
		return
	}

	if admrole == "" {
		admins := bot.Config.Server(guild.ID).Admins
		if len(admins) > 0 {
			admrole = admins[0]
		}
	}

	s.m.Lock()
	s.admin = admrole
	s.m.Unlock()
}

// Reload performs reload of all configuration values in configured modules
func (bot *Bot) Reload() {
	bot.m.RLock()

	ids := make([]string, 0, len(bot.servers))
	for k := range bot.servers {
		ids = append(ids, k)
	}

	bot.m.RUnlock()

	for _, k := range ids {
		guild, err := bot.Discord.Guild(k)
		if err != nil {
			bot.Log.WithError(err).Error("Getting guild", k)
			continue
		}

		bot.configure(bot.guild(guild.ID), guild)

		for _, m := range bot.Modules {
			m.Configure(&bot.Configuration, guild)
		}
	}
}

// Module interface incapsulates methods for distinct functionality
type Module interface {
	Initialize(bot *Configuration) error
	Configure(bot *Configuration, server *discordgo.Guild)
	Shutdown(bot *Configuration)
}

// NewBot provides new instance of bot
func NewBot(options Options) (*Bot, error) {
	if options.Log == nil {
		options.Log = logrus.New()
	}

	if options.Config == nil {
		options.Config = &config.Root{}
	}

	if options.HTTPClient == nil {
		fetch := options.Config.Private.Fetch

		options.HTTPClient = middleware.NewClient(
			middleware.UserAgent(fetch.UserAgent),
			middleware.ClientStatusCheck{},
			&middleware.ClientSizeLimit{Max: fetch.MaxSize},
		)
		options.HTTPClient.Timeout = fetch.Timeout
	}

	bot := &Bot{
		Configuration: Configuration{
			Discord:    options.Discord,
			Client:     options.Client,
			Config:     options.Config,
			Log:        options.Log,
			Router:     router.NewRouter(),
			Repository: model.NewRepository(options.Client),
			History:    options.History,
			HTTPClient: options.HTTPClient,
			Modules:    options.Modules,
		},
		m:       &sync.RWMutex{},
		servers: make(map[string]*server),
	}

	bot.Configuration.bot = bot

	for _, m := range bot.Modules {
		err := m.Initialize(&bot.Configuration)
		if err != nil {
			return nil, err
		}
	}

	bot.Discord.AddHandler(bot.handlerReady)
	bot.Discord.AddHandler(bot.handlerGuildCreate)
	bot.Discord.AddHandler(bot.handlerInteractionCreate)

	return bot, nil
}
