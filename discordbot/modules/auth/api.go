// Package auth provides bot module middleware for authentication on bot commands
package auth

import (
	"errors"

	"github.com/eientei/blueprint/discordbot/bot"
	"github.com/eientei/blueprint/discordbot/router"

	"github.com/bwmarrin/discordgo"
)

// RouteConfigKey is used in route/group data configuration
const RouteConfigKey = "auth"

var (
	// ErrNotAuthorized is returned when user is not authorized to execute this command
	ErrNotAuthorized = errors.New("not authorized")
	// ErrGuildOnly is returned when command requiring guild is used in direct messages
	ErrGuildOnly = errors.New("this command can only be used in a server")
)

// RouteConfig holds authentication requirements for given route or route group
type RouteConfig struct {
	RoleIDs     []string
	RoleNames   []string
	Permissions int64
}

// Admin returns route config requiring administrator permission
func Admin() *RouteConfig {
	return &RouteConfig{
		Permissions: discordgo.PermissionAdministrator,
	}
}

// New provides module instance
func New() bot.Module {
	return &module{}
}

type module struct {
	config *bot.Configuration
}

func (mod *module) Initialize(config *bot.Configuration) error {
	mod.config = config
	config.Router.AppendMiddleware(mod.middlewareAuth)

	return nil
}

func (mod *module) Configure(*bot.Configuration, *discordgo.Guild) {

}

func (mod *module) Shutdown(*bot.Configuration) {

}

func (mod *module) middlewareAuth(handler router.HandlerFunc) router.HandlerFunc {
	return func(ctx *router.Context) error {
		raw := ctx.Route.Get(RouteConfigKey)

		var auth *RouteConfig

		switch v := raw.(type) {
		case *RouteConfig:
			auth = v
		case RouteConfig:
			auth = &v
		default:
			return handler(ctx)
		}

		if ctx.GuildID() == "" {
			return ErrGuildOnly
		}

		if mod.config.HasPermission(ctx.Interaction, auth.Permissions, auth.RoleIDs, auth.RoleNames) {
			return handler(ctx)
		}

		return ErrNotAuthorized
	}
}
