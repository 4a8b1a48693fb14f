// Package router provides slash command router
package router

import (
	"io"
	"sync"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// Options provide abstraction for getting subcommand options
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// String returns string option value or empty string
func (opts Options) String(name string) string {
	o, ok := opts[name]
	if !ok || o.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}

	return o.StringValue()
}

// Bool returns boolean option value and whether it was supplied
func (opts Options) Bool(name string) (value, ok bool) {
	o, ok := opts[name]
	if !ok || o.Type != discordgo.ApplicationCommandOptionBoolean {
		return false, false
	}

	return o.BoolValue(), true
}

// MaxDescription is embed description length limit
const MaxDescription = 4096

// Truncate cuts s to at most max runes, marking cut with ellipsis
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)

	return string(runes[:max-1]) + "…"
}

// GroupSorterFunc provides sorting for groups
type GroupSorterFunc func(a, b *Group) bool

// RouteSorterFunc provides sorting for routes
type RouteSorterFunc func(a, b *Route) bool

// MiddlewareFunc implements command wrapping
type MiddlewareFunc func(handler HandlerFunc) HandlerFunc

// HandlerFunc implements command execution
type HandlerFunc func(ctx *Context) error

// Context simplifies interaction handling
type Context struct {
	Session     *discordgo.Session
	Interaction *discordgo.Interaction
	Route       *Route
	Options     Options
	deferred    bool
}

// GuildID returns guild of interaction, empty in direct messages
func (ctx *Context) GuildID() string {
	return ctx.Interaction.GuildID
}

// UserID returns invoking user id
func (ctx *Context) UserID() string {
	if ctx.Interaction.Member != nil && ctx.Interaction.Member.User != nil {
		return ctx.Interaction.Member.User.ID
	}

	if ctx.Interaction.User != nil {
		return ctx.Interaction.User.ID
	}

	return ""
}

// Attachment returns resolved attachment supplied for option
func (ctx *Context) Attachment(name string) *discordgo.MessageAttachment {
	o, ok := ctx.Options[name]
	if !ok || o.Type != discordgo.ApplicationCommandOptionAttachment {
		return nil
	}

	id, ok := o.Value.(string)
	if !ok {
		return nil
	}

	data := ctx.Interaction.ApplicationCommandData()
	if data.Resolved == nil {
		return nil
	}

	return data.Resolved.Attachments[id]
}

// Defer acknowledges interaction, response is expected to be edited later
func (ctx *Context) Defer(ephemeral bool) (err error) {
	var flags discordgo.MessageFlags

	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	err = ctx.Session.InteractionRespond(ctx.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: flags,
		},
	})
	if err != nil {
		return
	}

	ctx.deferred = true

	return
}

// Progress replaces response content with given text
func (ctx *Context) Progress(text string) (err error) {
	if !ctx.deferred {
		return ctx.Reply(text)
	}

	_, err = ctx.Session.InteractionResponseEdit(ctx.Interaction, &discordgo.WebhookEdit{
		Content: &text,
	})

	return
}

// Reply replies to interaction with text
func (ctx *Context) Reply(text string) (err error) {
	if ctx.deferred {
		return ctx.Progress(text)
	}

	err = ctx.Session.InteractionRespond(ctx.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
		},
	})
	if err != nil {
		return
	}

	ctx.deferred = true

	return
}

// ReplyEmbed replies to interaction with embed, description is truncated to embed limit
func (ctx *Context) ReplyEmbed(desc string) (err error) {
	embeds := []*discordgo.MessageEmbed{
		{
			Description: Truncate(desc, MaxDescription),
		},
	}

	if ctx.deferred {
		_, err = ctx.Session.InteractionResponseEdit(ctx.Interaction, &discordgo.WebhookEdit{
			Embeds: &embeds,
		})

		return
	}

	err = ctx.Session.InteractionRespond(ctx.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: embeds,
		},
	})
	if err != nil {
		return
	}

	ctx.deferred = true

	return
}

// ReplyFile replies to interaction with text and attached file
func (ctx *Context) ReplyFile(text, name string, reader io.Reader) (err error) {
	files := []*discordgo.File{
		{
			Name:        name,
			ContentType: "application/json",
			Reader:      reader,
		},
	}

	if ctx.deferred {
		_, err = ctx.Session.InteractionResponseEdit(ctx.Interaction, &discordgo.WebhookEdit{
			Content: &text,
			Files:   files,
		})

		return
	}

	err = ctx.Session.InteractionRespond(ctx.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Files:   files,
		},
	})
	if err != nil {
		return
	}

	ctx.deferred = true

	return
}

// NewRouter returns new router instance
func NewRouter() *Router {
	return &Router{
		Routes: make(map[string]*Route),
		GroupSorter: func(a, b *Group) bool {
			return a.Name >= b.Name
		},
		DefaultRouteSorter: func(a, b *Route) bool {
			return a.Name >= b.Name
		},
	}
}

// Route describes subcommand route
type Route struct {
	Router      *Router
	Name        string
	Description string
	Options     []*discordgo.ApplicationCommandOption
	Handler     HandlerFunc
	Baked       HandlerFunc
	Data        map[string]interface{}
	Middleware  []MiddlewareFunc
	Groups      []*Group
	once        sync.Once
}

// Set sets route config value
func (route *Route) Set(k string, v interface{}) *Route {
	route.Data[k] = v

	return route
}

// Get returns route (or any of parent groups) config value
func (route *Route) Get(k string) interface{} {
	if v, ok := route.Data[k]; ok {
		return v
	}

	for _, g := range route.Groups {
		if v, ok := g.Data[k]; ok {
			return v
		}
	}

	return nil
}

// Option appends option definition to route
func (route *Route) Option(
	kind discordgo.ApplicationCommandOptionType,
	name, desc string,
	required bool,
) *Route {
	route.Options = append(route.Options, &discordgo.ApplicationCommandOption{
		Type:        kind,
		Name:        name,
		Description: desc,
		Required:    required,
	})

	return route
}
