package router

import (
	"sort"

	"github.com/bwmarrin/discordgo"
)

// Group is a top-level command, grouping a number of subcommand routes
type Group struct {
	Name        string
	Description string
	Permissions *int64
	GuildOnly   bool
	Routes      []*Route
	Middleware  []MiddlewareFunc
	RouteSorter RouteSorterFunc
	Router      *Router
	Data        map[string]interface{}
}

// On adds subcommand route to group
func (group *Group) On(name, desc string, handler HandlerFunc) (route *Route) {
	route = group.Router.Route(group.Name+" "+name, name, desc, handler)

	group.AddRoute(route)

	return route
}

// Handle makes group a plain command without subcommands
func (group *Group) Handle(desc string, handler HandlerFunc) (route *Route) {
	route = group.Router.Route(group.Name, group.Name, desc, handler)

	group.AddRoute(route)

	return route
}

// AddRoute appends route maintaing sorting order
func (group *Group) AddRoute(route *Route) {
	i := sort.Search(len(group.Routes), func(i int) bool {
		return group.RouteSorter(group.Routes[i], route)
	})
	if i == len(group.Routes) || group.Routes[i].Name != route.Name {
		group.Routes = append(group.Routes[:i], append([]*Route{route}, group.Routes[i:]...)...)
		route.Groups = append(route.Groups, group)
	}
}

// SetDescription sets group description
func (group *Group) SetDescription(desc string) *Group {
	group.Description = desc

	return group
}

// SetPermissions sets default member permissions required to see the command
func (group *Group) SetPermissions(permissions int64) *Group {
	group.Permissions = &permissions

	return group
}

// SetGuildOnly disables command in direct messages
func (group *Group) SetGuildOnly() *Group {
	group.GuildOnly = true

	return group
}

// Set sets group data entry
func (group *Group) Set(k string, v interface{}) *Group {
	group.Data[k] = v

	return group
}

// Get returns group data entry
func (group *Group) Get(k string) interface{} {
	return group.Data[k]
}

// Command renders application command definition for group
func (group *Group) Command() *discordgo.ApplicationCommand {
	cmd := &discordgo.ApplicationCommand{
		Name:                     group.Name,
		Description:              group.Description,
		DefaultMemberPermissions: group.Permissions,
	}

	if group.GuildOnly {
		dm := false
		cmd.DMPermission = &dm
	}

	if len(group.Routes) == 1 && group.Routes[0].Name == group.Name {
		r := group.Routes[0]

		if cmd.Description == "" {
			cmd.Description = r.Description
		}

		cmd.Options = r.Options

		return cmd
	}

	for _, r := range group.Routes {
		cmd.Options = append(cmd.Options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        r.Name,
			Description: r.Description,
			Options:     r.Options,
		})
	}

	return cmd
}
