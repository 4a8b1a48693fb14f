package router

import (
	"errors"
	"sort"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrNotMatched is returned when unknown command is issued
	ErrNotMatched = errors.New("command not matched")
)

// Router implements routing dispatch
type Router struct {
	Routes             map[string]*Route
	Groups             []*Group
	GroupSorter        GroupSorterFunc
	DefaultRouteSorter RouteSorterFunc
	Middleware         []MiddlewareFunc
}

// Path returns route key and subcommand options of application command interaction
func Path(data discordgo.ApplicationCommandInteractionData) (
	path string,
	opts []*discordgo.ApplicationCommandInteractionDataOption,
) {
	path, opts = data.Name, data.Options

	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		path += " " + opts[0].Name
		opts = opts[0].Options
	}

	return
}

// Dispatch tries to find matching route and execute it
func (router *Router) Dispatch(session *discordgo.Session, interaction *discordgo.Interaction) error {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	path, opts := Path(interaction.ApplicationCommandData())

	r, ok := router.Routes[path]
	if !ok {
		return ErrNotMatched
	}

	options := make(Options, len(opts))
	for _, o := range opts {
		options[o.Name] = o
	}

	return r.bake()(&Context{
		Session:     session,
		Interaction: interaction,
		Route:       r,
		Options:     options,
	})
}

func (route *Route) bake() HandlerFunc {
	route.once.Do(func() {
		if route.Baked != nil {
			return
		}

		var middlewares []MiddlewareFunc

		middlewares = append(middlewares, route.Router.Middleware...)

		for _, g := range route.Groups {
			middlewares = append(middlewares, g.Middleware...)
		}

		middlewares = append(middlewares, route.Middleware...)

		baked := route.Handler
		for i := len(middlewares) - 1; i >= 0; i-- {
			baked = middlewares[i](baked)
		}

		route.Baked = baked
	})

	return route.Baked
}

// Group returns group with given name
func (router *Router) Group(name string) (cand *Group) {
	cand = &Group{
		Name:        name,
		RouteSorter: router.DefaultRouteSorter,
		Router:      router,
		Data:        make(map[string]interface{}),
	}
	i := sort.Search(len(router.Groups), func(i int) bool {
		return router.GroupSorter(router.Groups[i], cand)
	})

	if i == len(router.Groups) || router.Groups[i].Name != name {
		router.Groups = append(router.Groups[:i], append([]*Group{cand}, router.Groups[i:]...)...)
	} else {
		cand = router.Groups[i]
	}

	return
}

// Route return route with given parameters
func (router *Router) Route(path, name, desc string, handler HandlerFunc) (route *Route) {
	var ok bool
	if route, ok = router.Routes[path]; !ok {
		route = &Route{
			Name:        name,
			Description: desc,
			Handler:     handler,
			Router:      router,
			Data:        make(map[string]interface{}),
		}
		router.Routes[path] = route
	}

	return
}

// On creates new subcommand route in given group
func (router *Router) On(group, name, desc string, handler HandlerFunc) (route *Route) {
	return router.Group(group).On(name, desc, handler)
}

// AppendMiddleware append middleware to end of the chain
func (router *Router) AppendMiddleware(middleware MiddlewareFunc) {
	router.Middleware = append(router.Middleware, middleware)
}

// PrependMiddleware append middleware to beginning of the chain
func (router *Router) PrependMiddleware(middleware MiddlewareFunc) {
	router.Middleware = append([]MiddlewareFunc{middleware}, router.Middleware...)
}

// Commands returns application command definitions for all groups
func (router *Router) Commands() []*discordgo.ApplicationCommand {
	commands := make([]*discordgo.ApplicationCommand, 0, len(router.Groups))

	for _, g := range router.Groups {
		commands = append(commands, g.Command())
	}

	return commands
}
