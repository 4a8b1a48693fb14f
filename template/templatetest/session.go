// Package templatetest provides in-memory guild session for tests
package templatetest

import (
	"errors"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// ErrFake is returned by failing operations
var ErrFake = errors.New("fake failure")

// Call records a mutating session call
type Call struct {
	Method string
	Name   string
	Data   interface{}
}

// Session keeps guild state in memory; names or ids listed in FailNames fail on mutation
type Session struct {
	Info     *discordgo.Guild
	Roles    []*discordgo.Role
	Channels []*discordgo.Channel
	Members  map[string]*discordgo.Member

	FailNames map[string]bool
	FetchErr  error

	Calls  []Call
	nextID int
}

// New returns empty guild session
func New(guildID string) *Session {
	return &Session{
		Info: &discordgo.Guild{
			ID:   guildID,
			Name: "guild",
		},
		Members:   make(map[string]*discordgo.Member),
		FailNames: make(map[string]bool),
	}
}

func (f *Session) id() string {
	f.nextID++

	return "new" + strconv.Itoa(f.nextID)
}

// Guild returns guild info
func (f *Session) Guild(string, ...discordgo.RequestOption) (*discordgo.Guild, error) {
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}

	return f.Info, nil
}

// GuildRoles returns current roles
func (f *Session) GuildRoles(string, ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	return f.Roles, nil
}

// GuildChannels returns current channels
func (f *Session) GuildChannels(string, ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return f.Channels, nil
}

// GuildMember returns registered member
func (f *Session) GuildMember(_, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	m, ok := f.Members[userID]
	if !ok {
		return nil, ErrFake
	}

	return m, nil
}

// GuildRoleCreate appends new role
func (f *Session) GuildRoleCreate(
	_ string,
	data *discordgo.RoleParams,
	_ ...discordgo.RequestOption,
) (*discordgo.Role, error) {
	f.Calls = append(f.Calls, Call{Method: "GuildRoleCreate", Name: data.Name, Data: data})

	if f.FailNames[data.Name] {
		return nil, ErrFake
	}

	role := &discordgo.Role{
		ID:   f.id(),
		Name: data.Name,
	}

	if data.Color != nil {
		role.Color = *data.Color
	}

	if data.Hoist != nil {
		role.Hoist = *data.Hoist
	}

	if data.Mentionable != nil {
		role.Mentionable = *data.Mentionable
	}

	if data.Permissions != nil {
		role.Permissions = *data.Permissions
	}

	f.Roles = append(f.Roles, role)

	return role, nil
}

// GuildRoleDelete removes role
func (f *Session) GuildRoleDelete(_, roleID string, _ ...discordgo.RequestOption) error {
	f.Calls = append(f.Calls, Call{Method: "GuildRoleDelete", Name: roleID})

	if f.FailNames[roleID] {
		return ErrFake
	}

	for i, r := range f.Roles {
		if r.ID == roleID {
			f.Roles = append(f.Roles[:i:i], f.Roles[i+1:]...)

			break
		}
	}

	return nil
}

// GuildRoleReorder records requested positions
func (f *Session) GuildRoleReorder(
	_ string,
	roles []*discordgo.Role,
	_ ...discordgo.RequestOption,
) ([]*discordgo.Role, error) {
	f.Calls = append(f.Calls, Call{Method: "GuildRoleReorder", Data: roles})

	return roles, nil
}

// GuildChannelCreateComplex appends new channel
func (f *Session) GuildChannelCreateComplex(
	_ string,
	data discordgo.GuildChannelCreateData,
	_ ...discordgo.RequestOption,
) (*discordgo.Channel, error) {
	f.Calls = append(f.Calls, Call{Method: "GuildChannelCreateComplex", Name: data.Name, Data: data})

	if f.FailNames[data.Name] {
		return nil, ErrFake
	}

	ch := &discordgo.Channel{
		ID:                   f.id(),
		Name:                 data.Name,
		Type:                 data.Type,
		Position:             data.Position,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}

	f.Channels = append(f.Channels, ch)

	return ch, nil
}

// ChannelDelete removes channel
func (f *Session) ChannelDelete(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.Calls = append(f.Calls, Call{Method: "ChannelDelete", Name: channelID})

	if f.FailNames[channelID] {
		return nil, ErrFake
	}

	for i, c := range f.Channels {
		if c.ID == channelID {
			f.Channels = append(f.Channels[:i:i], f.Channels[i+1:]...)

			return c, nil
		}
	}

	return &discordgo.Channel{ID: channelID}, nil
}

// CallsOf returns recorded calls of given method
func (f *Session) CallsOf(method string) (res []Call) {
	for _, c := range f.Calls {
		if c.Method == method {
			res = append(res, c)
		}
	}

	return
}
