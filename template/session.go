package template

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Session provides guild REST operations, implemented by *discordgo.Session
type Session interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildRoleCreate(
		guildID string,
		data *discordgo.RoleParams,
		options ...discordgo.RequestOption,
	) (*discordgo.Role, error)
	GuildRoleDelete(guildID, roleID string, options ...discordgo.RequestOption) error
	GuildRoleReorder(
		guildID string,
		roles []*discordgo.Role,
		options ...discordgo.RequestOption,
	) ([]*discordgo.Role, error)
	GuildChannelCreateComplex(
		guildID string,
		data discordgo.GuildChannelCreateData,
		options ...discordgo.RequestOption,
	) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

var _ Session = (*discordgo.Session)(nil)

// Kind names an entity kind in reports
type Kind string

// Entity kinds
const (
	KindRole     Kind = "role"
	KindCategory Kind = "category"
	KindChannel  Kind = "channel"
)

// Plural returns plural form of kind name
func (k Kind) Plural() string {
	if k == KindCategory {
		return "categories"
	}

	return string(k) + "s"
}

// Failure describes single failed entity operation
type Failure struct {
	Kind Kind
	Name string
	Err  error
}

// Report accumulates per-entity outcomes of clean or import run
type Report struct {
	Created  map[Kind]int
	Deleted  map[Kind]int
	Failures []Failure
}

func newReport() *Report {
	return &Report{
		Created: make(map[Kind]int),
		Deleted: make(map[Kind]int),
	}
}

func (r *Report) fail(kind Kind, name string, err error) {
	r.Failures = append(r.Failures, Failure{
		Kind: kind,
		Name: name,
		Err:  err,
	})
}

// Failed returns number of failures of given kind
func (r *Report) Failed(kind Kind) (n int) {
	for _, f := range r.Failures {
		if f.Kind == kind {
			n++
		}
	}

	return
}

// String renders short summary
func (r *Report) String() string {
	var parts []string

	for _, k := range []Kind{KindRole, KindCategory, KindChannel} {
		var sub []string

		if n := r.Deleted[k]; n > 0 {
			sub = append(sub, fmt.Sprintf("%d deleted", n))
		}

		if n := r.Created[k]; n > 0 {
			sub = append(sub, fmt.Sprintf("%d created", n))
		}

		if n := r.Failed(k); n > 0 {
			sub = append(sub, fmt.Sprintf("%d failed", n))
		}

		if len(sub) > 0 {
			parts = append(parts, k.Plural()+": "+strings.Join(sub, ", "))
		}
	}

	if len(parts) == 0 {
		return "nothing changed"
	}

	return strings.Join(parts, "; ")
}
