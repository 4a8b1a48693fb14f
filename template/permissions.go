package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// PermissionAll has every known permission bit set
const PermissionAll Permissions = 1<<51 - 1

// Flags maps permission flag names to permission bits
var Flags = map[string]Permissions{
	"CreateInstantInvite":              1 << 0,
	"KickMembers":                      1 << 1,
	"BanMembers":                       1 << 2,
	"Administrator":                    1 << 3,
	"ManageChannels":                   1 << 4,
	"ManageGuild":                      1 << 5,
	"AddReactions":                     1 << 6,
	"ViewAuditLog":                     1 << 7,
	"PrioritySpeaker":                  1 << 8,
	"Stream":                           1 << 9,
	"ViewChannel":                      1 << 10,
	"SendMessages":                     1 << 11,
	"SendTTSMessages":                  1 << 12,
	"ManageMessages":                   1 << 13,
	"EmbedLinks":                       1 << 14,
	"AttachFiles":                      1 << 15,
	"ReadMessageHistory":               1 << 16,
	"MentionEveryone":                  1 << 17,
	"UseExternalEmojis":                1 << 18,
	"ViewGuildInsights":                1 << 19,
	"Connect":                          1 << 20,
	"Speak":                            1 << 21,
	"MuteMembers":                      1 << 22,
	"DeafenMembers":                    1 << 23,
	"MoveMembers":                      1 << 24,
	"UseVAD":                           1 << 25,
	"ChangeNickname":                   1 << 26,
	"ManageNicknames":                  1 << 27,
	"ManageRoles":                      1 << 28,
	"ManageWebhooks":                   1 << 29,
	"ManageGuildExpressions":           1 << 30,
	"ManageEmojisAndStickers":          1 << 30,
	"UseApplicationCommands":           1 << 31,
	"RequestToSpeak":                   1 << 32,
	"ManageEvents":                     1 << 33,
	"ManageThreads":                    1 << 34,
	"CreatePublicThreads":              1 << 35,
	"CreatePrivateThreads":             1 << 36,
	"UseExternalStickers":              1 << 37,
	"SendMessagesInThreads":            1 << 38,
	"UseEmbeddedActivities":            1 << 39,
	"ModerateMembers":                  1 << 40,
	"ViewCreatorMonetizationAnalytics": 1 << 41,
	"UseSoundboard":                    1 << 42,
	"CreateGuildExpressions":           1 << 43,
	"CreateEvents":                     1 << 44,
	"UseExternalSounds":                1 << 45,
	"SendVoiceMessages":                1 << 46,
	"SendPolls":                        1 << 49,
	"UseExternalApps":                  1 << 50,
}

// Permissions is a permission bitfield, serialized as decimal string
type Permissions int64

// MarshalJSON implementation
func (p Permissions) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(p), 10))), nil
}

// UnmarshalJSON accepts decimal string, number or array of flag names
func (p *Permissions) UnmarshalJSON(bs []byte) error {
	bs = bytes.TrimSpace(bs)

	switch {
	case len(bs) == 0 || bytes.Equal(bs, []byte("null")):
		*p = 0

		return nil
	case bs[0] == '[':
		var names []string

		err := json.Unmarshal(bs, &names)
		if err != nil {
			return err
		}

		v, err := ParseFlags(names)
		if err != nil {
			return err
		}

		*p = v

		return nil
	case bs[0] == '"':
		var s string

		err := json.Unmarshal(bs, &s)
		if err != nil {
			return err
		}

		return p.parse(s)
	default:
		return p.parse(string(bs))
	}
}

func (p *Permissions) parse(s string) error {
	if s == "" {
		*p = 0

		return nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid permission bitfield %q: %w", s, err)
	}

	*p = Permissions(v)

	return nil
}

// ParseFlags combines flag names or decimal values into bitfield
func ParseFlags(names []string) (p Permissions, err error) {
	for _, n := range names {
		if f, ok := Flags[n]; ok {
			p |= f

			continue
		}

		v, perr := strconv.ParseInt(n, 10, 64)
		if perr != nil {
			return 0, fmt.Errorf("unknown permission flag %q", n)
		}

		p |= Permissions(v)
	}

	return
}

// Has returns true if all bits of other are set
func (p Permissions) Has(other Permissions) bool {
	return p&other == other
}

// Names returns sorted flag names set in bitfield
func (p Permissions) Names() (names []string) {
	seen := make(map[Permissions]bool)

	keys := make([]string, 0, len(Flags))
	for k := range Flags {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		f := Flags[k]
		if p&f != 0 && !seen[f] {
			seen[f] = true

			names = append(names, k)
		}
	}

	return
}

// ChannelPermissions computes effective permissions of member in channel
func ChannelPermissions(
	guild *discordgo.Guild,
	roles []*discordgo.Role,
	member *discordgo.Member,
	channel *discordgo.Channel,
) Permissions {
	if member == nil {
		return 0
	}

	if member.User != nil && guild.OwnerID == member.User.ID {
		return PermissionAll
	}

	memberRoles := make(map[string]bool, len(member.Roles))
	for _, r := range member.Roles {
		memberRoles[r] = true
	}

	var base Permissions

	for _, r := range roles {
		if r.ID == guild.ID || memberRoles[r.ID] {
			base |= Permissions(r.Permissions)
		}
	}

	if base.Has(Flags["Administrator"]) {
		return PermissionAll
	}

	if channel == nil {
		return base
	}

	var allow, deny Permissions

	var memberOverwrite *discordgo.PermissionOverwrite

	for _, o := range channel.PermissionOverwrites {
		switch {
		case o.ID == guild.ID:
			base &^= Permissions(o.Deny)
			base |= Permissions(o.Allow)
		case o.Type == discordgo.PermissionOverwriteTypeRole && memberRoles[o.ID]:
			allow |= Permissions(o.Allow)
			deny |= Permissions(o.Deny)
		case o.Type == discordgo.PermissionOverwriteTypeMember && member.User != nil && o.ID == member.User.ID:
			memberOverwrite = o
		}
	}

	base &^= deny
	base |= allow

	if memberOverwrite != nil {
		base &^= Permissions(memberOverwrite.Deny)
		base |= Permissions(memberOverwrite.Allow)
	}

	return base
}
