package template

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Cleaner removes existing guild structure before import
type Cleaner struct {
	Session Session
	Log     logrus.FieldLogger
}

// Clean deletes channels except system channel and roles below bot highest role.
// Deletions are best-effort, failures are logged and collected in report.
func (cl *Cleaner) Clean(ctx context.Context, guildID, botUserID string) (*Report, error) {
	opt := discordgo.WithContext(ctx)

	guild, err := cl.Session.Guild(guildID, opt)
	if err != nil {
		return nil, fmt.Errorf("fetching guild: %w", err)
	}

	roles, err := cl.Session.GuildRoles(guildID, opt)
	if err != nil {
		return nil, fmt.Errorf("fetching roles: %w", err)
	}

	channels, err := cl.Session.GuildChannels(guildID, opt)
	if err != nil {
		return nil, fmt.Errorf("fetching channels: %w", err)
	}

	member, err := cl.Session.GuildMember(guildID, botUserID, opt)
	if err != nil {
		return nil, fmt.Errorf("fetching bot member: %w", err)
	}

	report := newReport()

	for _, c := range channels {
		if c.ID == guild.SystemChannelID {
			continue
		}

		if !ChannelPermissions(guild, roles, member, c).Has(Flags["ManageChannels"]) {
			cl.log().WithField("channel", c.Name).Debug("Skipping channel without manage permission")

			continue
		}

		_, err = cl.Session.ChannelDelete(c.ID, opt)
		if err != nil {
			cl.log().WithError(err).WithField("channel", c.Name).Error("Deleting channel")

			kind := KindChannel
			if c.Type == discordgo.ChannelTypeGuildCategory {
				kind = KindCategory
			}

			report.fail(kind, c.Name, err)

			continue
		}

		if c.Type == discordgo.ChannelTypeGuildCategory {
			report.Deleted[KindCategory]++
		} else {
			report.Deleted[KindChannel]++
		}
	}

	top := highestRole(roles, member)

	for _, r := range roles {
		if r.ID == guildID || r.Name == EveryoneRole {
			continue
		}

		if top == nil || r.ID == top.ID || r.Position >= top.Position {
			continue
		}

		err = cl.Session.GuildRoleDelete(guildID, r.ID, opt)
		if err != nil {
			cl.log().WithError(err).WithField("role", r.Name).Error("Deleting role")
			report.fail(KindRole, r.Name, err)

			continue
		}

		report.Deleted[KindRole]++
	}

	return report, nil
}

func (cl *Cleaner) log() logrus.FieldLogger {
	if cl.Log != nil {
		return cl.Log
	}

	return logrus.StandardLogger()
}

func highestRole(roles []*discordgo.Role, member *discordgo.Member) (top *discordgo.Role) {
	owned := make(map[string]bool, len(member.Roles))
	for _, r := range member.Roles {
		owned[r] = true
	}

	for _, r := range roles {
		if !owned[r.ID] {
			continue
		}

		if top == nil || r.Position > top.Position {
			top = r
		}
	}

	return
}
