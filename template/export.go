package template

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Exporter reads live guild structure into documents
type Exporter struct {
	Session Session
	Log     logrus.FieldLogger
	Now     func() time.Time
}

// Export captures roles, categories, channels and overwrites of guild
func (exp *Exporter) Export(ctx context.Context, guildID string) (*Document, error) {
	opt := discordgo.WithContext(ctx)

	guild, err := exp.Session.Guild(guildID, opt)
	if err != nil {
		return nil, fmt.Errorf("fetching guild: %w", err)
	}

	roles, err := exp.Session.GuildRoles(guildID, opt)
	if err != nil {
		return nil, fmt.Errorf("fetching roles: %w", err)
	}

	channels, err := exp.Session.GuildChannels(guildID, opt)
	if err != nil {
		return nil, fmt.Errorf("fetching channels: %w", err)
	}

	names := make(map[string]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}

	names[guildID] = EveryoneRole

	doc := &Document{
		Name:                  guild.Name,
		Roles:                 exportRoles(roles),
		Categories:            make([]Category, 0),
		UncategorizedChannels: make([]Channel, 0),
	}

	sorted := make([]*discordgo.Channel, len(channels))
	copy(sorted, channels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	categories := make(map[string]int)

	for _, c := range sorted {
		if c.Type != discordgo.ChannelTypeGuildCategory {
			continue
		}

		categories[c.ID] = len(doc.Categories)

		doc.Categories = append(doc.Categories, Category{
			ID:                   c.ID,
			Name:                 c.Name,
			Position:             c.Position,
			PermissionOverwrites: exportOverwrites(c.PermissionOverwrites, names),
			Channels:             make([]Channel, 0),
		})
	}

	for _, c := range sorted {
		if c.Type == discordgo.ChannelTypeGuildCategory {
			continue
		}

		rec := Channel{
			Name:                 c.Name,
			Type:                 int(c.Type),
			Position:             c.Position,
			PermissionOverwrites: exportOverwrites(c.PermissionOverwrites, names),
		}

		if c.ParentID != "" {
			if idx, ok := categories[c.ParentID]; ok {
				doc.Categories[idx].Channels = append(doc.Categories[idx].Channels, rec)

				continue
			}

			exp.log().WithField("channel", c.ID).WithField("parent", c.ParentID).
				Warn("Parent category not found, exporting as uncategorized")
		}

		doc.UncategorizedChannels = append(doc.UncategorizedChannels, rec)
	}

	doc.ExportedAt = exp.now().UTC().Format(TimeLayout)

	return doc, nil
}

func (exp *Exporter) now() time.Time {
	if exp.Now != nil {
		return exp.Now()
	}

	return time.Now()
}

func (exp *Exporter) log() logrus.FieldLogger {
	if exp.Log != nil {
		return exp.Log
	}

	return logrus.StandardLogger()
}

func exportRoles(roles []*discordgo.Role) []Role {
	res := make([]Role, 0, len(roles))

	for _, r := range roles {
		res = append(res, Role{
			Name:        r.Name,
			Color:       r.Color,
			Hoist:       r.Hoist,
			Position:    r.Position,
			Permissions: Permissions(r.Permissions),
			Mentionable: r.Mentionable,
		})
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Position > res[j].Position
	})

	return res
}

func exportOverwrites(overwrites []*discordgo.PermissionOverwrite, names map[string]string) []Overwrite {
	res := make([]Overwrite, 0, len(overwrites))

	for _, o := range overwrites {
		id := o.ID

		if o.Type == discordgo.PermissionOverwriteTypeRole {
			if name, ok := names[o.ID]; ok {
				id = name
			}
		}

		res = append(res, Overwrite{
			ID:    id,
			Type:  int(o.Type),
			Allow: Permissions(o.Allow),
			Deny:  Permissions(o.Deny),
		})
	}

	return res
}
