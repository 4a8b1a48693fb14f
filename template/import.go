package template

import (
	"context"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// Stage names import step
type Stage string

// Import stages in execution order
const (
	StageRoles         Stage = "roles"
	StageCategories    Stage = "categories"
	StageChannels      Stage = "channels"
	StageUncategorized Stage = "uncategorized channels"
)

// ProgressFunc is notified when import enters next stage
type ProgressFunc func(stage Stage)

// Importer recreates document structure in guild
type Importer struct {
	Session  Session
	Log      logrus.FieldLogger
	Progress ProgressFunc
}

// importRun holds lookup tables living for a single Import call
type importRun struct {
	*Importer
	ctx         context.Context
	guildID     string
	roleMap     map[string]string
	categoryMap map[string]string
	report      *Report
}

// Import validates document and creates roles, categories, category channels and
// uncategorized channels, strictly in that order. Only validation errors are returned,
// per-entity failures are logged and collected in report.
func (imp *Importer) Import(ctx context.Context, guildID string, doc *Document) (*Report, error) {
	err := Validate(doc)
	if err != nil {
		return nil, err
	}

	run := &importRun{
		Importer: imp,
		ctx:      ctx,
		guildID:  guildID,
		roleMap: map[string]string{
			EveryoneRole: guildID,
		},
		categoryMap: make(map[string]string),
		report:      newReport(),
	}

	run.stage(StageRoles)
	run.roles(doc.Roles)

	run.stage(StageCategories)

	for i := range doc.Categories {
		run.category(&doc.Categories[i])
	}

	run.stage(StageChannels)

	for i := range doc.Categories {
		c := &doc.Categories[i]

		parentID, ok := run.categoryMap[c.ID]
		if !ok {
			continue
		}

		for j := range c.Channels {
			run.channel(&c.Channels[j], parentID)
		}
	}

	run.stage(StageUncategorized)

	for i := range doc.UncategorizedChannels {
		run.channel(&doc.UncategorizedChannels[i], "")
	}

	return run.report, nil
}

func (imp *Importer) log() logrus.FieldLogger {
	if imp.Log != nil {
		return imp.Log
	}

	return logrus.StandardLogger()
}

func (run *importRun) stage(stage Stage) {
	run.log().WithField("stage", stage).Debug("Import stage")

	if run.Progress != nil {
		run.Progress(stage)
	}
}

func (run *importRun) roles(records []Role) {
	sorted := make([]Role, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position > sorted[j].Position
	})

	var created []*discordgo.Role

	for i := range sorted {
		r := &sorted[i]

		if r.Name == EveryoneRole {
			continue
		}

		color := r.Color
		hoist := r.Hoist
		permissions := int64(r.Permissions)
		mentionable := r.Mentionable

		role, err := run.Session.GuildRoleCreate(run.guildID, &discordgo.RoleParams{
			Name:        r.Name,
			Color:       &color,
			Hoist:       &hoist,
			Permissions: &permissions,
			Mentionable: &mentionable,
		}, discordgo.WithContext(run.ctx))
		if err != nil {
			run.log().WithError(err).WithField("role", r.Name).Error("Creating role")
			run.report.fail(KindRole, r.Name, err)

			continue
		}

		run.roleMap[r.Name] = role.ID
		run.report.Created[KindRole]++

		created = append(created, &discordgo.Role{
			ID:       role.ID,
			Position: r.Position,
		})
	}

	if len(created) == 0 {
		return
	}

	_, err := run.Session.GuildRoleReorder(run.guildID, created, discordgo.WithContext(run.ctx))
	if err != nil {
		run.log().WithError(err).Warn("Reordering roles")
	}
}

func (run *importRun) category(c *Category) {
	ch, err := run.Session.GuildChannelCreateComplex(run.guildID, discordgo.GuildChannelCreateData{
		Name:                 c.Name,
		Type:                 discordgo.ChannelTypeGuildCategory,
		Position:             c.Position,
		PermissionOverwrites: run.translate(c.PermissionOverwrites),
	}, discordgo.WithContext(run.ctx))
	if err != nil {
		run.log().WithError(err).WithField("category", c.Name).Error("Creating category")
		run.report.fail(KindCategory, c.Name, err)

		return
	}

	run.categoryMap[c.ID] = ch.ID
	run.report.Created[KindCategory]++
}

func (run *importRun) channel(c *Channel, parentID string) {
	_, err := run.Session.GuildChannelCreateComplex(run.guildID, discordgo.GuildChannelCreateData{
		Name:                 c.Name,
		Type:                 discordgo.ChannelType(c.Type),
		Position:             c.Position,
		PermissionOverwrites: run.translate(c.PermissionOverwrites),
		ParentID:             parentID,
	}, discordgo.WithContext(run.ctx))
	if err != nil {
		run.log().WithError(err).WithField("channel", c.Name).Error("Creating channel")
		run.report.fail(KindChannel, c.Name, err)

		return
	}

	run.report.Created[KindChannel]++
}

func (run *importRun) translate(overwrites []Overwrite) []*discordgo.PermissionOverwrite {
	return translateOverwrites(run.log(), overwrites, run.roleMap)
}

// translateOverwrites resolves role names through roleMap, unknown ids pass through unchanged
func translateOverwrites(
	log logrus.FieldLogger,
	overwrites []Overwrite,
	roleMap map[string]string,
) []*discordgo.PermissionOverwrite {
	res := make([]*discordgo.PermissionOverwrite, 0, len(overwrites))

	for _, o := range overwrites {
		id, ok := roleMap[o.ID]
		if !ok {
			id = o.ID

			if discordgo.PermissionOverwriteType(o.Type) == discordgo.PermissionOverwriteTypeRole {
				log.WithField("id", o.ID).Warn("Role overwrite subject not mapped, passing through")
			}
		}

		res = append(res, &discordgo.PermissionOverwrite{
			ID:    id,
			Type:  discordgo.PermissionOverwriteType(o.Type),
			Allow: int64(o.Allow),
			Deny:  int64(o.Deny),
		})
	}

	return res
}
