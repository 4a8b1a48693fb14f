// Package templates provides bot module for exporting, previewing and importing guild templates
package templates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eientei/blueprint/discordbot/bot"
	"github.com/eientei/blueprint/discordbot/config"
	"github.com/eientei/blueprint/discordbot/modules/auth"
	"github.com/eientei/blueprint/discordbot/router"
	"github.com/eientei/blueprint/history"
	"github.com/eientei/blueprint/template"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SnapshotLayout is used for naming snapshots
const SnapshotLayout = "20060102-150405"

const historyLimit = 10

var (
	// ErrMissingAttachment is returned when template file is not attached
	ErrMissingAttachment = errors.New("missing attachment")
	// ErrMissingSnapshot is returned when snapshot name is not supplied
	ErrMissingSnapshot = errors.New("missing snapshot name")
	// ErrNoHistory is returned when run history storage is not configured
	ErrNoHistory = errors.New("run history is not configured")
)

// New provides module instance
func New() bot.Module {
	return &module{
		clean: make(map[string]bool),
	}
}

type module struct {
	config *bot.Configuration
	m      sync.RWMutex
	clean  map[string]bool
}

func (mod *module) Initialize(config *bot.Configuration) error {
	mod.config = config

	group := config.Router.Group("template").
		SetDescription("guild structure templates").
		SetPermissions(discordgo.PermissionAdministrator).
		SetGuildOnly()
	group.Set(auth.RouteConfigKey, auth.Admin())

	group.On("export", "exports guild structure as template file", mod.commandExport)
	group.On("import", "recreates guild structure from template file", mod.commandImport).
		Option(discordgo.ApplicationCommandOptionAttachment, "file", "template file", true).
		Option(discordgo.ApplicationCommandOptionBoolean, "clean", "delete existing roles and channels first", false)
	group.On("preview", "shows template file contents", mod.commandPreview).
		Option(discordgo.ApplicationCommandOptionAttachment, "file", "template file", true)
	group.On("snapshots", "lists stored snapshots", mod.commandSnapshots)
	group.On("restore", "recreates guild structure from stored snapshot", mod.commandRestore).
		Option(discordgo.ApplicationCommandOptionString, "name", "snapshot name", true).
		Option(discordgo.ApplicationCommandOptionBoolean, "clean", "delete existing roles and channels first", false)
	group.On("delete", "deletes stored snapshot", mod.commandDelete).
		Option(discordgo.ApplicationCommandOptionString, "name", "snapshot name", true)
	group.On("history", "lists latest template runs", mod.commandHistory)

	return nil
}

func (mod *module) Configure(config *bot.Configuration, guild *discordgo.Guild) {
	s, err := config.Repository.ConfigGet(guild.ID, "template", "clean")
	if err != nil {
		config.Log.WithError(err).Error("Getting template clean setting")
		return
	}

	mod.m.Lock()
	defer mod.m.Unlock()

	if s == "" {
		delete(mod.clean, guild.ID)

		return
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		config.Log.WithError(err).Error("Parsing template clean setting")

		delete(mod.clean, guild.ID)

		return
	}

	mod.clean[guild.ID] = v
}

func (mod *module) Shutdown(*bot.Configuration) {

}

// shouldClean resolves clean option, then guild setting, then server config, defaulting to true
func (mod *module) shouldClean(guildID string, opts router.Options) bool {
	if v, ok := opts.Bool("clean"); ok {
		return v
	}

	return mod.cleanDefault(guildID)
}

func (mod *module) cleanDefault(guildID string) bool {
	mod.m.RLock()
	v, ok := mod.clean[guildID]
	mod.m.RUnlock()

	if ok {
		return v
	}

	if c := mod.config.Config.Server(guildID).Clean; c != nil {
		return *c
	}

	return true
}

func (mod *module) snapshotsKept(guildID string) int {
	if n := mod.config.Config.Server(guildID).Snapshots; n > 0 {
		return n
	}

	return config.DefaultSnapshots
}

// snapshotName orders snapshots by start time, run id suffix keeps same-second exports apart
func snapshotName(started time.Time, runID string) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}

	return started.UTC().Format(SnapshotLayout) + "-" + runID
}

type run struct {
	id      string
	kind    string
	guildID string
	userID  string
	started time.Time
	log     logrus.FieldLogger
}

func (mod *module) newRun(ctx *router.Context, kind string) *run {
	id := uuid.New().String()

	return &run{
		id:      id,
		kind:    kind,
		guildID: ctx.GuildID(),
		userID:  ctx.UserID(),
		started: time.Now(),
		log: mod.config.Log.
			WithField("run", id).
			WithField("kind", kind).
			WithField("guild", ctx.GuildID()).
			WithField("user", ctx.UserID()),
	}
}

func (mod *module) record(r *run, name, summary string, failures int) {
	r.log.WithField("failures", failures).Info(summary)

	if mod.config.History == nil {
		return
	}

	err := mod.config.History.Record(context.Background(), &history.Entry{
		ID:         r.id,
		GuildID:    r.guildID,
		UserID:     r.userID,
		Kind:       r.kind,
		Name:       name,
		Summary:    summary,
		Failures:   failures,
		StartedAt:  r.started,
		FinishedAt: time.Now(),
	})
	if err != nil {
		r.log.WithError(err).Error("Recording run")
	}
}

func (mod *module) commandExport(ctx *router.Context) error {
	err := ctx.Defer(false)
	if err != nil {
		return err
	}

	r := mod.newRun(ctx, history.KindExport)

	doc, err := (&template.Exporter{
		Session: ctx.Session,
		Log:     r.log,
	}).Export(context.Background(), ctx.GuildID())
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}

	err = template.Encode(buf, doc)
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("%d roles, %d categories, %d channels",
		len(doc.Roles), len(doc.Categories), doc.ChannelCount())

	name := snapshotName(r.started, r.id)

	err = mod.config.Repository.SnapshotSave(ctx.GuildID(), name, doc, mod.snapshotsKept(ctx.GuildID()))
	if err != nil {
		r.log.WithError(err).Error("Saving snapshot")
	} else {
		summary += ", snapshot " + name
	}

	mod.record(r, doc.Name, summary, 0)

	return ctx.ReplyFile("Exported "+summary, template.FileName(doc), buf)
}

func (mod *module) fetch(ctx *router.Context) (*template.Document, string, error) {
	att := ctx.Attachment("file")
	if att == nil {
		return nil, "", ErrMissingAttachment
	}

	doc, err := Fetch(context.Background(), mod.config.HTTPClient, att.URL)
	if err != nil {
		return nil, "", err
	}

	return doc, att.Filename, nil
}

func (mod *module) commandImport(ctx *router.Context) error {
	if ctx.Attachment("file") == nil {
		return ErrMissingAttachment
	}

	err := ctx.Defer(false)
	if err != nil {
		return err
	}

	doc, name, err := mod.fetch(ctx)
	if err != nil {
		return err
	}

	return mod.apply(ctx, doc, name)
}

func (mod *module) commandRestore(ctx *router.Context) error {
	name := ctx.Options.String("name")
	if name == "" {
		return ErrMissingSnapshot
	}

	doc, err := mod.config.Repository.SnapshotGet(ctx.GuildID(), name)
	if err != nil {
		return err
	}

	err = ctx.Defer(false)
	if err != nil {
		return err
	}

	return mod.apply(ctx, doc, name)
}

func (mod *module) apply(ctx *router.Context, doc *template.Document, name string) error {
	clean := mod.shouldClean(ctx.GuildID(), ctx.Options)

	r := mod.newRun(ctx, history.KindImport)

	pipeline := &Pipeline{
		Session: ctx.Session,
		Log:     r.log,
		Progress: func(text string) {
			if err := ctx.Progress(text); err != nil {
				r.log.WithError(err).Warn("Reporting progress")
			}
		},
	}

	res, err := pipeline.Apply(context.Background(), ctx.GuildID(), ctx.Session.State.User.ID, doc, clean)
	if res != nil {
		mod.recordResult(ctx, r, name, res)
	}

	if err != nil {
		return err
	}

	text := "**" + doc.Name + "**\n" + res.String()
	if n := res.Failures(); n > 0 {
		text += fmt.Sprintf("\n%d operations failed, see logs of run %s", n, r.id)
	}

	return ctx.ReplyEmbed(text)
}

// recordResult records clean step as a separate run followed by import run
func (mod *module) recordResult(ctx *router.Context, r *run, name string, res *Result) {
	if res.Cleaned != nil {
		cr := mod.newRun(ctx, history.KindClean)
		cr.started = r.started

		mod.record(cr, name, res.Cleaned.String(), len(res.Cleaned.Failures))
	}

	if res.Imported != nil {
		mod.record(r, name, res.Imported.String(), len(res.Imported.Failures))
	}
}

func (mod *module) commandPreview(ctx *router.Context) error {
	if ctx.Attachment("file") == nil {
		return ErrMissingAttachment
	}

	err := ctx.Defer(true)
	if err != nil {
		return err
	}

	doc, _, err := mod.fetch(ctx)
	if err != nil {
		return err
	}

	return ctx.ReplyEmbed(Summary(doc))
}

func (mod *module) commandSnapshots(ctx *router.Context) error {
	names, err := mod.config.Repository.SnapshotList(ctx.GuildID())
	if err != nil {
		return err
	}

	if len(names) == 0 {
		return ctx.Reply("no snapshots stored")
	}

	return ctx.ReplyEmbed("```\n" + strings.Join(names, "\n") + "\n```")
}

func (mod *module) commandDelete(ctx *router.Context) error {
	name := ctx.Options.String("name")
	if name == "" {
		return ErrMissingSnapshot
	}

	err := mod.config.Repository.SnapshotDel(ctx.GuildID(), name)
	if err != nil {
		return err
	}

	return ctx.Reply("deleted snapshot " + name)
}

func (mod *module) commandHistory(ctx *router.Context) error {
	if mod.config.History == nil {
		return ErrNoHistory
	}

	entries, err := mod.config.History.List(context.Background(), ctx.GuildID(), historyLimit)
	if err != nil {
		return err
	}

	return ctx.ReplyEmbed(RenderHistory(entries))
}
