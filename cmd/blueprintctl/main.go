package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/eientei/blueprint/discordbot/modules/templates"
	"github.com/eientei/blueprint/history"
	"github.com/eientei/blueprint/template"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

const cliUser = "blueprintctl"

var errMissingToken = errors.New("missing bot token, use -t or BLUEPRINT_TOKEN")

var log = logrus.New()

var store *history.Store

var opts struct {
	Token    string `short:"t" long:"token" env:"BLUEPRINT_TOKEN" description:"Bot token"`
	Database string `short:"d" long:"database" env:"BLUEPRINT_DATABASE" description:"Postgres DSN for run history"`
	Verbose  bool   `short:"v" long:"verbose" description:"Log every entity operation"`
}

type exportCommand struct {
	GuildID string `short:"g" long:"guild" required:"true" description:"Guild id"`
	Output  string `short:"o" long:"output" description:"Output file (<name>-template.json), - for stdout"`
}

type importCommand struct {
	GuildID string `short:"g" long:"guild" required:"true" description:"Guild id"`
	File    string `short:"f" long:"file" required:"true" description:"Template file"`
	NoClean bool   `long:"no-clean" description:"Keep existing roles and channels"`
}

type cleanCommand struct {
	GuildID string `short:"g" long:"guild" required:"true" description:"Guild id"`
}

type previewCommand struct {
	File string `short:"f" long:"file" required:"true" description:"Template file"`
}

func session() (*discordgo.Session, error) {
	if opts.Token == "" {
		return nil, errMissingToken
	}

	return discordgo.New("Bot " + opts.Token)
}

func botUserID(s *discordgo.Session) (string, error) {
	u, err := s.User("@me")
	if err != nil {
		return "", fmt.Errorf("getting bot user: %w", err)
	}

	return u.ID, nil
}

func record(kind, guildID, name, summary string, failures int, started time.Time) {
	if store == nil {
		return
	}

	err := store.Record(context.Background(), &history.Entry{
		ID:         uuid.New().String(),
		GuildID:    guildID,
		UserID:     cliUser,
		Kind:       kind,
		Name:       name,
		Summary:    summary,
		Failures:   failures,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	if err != nil {
		log.WithError(err).Error("Recording run")
	}
}

func readDocument(path string) (*template.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = f.Close()
	}()

	return template.Decode(f)
}

// writeDocument encodes document to path, - writes to stdout
func writeDocument(path string, doc *template.Document) (err error) {
	var w io.Writer = os.Stdout

	if path != "-" {
		f, ferr := os.Create(path)
		if ferr != nil {
			return ferr
		}

		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()

		w = f
	}

	return template.Encode(w, doc)
}

func (cmd *exportCommand) Execute([]string) error {
	started := time.Now()

	s, err := session()
	if err != nil {
		return err
	}

	doc, err := (&template.Exporter{Session: s, Log: log}).Export(context.Background(), cmd.GuildID)
	if err != nil {
		return err
	}

	output := cmd.Output
	if output == "" {
		output = template.FileName(doc)
	}

	err = writeDocument(output, doc)
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("%d roles, %d categories, %d channels",
		len(doc.Roles), len(doc.Categories), doc.ChannelCount())

	log.WithField("file", output).Info("Exported " + summary)

	record(history.KindExport, cmd.GuildID, doc.Name, summary, 0, started)

	return nil
}

func (cmd *importCommand) Execute([]string) error {
	started := time.Now()

	doc, err := readDocument(cmd.File)
	if err != nil {
		return err
	}

	s, err := session()
	if err != nil {
		return err
	}

	botID, err := botUserID(s)
	if err != nil {
		return err
	}

	res, err := (&templates.Pipeline{
		Session: s,
		Log:     log,
		Progress: func(text string) {
			log.Info(text)
		},
	}).Apply(context.Background(), cmd.GuildID, botID, doc, !cmd.NoClean)

	if res != nil {
		if res.Cleaned != nil {
			record(history.KindClean, cmd.GuildID, cmd.File, res.Cleaned.String(), len(res.Cleaned.Failures), started)
		}

		if res.Imported != nil {
			record(history.KindImport, cmd.GuildID, cmd.File, res.Imported.String(), len(res.Imported.Failures), started)
		}

		fmt.Println(res.String())

		if n := res.Failures(); n > 0 {
			log.WithField("failures", n).Warn("Some operations failed")
		}
	}

	return err
}

func (cmd *cleanCommand) Execute([]string) error {
	started := time.Now()

	s, err := session()
	if err != nil {
		return err
	}

	botID, err := botUserID(s)
	if err != nil {
		return err
	}

	report, err := (&template.Cleaner{Session: s, Log: log}).Clean(context.Background(), cmd.GuildID, botID)
	if err != nil {
		return err
	}

	record(history.KindClean, cmd.GuildID, cmd.GuildID, report.String(), len(report.Failures), started)

	fmt.Println(report.String())

	return nil
}

func (cmd *previewCommand) Execute([]string) error {
	doc, err := readDocument(cmd.File)
	if err != nil {
		return err
	}

	fmt.Println(templates.Summary(doc))

	return nil
}

func execute(command flags.Commander, args []string) (err error) {
	if opts.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if opts.Database != "" {
		store, err = history.Open(context.Background(), opts.Database)
		if err != nil {
			return err
		}

		defer func() {
			if cerr := store.Close(); err == nil {
				err = cerr
			}
		}()
	}

	return command.Execute(args)
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = execute

	_, _ = p.AddCommand("export", "Export guild", "Writes guild structure to template file", &exportCommand{})
	_, _ = p.AddCommand("import", "Import template", "Recreates template structure in guild", &importCommand{})
	_, _ = p.AddCommand("clean", "Clean guild", "Deletes roles and channels manageable by bot", &cleanCommand{})
	_, _ = p.AddCommand("preview", "Preview template", "Prints template summary", &previewCommand{})

	_, err := p.Parse()
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}

		os.Exit(1)
	}
}
