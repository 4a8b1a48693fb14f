package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/eientei/blueprint/template"

	"github.com/sirupsen/logrus"
)

// Result holds reports of pipeline steps, Cleaned is nil when guild was not cleaned
type Result struct {
	Cleaned  *template.Report
	Imported *template.Report
}

// Failures returns total number of failed entities
func (res *Result) Failures() (n int) {
	for _, r := range []*template.Report{res.Cleaned, res.Imported} {
		if r != nil {
			n += len(r.Failures)
		}
	}

	return
}

func (res *Result) String() string {
	var lines []string

	if res.Cleaned != nil {
		lines = append(lines, "cleaned: "+res.Cleaned.String())
	}

	if res.Imported != nil {
		lines = append(lines, "imported: "+res.Imported.String())
	}

	return strings.Join(lines, "\n")
}

// Pipeline applies template document to a guild, optionally wiping it first
type Pipeline struct {
	Session  template.Session
	Log      logrus.FieldLogger
	Progress func(text string)
}

func (p *Pipeline) progress(text string) {
	if p.Progress != nil {
		p.Progress(text)
	}
}

// Apply validates document, cleans guild if requested and imports document
func (p *Pipeline) Apply(
	ctx context.Context,
	guildID, botUserID string,
	doc *template.Document,
	clean bool,
) (*Result, error) {
	err := template.Validate(doc)
	if err != nil {
		return nil, err
	}

	res := &Result{}

	if clean {
		p.progress("Cleaning guild...")

		res.Cleaned, err = (&template.Cleaner{
			Session: p.Session,
			Log:     p.Log,
		}).Clean(ctx, guildID, botUserID)
		if err != nil {
			return nil, fmt.Errorf("cleaning guild: %w", err)
		}
	}

	res.Imported, err = (&template.Importer{
		Session: p.Session,
		Log:     p.Log,
		Progress: func(stage template.Stage) {
			p.progress("Creating " + string(stage) + "...")
		},
	}).Import(ctx, guildID, doc)
	if err != nil {
		return res, fmt.Errorf("importing template: %w", err)
	}

	return res, nil
}
