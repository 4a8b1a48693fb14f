// Package template provides export, cleanup and import of guild structure templates
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// TimeLayout is used for exportedAt values
const TimeLayout = "2006-01-02T15:04:05.000Z"

// EveryoneRole is the name of guild default role
const EveryoneRole = "@everyone"

var (
	// ErrInvalidTemplate is returned when document lacks required top-level fields
	ErrInvalidTemplate = errors.New("invalid template")
)

// Document is a portable snapshot of guild structure
type Document struct {
	Name                  string     `json:"name"`
	Roles                 []Role     `json:"roles"`
	Categories            []Category `json:"categories"`
	UncategorizedChannels []Channel  `json:"uncategorizedChannels"`
	ExportedAt            string     `json:"exportedAt"`
}

// Role describes a single guild role, name is used as a reference key on import
type Role struct {
	Name        string      `json:"name"`
	Color       int         `json:"color"`
	Hoist       bool        `json:"hoist"`
	Position    int         `json:"position"`
	Permissions Permissions `json:"permissions"`
	Mentionable bool        `json:"mentionable"`
}

// Category describes a channel category with its nested channels
type Category struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Position             int         `json:"position"`
	PermissionOverwrites []Overwrite `json:"permissionOverwrites"`
	Channels             []Channel   `json:"channels"`
}

// Channel describes a single guild channel
type Channel struct {
	Name                 string      `json:"name"`
	Type                 int         `json:"type"`
	Position             int         `json:"position"`
	PermissionOverwrites []Overwrite `json:"permissionOverwrites"`
}

// Overwrite describes a permission overwrite; ID is a role name for role overwrites
// and a member id for member overwrites
type Overwrite struct {
	ID    string      `json:"id"`
	Type  int         `json:"type"`
	Allow Permissions `json:"allow"`
	Deny  Permissions `json:"deny"`
}

// Validate checks presence of required top-level fields
func Validate(doc *Document) error {
	if doc == nil || doc.Roles == nil || doc.Categories == nil {
		return ErrInvalidTemplate
	}

	return nil
}

// Decode reads and validates document
func Decode(reader io.Reader) (*Document, error) {
	doc := &Document{}

	err := json.NewDecoder(reader).Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}

	err = Validate(doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Encode writes document as indented JSON
func Encode(writer io.Writer, doc *Document) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(doc)
}

// FileName returns attachment file name for document
func FileName(doc *Document) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(doc.Name)

	return name + "-template.json"
}

// ChannelCount returns total number of channels in document
func (doc *Document) ChannelCount() (n int) {
	n = len(doc.UncategorizedChannels)

	for _, c := range doc.Categories {
		n += len(c.Channels)
	}

	return
}
