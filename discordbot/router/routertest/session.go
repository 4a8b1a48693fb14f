// Package routertest provides discord session recording REST requests for tests
package routertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Request is a recorded REST request
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Decode unmarshals request body
func (req Request) Decode(v interface{}) error {
	return json.Unmarshal(req.Body, v)
}

// Recorder answers every request with empty JSON object and records it
type Recorder struct {
	m        sync.Mutex
	requests []Request
}

// RoundTrip implementation
func (rec *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte

	if req.Body != nil {
		bs, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}

		_ = req.Body.Close()

		body = bs
	}

	rec.m.Lock()
	rec.requests = append(rec.requests, Request{
		Method: req.Method,
		Path:   req.URL.Path,
		Body:   body,
	})
	rec.m.Unlock()

	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString("{}")),
		Request:    req,
	}, nil
}

// Requests returns recorded requests
func (rec *Recorder) Requests() []Request {
	rec.m.Lock()
	defer rec.m.Unlock()

	return append([]Request(nil), rec.requests...)
}

// Responses returns interaction responses and response edits decoded as response data
func (rec *Recorder) Responses() (res []*discordgo.InteractionResponseData) {
	for _, r := range rec.Requests() {
		switch {
		case strings.HasSuffix(r.Path, "/callback"):
			resp := &discordgo.InteractionResponse{}
			if err := r.Decode(resp); err == nil && resp.Data != nil {
				res = append(res, resp.Data)
			}
		case strings.Contains(r.Path, "/webhooks/") && r.Method == http.MethodPatch:
			data := &discordgo.InteractionResponseData{}
			if err := r.Decode(data); err == nil {
				res = append(res, data)
			}
		}
	}

	return
}

// NewSession returns REST session sending requests to recorder
func NewSession() (*discordgo.Session, *Recorder, error) {
	s, err := discordgo.New("Bot test")
	if err != nil {
		return nil, nil, err
	}

	rec := &Recorder{}

	s.Client = &http.Client{Transport: rec}
	s.State.User = &discordgo.User{ID: "bot"}

	return s, rec, nil
}

// Interaction returns application command interaction invoked by administrator in guild g1.
// Non-empty sub selects a subcommand of command.
func Interaction(command, sub string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	data := discordgo.ApplicationCommandInteractionData{
		Name:    command,
		Options: options,
	}

	if sub != "" {
		data.Options = []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name:    sub,
				Type:    discordgo.ApplicationCommandOptionSubCommand,
				Options: options,
			},
		}
	}

	return &discordgo.Interaction{
		ID:      "i1",
		AppID:   "app",
		Token:   "token",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "g1",
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: "u1"},
			Permissions: discordgo.PermissionAdministrator,
		},
		Data: data,
	}
}

// String returns string command option
func String(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

// Bool returns boolean command option
func Bool(name string, value bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionBoolean,
		Value: value,
	}
}
