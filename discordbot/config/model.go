package config

import (
	"time"
)

// Redis connection part of configuration
type Redis struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Fetch configures downloading of template attachments
type Fetch struct {
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxSize   int64         `yaml:"max_size"`
}

// Private part of configuration
type Private struct {
	Token    string   `yaml:"token"`
	Database string   `yaml:"database"`
	Guilds   []string `yaml:"guilds"`
	Redis    Redis    `yaml:"redis"`
	Fetch    Fetch    `yaml:"fetch"`
}

// Server specific part of configuration
type Server struct {
	GuildID   string   `yaml:"id"`
	Clean     *bool    `yaml:"clean"`
	Snapshots int      `yaml:"snapshots"`
	Admins    []string `yaml:"admins"`
}

// Root of configuration
type Root struct {
	Servers []Server `yaml:"servers"`
	Private Private  `yaml:"private"`
}

// Server returns server specific configuration, or empty one
func (root *Root) Server(guildID string) Server {
	for _, s := range root.Servers {
		if s.GuildID == guildID {
			return s
		}
	}

	return Server{
		GuildID: guildID,
	}
}
