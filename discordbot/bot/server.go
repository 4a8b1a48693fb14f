package bot

import "sync"

type server struct {
	m     *sync.RWMutex
	admin string
}

func (bot *Bot) guild(guildID string) (guild *server) {
	bot.m.RLock()

	guild, ok := bot.servers[guildID]

	bot.m.RUnlock()

	if ok {
		return
	}

	bot.m.Lock()
	defer bot.m.Unlock()

	if guild, ok = bot.servers[guildID]; ok {
		return
	}

	guild = &server{
		m: &sync.RWMutex{},
	}

	bot.servers[guildID] = guild

	return
}

func (srv *server) adminRole() string {
	srv.m.RLock()
	defer srv.m.RUnlock()

	return srv.admin
}
