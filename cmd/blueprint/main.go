package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/eientei/blueprint/discordbot/bot"
	yamlConfig "github.com/eientei/blueprint/discordbot/config"
	"github.com/eientei/blueprint/discordbot/modules/auth"
	"github.com/eientei/blueprint/discordbot/modules/config"
	"github.com/eientei/blueprint/discordbot/modules/help"
	"github.com/eientei/blueprint/discordbot/modules/reply"
	"github.com/eientei/blueprint/discordbot/modules/templates"
	"github.com/eientei/blueprint/history"

	"github.com/bwmarrin/discordgo"
	"github.com/go-redis/redis/v7"
	"github.com/sirupsen/logrus"
)

var errMissingToken = errors.New("missing token in config")

func readConfig(configPath string) (c *yamlConfig.Root, err error) {
	configFile, err := os.OpenFile(configPath, os.O_CREATE|os.O_RDONLY, 0644)
	if err != nil {
		return nil, err
	}

	defer func() {
		if cerr := configFile.Close(); err == nil {
			err = cerr
		}
	}()

	return yamlConfig.Read(configFile)
}

func run(log *logrus.Logger, configPath string) (err error) {
	configRoot, err := readConfig(configPath)
	if err != nil {
		return err
	}

	if configRoot.Private.Token == "" {
		return errMissingToken
	}

	dg, err := discordgo.New("Bot " + configRoot.Private.Token)
	if err != nil {
		return err
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds)

	client := redis.NewClient(&redis.Options{
		Addr:     configRoot.Private.Redis.Address,
		Password: configRoot.Private.Redis.Password,
		DB:       configRoot.Private.Redis.DB,
	})

	defer func() {
		_ = client.Close()
	}()

	var store *history.Store

	if configRoot.Private.Database != "" {
		store, err = history.Open(context.Background(), configRoot.Private.Database)
		if err != nil {
			return err
		}

		defer func() {
			if cerr := store.Close(); err == nil {
				err = cerr
			}
		}()
	}

	b, err := bot.NewBot(bot.Options{
		Discord: dg,
		Client:  client,
		Config:  configRoot,
		Log:     log,
		History: store,
		Modules: []bot.Module{
			reply.New(),
			auth.New(),
			help.New(),
			config.New(),
			templates.New(),
		},
	})
	if err != nil {
		return err
	}

	return b.Serve()
}

func main() {
	log := logrus.New()

	configPath := flag.String("c", "config.yml", "Configuration file")
	debug := flag.Bool("d", false, "Debug logging")

	flag.Parse()

	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	err := run(log, *configPath)
	if err != nil {
		flag.PrintDefaults()
		log.Fatal(err)
	}
}
