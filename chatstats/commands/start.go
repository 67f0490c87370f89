package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/kagurabytes/chatstats/chatstats"
)

var Start = discord.SlashCommandCreate{
	Name:        "start",
	Description: "👋 What this bot does and which commands are available",
}

func StartHandler(b *chatstats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{Content: b.Cfg.Messages.Start})
	}
}
