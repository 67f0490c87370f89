package commands

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/kagurabytes/chatstats/chatstats"
	"github.com/kagurabytes/chatstats/chatstats/utils"
)

var TopUsers = discord.SlashCommandCreate{
	Name:        "topusers",
	Description: "🏆 The most active users, all-time and today",
}

func TopUsersHandler(b *chatstats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		top := b.Ledger.GetTopUsers(ctx, b.Cfg.Stats.TopLimit)
		if len(top.AllTime) == 0 && len(top.Daily) == 0 {
			return e.CreateMessage(discord.MessageCreate{Content: b.Cfg.Messages.NoData})
		}

		return e.CreateMessage(discord.MessageCreate{
			Content: utils.FormatTopUsers(top),
		})
	}
}
