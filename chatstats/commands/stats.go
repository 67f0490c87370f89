package commands

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/kagurabytes/chatstats/chatstats"
	"github.com/kagurabytes/chatstats/chatstats/utils"
)

var Stats = discord.SlashCommandCreate{
	Name:        "stats",
	Description: "📊 View your own message statistics",
}

func StatsHandler(b *chatstats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		view := b.Ledger.GetCombinedStats(ctx, e.User().ID, true)
		return e.CreateMessage(discord.MessageCreate{
			Content: utils.FormatUserStats(view),
		})
	}
}
