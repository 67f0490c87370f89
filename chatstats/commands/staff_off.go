package commands

import (
	"context"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/kagurabytes/chatstats/chatstats"
)

var StaffOff = discord.SlashCommandCreate{
	Name:        "staff_off",
	Description: "🔄 Reset today's counters right now",
}

// StaffOffHandler is the manual counterpart of the scheduled midnight reset,
// for when a firing failed or staff want a clean slate mid-day.
func StaffOffHandler(b *chatstats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		content := b.Cfg.Messages.ResetOK
		if !b.Ledger.ResetDaily(ctx) {
			content = b.Cfg.Messages.ResetFail
		}
		return e.CreateMessage(discord.MessageCreate{Content: content})
	}
}
