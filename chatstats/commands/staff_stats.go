package commands

import (
	"context"
	"sort"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/kagurabytes/chatstats/chatstats"
	"github.com/kagurabytes/chatstats/chatstats/database/models"
	"github.com/kagurabytes/chatstats/chatstats/utils"
)

var StaffStats = discord.SlashCommandCreate{
	Name:        "staff_stats",
	Description: "👥 Detailed statistics for every allowed user",
}

func StaffStatsHandler(b *chatstats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		views := make([]models.AggregatedUserView, 0, len(b.Cfg.Bot.AllowedUsers))
		for _, userID := range b.Cfg.Bot.AllowedUsers {
			views = append(views, b.Ledger.GetCombinedStats(ctx, userID, true))
		}
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].TotalMessages > views[j].TotalMessages
		})

		return e.CreateMessage(discord.MessageCreate{
			Content: utils.FormatStaffStats(views),
		})
	}
}
