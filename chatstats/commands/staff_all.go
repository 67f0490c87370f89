package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/kagurabytes/chatstats/chatstats"
	"github.com/kagurabytes/chatstats/chatstats/utils"
)

const usersPerPage = 5

var StaffAll = discord.SlashCommandCreate{
	Name:        "staff_all",
	Description: "📋 Full statistics for every user seen in either store",
}

func StaffAllHandler(b *chatstats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		views := b.Ledger.GetAllUsersFullStats(ctx)
		if len(views) == 0 {
			return e.CreateMessage(discord.MessageCreate{Content: b.Cfg.Messages.NoData})
		}
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].TotalMessages > views[j].TotalMessages
		})

		totalPages := (len(views) + usersPerPage - 1) / usersPerPage

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * usersPerPage
				endIdx := min(startIdx+usersPerPage, len(views))

				var description strings.Builder
				description.WriteString("📊 Full statistics for all users\n\n")
				for i, view := range views[startIdx:endIdx] {
					description.WriteString(utils.FormatFullStatsBlock(startIdx+i+1, view))
				}

				embed.
					SetTitle("All users").
					SetDescription(description.String()).
					SetColor(0x2B2D31).
					SetFooterText(fmt.Sprintf("Page %d/%d • Users: %d", page+1, totalPages, len(views)))
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
