package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/kagurabytes/chatstats/chatstats"
)

var StaffExport = discord.SlashCommandCreate{
	Name:        "staff_export",
	Description: "📦 Export both counter stores as CSV",
}

func StaffExportHandler(b *chatstats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		allTime, daily := b.Ledger.ExportAll(ctx)
		if allTime == nil && daily == nil {
			return e.CreateMessage(discord.MessageCreate{Content: b.Cfg.Messages.NoData})
		}

		var files []*discord.File
		if allTime != nil {
			files = append(files, discord.NewFile("stats_alltime.csv", "", bytes.NewReader(allTime)))
		}
		if daily != nil {
			files = append(files, discord.NewFile("stats_daily.csv", "", bytes.NewReader(daily)))
		}

		var content strings.Builder
		content.WriteString("📦 Counter store export")

		if b.SpacesService != nil {
			for name, blob := range map[string][]byte{
				"stats_alltime.csv": allTime,
				"stats_daily.csv":   daily,
			} {
				if blob == nil {
					continue
				}
				url, err := b.SpacesService.UploadExport(ctx, name, blob, "text/csv")
				if err != nil {
					slog.Error("Export upload failed",
						slog.String("file", name),
						slog.Any("error", err))
					continue
				}
				fmt.Fprintf(&content, "\n%s: %s", name, url)
			}
		}

		return e.CreateMessage(discord.MessageCreate{
			Content: content.String(),
			Files:   files,
		})
	}
}
