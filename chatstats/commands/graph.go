package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/kagurabytes/chatstats/chatstats"
)

var Graph = discord.SlashCommandCreate{
	Name:        "graph",
	Description: "📈 Render an activity chart",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "type",
			Description: "Which chart to render",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "activity", Value: "activity"},
				{Name: "timeline", Value: "timeline"},
			},
		},
		discord.ApplicationCommandOptionBool{
			Name:        "daily",
			Description: "Use today's counters instead of all-time (activity chart only)",
		},
		discord.ApplicationCommandOptionInt{
			Name:        "days",
			Description: "Window in days for the timeline chart",
		},
	},
}

func GraphHandler(b *chatstats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		chartType := data.String("type")
		daily, _ := data.OptBool("daily")
		days, ok := data.OptInt("days")
		if !ok || days <= 0 {
			days = b.Cfg.Stats.TimelineDays
		}

		// Rendering goes through headless Chrome; defer so the
		// interaction does not time out.
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var (
			png []byte
			err error
		)
		switch chartType {
		case "timeline":
			png, err = b.ChartService.TimelineChart(ctx, b.Ledger.Timeline(ctx, days), days)
		default:
			title := "All-time activity"
			if daily {
				title = "Today's activity"
			}
			ranks := b.Ledger.TopUsersOf(ctx, daily, b.Cfg.Stats.TopLimit)
			png, err = b.ChartService.ActivityChart(ctx, title, ranks)
		}
		if err != nil {
			_, err = e.CreateFollowupMessage(discord.MessageCreate{Content: b.Cfg.Messages.NoData})
			return err
		}

		name := fmt.Sprintf("%s.png", chartType)
		var content string
		if b.SpacesService != nil {
			url, err := b.SpacesService.UploadExport(ctx, name, png, "image/png")
			if err != nil {
				slog.Error("Chart upload failed",
					slog.String("file", name),
					slog.Any("error", err))
			} else {
				content = url
			}
		}

		_, err = e.CreateFollowupMessage(discord.MessageCreate{
			Content: content,
			Files: []*discord.File{
				discord.NewFile(name, "", bytes.NewReader(png)),
			},
		})
		return err
	}
}
