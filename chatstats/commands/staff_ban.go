package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/kagurabytes/chatstats/chatstats"
	"github.com/kagurabytes/chatstats/chatstats/database/models"
	"github.com/sahilm/fuzzy"
)

var StaffBan = discord.SlashCommandCreate{
	Name:        "staff_ban",
	Description: "🚫 Freeze or unfreeze a user's counters (history is kept)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionBool{
			Name:        "banned",
			Description: "true to freeze, false to unfreeze",
			Required:    true,
		},
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to update",
		},
		discord.ApplicationCommandOptionString{
			Name:        "name",
			Description: "Username to match when the user is not mentionable",
		},
	},
}

func StaffBanHandler(b *chatstats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()
		banned := data.Bool("banned")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		userID, username, ok := resolveTarget(ctx, b, data)
		if !ok {
			return e.CreateMessage(discord.MessageCreate{
				Content: "❌ Give me a user mention or a username I know.",
			})
		}

		b.Ledger.SetBanned(ctx, userID, banned)

		action := "frozen"
		if !banned {
			action = "unfrozen"
		}
		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("🚫 Counters for @%s are now %s.", username, action),
		})
	}
}

// resolveTarget picks the target from the user option, or fuzzy-matches the
// name option against every known user.
func resolveTarget(ctx context.Context, b *chatstats.Bot, data discord.SlashCommandInteractionData) (snowflake.ID, string, bool) {
	if userID, ok := data.OptSnowflake("user"); ok {
		username := data.String("name")
		if username == "" {
			if view := b.Ledger.GetCombinedStats(ctx, userID, false); view.Username != "Unknown" {
				username = view.Username
			} else {
				username = userID.String()
			}
		}
		return userID, username, true
	}

	name, ok := data.OptString("name")
	if !ok || name == "" {
		return 0, "", false
	}

	known := b.Ledger.KnownUsers(ctx)
	if match, found := matchUser(name, known); found {
		return snowflake.ID(match.UserID), match.Username, true
	}
	return 0, "", false
}

func matchUser(name string, known []models.UserRef) (models.UserRef, bool) {
	names := make([]string, len(known))
	for i, ref := range known {
		names[i] = ref.Username
	}
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return models.UserRef{}, false
	}
	return known[matches[0].Index], true
}
