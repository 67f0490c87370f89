package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/kagurabytes/chatstats/chatstats"
)

const (
	privilegeCacheSize = 128
	privilegeCacheTTL  = 5 * time.Minute
	recordTimeout      = 5 * time.Second
)

type privilegeEntry struct {
	privileged bool
	checkedAt  time.Time
}

// MessageHandler consumes plain messages and feeds the ledger.
//
// Unauthorized senders are dropped silently, unlike commands which get a
// denial reply: replying in a group would announce the bot to members who
// are not supposed to know what it tracks.
func MessageHandler(b *chatstats.Bot) bot.EventListener {
	privCache, _ := lru.New(privilegeCacheSize)

	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		author := e.Message.Author
		if author.Bot || author.System {
			return
		}

		if !b.Policy.IsAllowed(author.ID) {
			slog.Debug("Dropping message from unauthorized user",
				slog.Int64("user_id", int64(author.ID)))
			return
		}

		username := displayName(author)
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		// Direct messages are recorded unconditionally.
		if e.GuildID == nil {
			b.Ledger.RecordMessage(ctx, author.ID, username)
			return
		}

		privileged, err := botIsPrivileged(ctx, e.Client(), privCache, *e.GuildID)
		if err != nil {
			slog.Error("Failed to check bot privileges in guild",
				slog.Int64("guild_id", int64(*e.GuildID)),
				slog.Any("error", err))
			return
		}
		if !privileged {
			if _, err := e.Client().Rest().CreateMessage(e.ChannelID, discord.MessageCreate{
				Content: b.Cfg.Messages.NotAdmin,
			}); err != nil {
				slog.Error("Failed to send needs-admin notice", slog.Any("error", err))
			}
			return
		}

		b.Ledger.RecordMessage(ctx, author.ID, username)
	})
}

func displayName(user discord.User) string {
	if user.Username != "" {
		return user.Username
	}
	if user.GlobalName != nil {
		return *user.GlobalName
	}
	return "Unknown"
}

// botIsPrivileged reports whether the bot holds administrator rights (or
// owns) the guild. Lookups are cached per guild with a TTL so a busy chat
// does not hammer the member endpoint on every message.
func botIsPrivileged(ctx context.Context, client bot.Client, cache *lru.Cache, guildID snowflake.ID) (bool, error) {
	if v, ok := cache.Get(guildID); ok {
		entry := v.(privilegeEntry)
		if time.Since(entry.checkedAt) < privilegeCacheTTL {
			return entry.privileged, nil
		}
	}

	privileged, err := lookupBotPrivileges(ctx, client.ID(), client.Rest(), guildID)
	if err != nil {
		return false, err
	}

	cache.Add(guildID, privilegeEntry{privileged: privileged, checkedAt: time.Now()})
	return privileged, nil
}

// guildAPI is the slice of the REST surface the privilege lookup needs.
type guildAPI interface {
	GetGuild(guildID snowflake.ID, withCounts bool, opts ...rest.RequestOpt) (*discord.RestGuild, error)
	GetMember(guildID snowflake.ID, userID snowflake.ID, opts ...rest.RequestOpt) (*discord.Member, error)
	GetRoles(guildID snowflake.ID, opts ...rest.RequestOpt) ([]discord.Role, error)
}

func lookupBotPrivileges(ctx context.Context, botID snowflake.ID, api guildAPI, guildID snowflake.ID) (bool, error) {
	guild, err := api.GetGuild(guildID, false, rest.WithCtx(ctx))
	if err != nil {
		return false, err
	}
	if guild.OwnerID == botID {
		return true, nil
	}

	member, err := api.GetMember(guildID, botID, rest.WithCtx(ctx))
	if err != nil {
		return false, err
	}
	roles, err := api.GetRoles(guildID, rest.WithCtx(ctx))
	if err != nil {
		return false, err
	}

	memberRoles := make(map[snowflake.ID]struct{}, len(member.RoleIDs))
	for _, id := range member.RoleIDs {
		memberRoles[id] = struct{}{}
	}

	var perms discord.Permissions
	for _, role := range roles {
		// The everyone role carries the guild's base permissions.
		if role.ID == guildID {
			perms = perms.Add(role.Permissions)
			continue
		}
		if _, ok := memberRoles[role.ID]; ok {
			perms = perms.Add(role.Permissions)
		}
	}

	return perms.Has(discord.PermissionAdministrator), nil
}
