package handlers

import (
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/kagurabytes/chatstats/chatstats"
	"github.com/kagurabytes/chatstats/chatstats/access"
)

// WrapWithLogging wraps a command handler with timing and outcome logging.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)

		err := h(e)
		duration := time.Since(start)

		attrs := []any{
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.Duration("took", duration),
		}
		if err != nil {
			slog.Error("Command failed", append(attrs,
				slog.Any("error", err),
				slog.String("status", "failed"),
			)...)
		} else if duration > 2*time.Second {
			slog.Warn("Command executed slowly", append(attrs,
				slog.String("status", "slow"),
			)...)
		} else {
			slog.Info("Command completed", append(attrs,
				slog.String("status", "success"),
			)...)
		}
		return err
	}
}

// WrapWithAccess gates a command handler behind the authorization policy
// and logs the invocation. Denied senders get the fixed denial reply and the
// wrapped handler never runs.
func WrapWithAccess(b *chatstats.Bot, cmd access.Command, h handler.CommandHandler) handler.CommandHandler {
	return WrapWithLogging(cmd.Name(), func(e *handler.CommandEvent) error {
		switch b.Policy.Authorize(cmd, e.User().ID) {
		case access.Allow:
			return h(e)
		case access.DenyAdminOnly:
			slog.Warn("Staff command denied",
				slog.String("type", "cmd"),
				slog.String("name", cmd.Name()),
				slog.String("user_id", e.User().ID.String()),
				slog.String("status", "denied"),
			)
			return e.CreateMessage(discord.MessageCreate{Content: b.Cfg.Messages.AdminOnly})
		default:
			slog.Warn("Command denied",
				slog.String("type", "cmd"),
				slog.String("name", cmd.Name()),
				slog.String("user_id", e.User().ID.String()),
				slog.String("status", "denied"),
			)
			return e.CreateMessage(discord.MessageCreate{Content: b.Cfg.Messages.NotAllowed})
		}
	})
}
