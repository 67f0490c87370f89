package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand   LogType = "CMD"
	TypeDB        LogType = "DB"
	TypeSystem    LogType = "SYS"
	TypeScheduler LogType = "SCHED"
	TypeError     LogType = "ERR"
)

// Handler is a colored console handler for slog. Gateway chatter from the
// transport library is filtered out.
type Handler struct {
	level slog.Level
	attrs []slog.Attr
}

func NewHandler(level slog.Level) *Handler {
	return &Handler{level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return h
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	timestamp := time.Now().Format("15:04:05")

	var levelColor, levelText string
	switch r.Level {
	case slog.LevelDebug:
		levelColor = colorPurple
		levelText = "DEBUG"
	case slog.LevelInfo:
		levelColor = colorGreen
		levelText = "INFO"
	case slog.LevelWarn:
		levelColor = colorYellow
		levelText = "WARN"
	case slog.LevelError:
		levelColor = colorRed
		levelText = "ERROR"
	}

	var attrsStr strings.Builder
	logType := TypeSystem
	appendAttr := func(a slog.Attr) {
		if a.Key == "type" {
			switch a.Value.String() {
			case "cmd":
				logType = TypeCommand
			case "db":
				logType = TypeDB
			case "sched":
				logType = TypeScheduler
			case "error":
				logType = TypeError
			}
			return
		}
		fmt.Fprintf(&attrsStr, " %s=%v", a.Key, a.Value)
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(a)
		return true
	})

	fmt.Printf("%s[chatstats] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		timestamp,
		levelColor,
		levelText,
		colorWhite,
		logType,
		r.Message,
		attrsStr.String(),
		colorReset,
	)
	return nil
}

func shouldSkipLog(r *slog.Record) bool {
	skippedMessages := []string{
		"gateway event",
		"sending heartbeat",
		"sending gateway command",
		"received gateway message",
		"opening gateway connection",
		"locking gateway rate limiter",
		"unlocking gateway rate limiter",
		"new request",
		"new response",
		"locking rest bucket",
		"unlocking rest bucket",
	}

	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}
