package utils

import (
	"fmt"
	"strings"

	"github.com/kagurabytes/chatstats/chatstats/database/models"
	"github.com/kagurabytes/chatstats/chatstats/stats"
)

const divider = "━━━━━━━━━━━━━━━"

// FormatUserStats renders one user's combined statistics.
func FormatUserStats(view models.AggregatedUserView) string {
	return fmt.Sprintf("📊 Statistics for @%s\n%s\n📝 Total messages: %d\n🕒 Last message: %s\n%s",
		view.Username, divider, view.TotalMessages, view.LastMessage, divider)
}

// FormatTopUsers renders the ranked listings from both stores.
func FormatTopUsers(top stats.TopUsers) string {
	var b strings.Builder
	b.WriteString("📊 Message statistics\n")
	b.WriteString(divider + "\n\n")
	b.WriteString("🏆 Most active users:\n")
	for i, rank := range top.AllTime {
		fmt.Fprintf(&b, "%s %d. @%s: %d messages\n", medal(i+1), i+1, rank.Username, rank.MessageCount)
	}

	if len(top.Daily) > 0 {
		b.WriteString("\n📅 Today:\n")
		b.WriteString(divider + "\n")
		for i, rank := range top.Daily {
			fmt.Fprintf(&b, "%s %d. @%s: %d messages\n", medal(i+1), i+1, rank.Username, rank.MessageCount)
		}
	}
	return b.String()
}

// FormatStaffStats renders the per-allowed-user detail listing.
func FormatStaffStats(views []models.AggregatedUserView) string {
	if len(views) == 0 {
		return "📊 No staff message data yet."
	}

	var b strings.Builder
	b.WriteString("👥 Detailed user statistics\n")
	b.WriteString(divider + "\n\n")
	for i, view := range views {
		fmt.Fprintf(&b, "%d. 👤 @%s\n   📝 Total messages: %d\n   🕒 Last activity: %s\n   %s\n",
			i+1, view.Username, view.TotalMessages, view.LastMessage, divider)
	}
	return b.String()
}

// FormatFullStatsBlock renders one user's entry of the full union dump.
func FormatFullStatsBlock(position int, view models.AggregatedUserView) string {
	return fmt.Sprintf("%d. 👤 @%s\n   📝 Total messages: %d\n   📅 Messages today: %d\n   🕒 Last activity: %s\n   %s\n",
		position, view.Username, view.TotalMessages, view.DailyMessages, view.LastMessage, divider)
}

func medal(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return "👤"
	}
}
