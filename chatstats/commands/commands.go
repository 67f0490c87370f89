package commands

import (
	"github.com/disgoorg/disgo/discord"
)

// Commands is the full slash command surface, synced to Discord on demand.
var Commands = []discord.ApplicationCommandCreate{
	Start,
	Stats,
	TopUsers,
	Graph,
	StaffStats,
	StaffAll,
	StaffOff,
	StaffExport,
	StaffBan,
}
