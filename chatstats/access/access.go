// Package access holds the authorization policy: which senders may talk to
// the bot at all, and which may use staff commands.
package access

import (
	"github.com/disgoorg/snowflake/v2"
)

// Command enumerates every command the bot understands. The closed set means
// admin gating is an exhaustive switch checked at compile time, not a
// string-keyed lookup.
type Command int

const (
	CommandStart Command = iota
	CommandStats
	CommandTopUsers
	CommandGraph
	CommandStaffStats
	CommandStaffAll
	CommandStaffOff
	CommandStaffExport
	CommandStaffBan
)

func (c Command) Name() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandStats:
		return "stats"
	case CommandTopUsers:
		return "topusers"
	case CommandGraph:
		return "graph"
	case CommandStaffStats:
		return "staff_stats"
	case CommandStaffAll:
		return "staff_all"
	case CommandStaffOff:
		return "staff_off"
	case CommandStaffExport:
		return "staff_export"
	case CommandStaffBan:
		return "staff_ban"
	default:
		return "unknown"
	}
}

// AdminOnly reports whether the command requires admin-list membership on
// top of the allow-list.
func (c Command) AdminOnly() bool {
	switch c {
	case CommandStart, CommandStats, CommandTopUsers, CommandGraph:
		return false
	case CommandStaffStats, CommandStaffAll, CommandStaffOff, CommandStaffExport, CommandStaffBan:
		return true
	default:
		return true
	}
}

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Allow lets the command proceed.
	Allow Decision = iota
	// DenyNotAllowed means the sender is not on the allow-list.
	DenyNotAllowed
	// DenyAdminOnly means the sender is allowed but lacks admin rights for
	// a staff command.
	DenyAdminOnly
)

// Policy is the injected authorization table: the allow-list and its admin
// subset.
type Policy struct {
	allowed map[snowflake.ID]struct{}
	admins  map[snowflake.ID]struct{}
}

func NewPolicy(allowed, admins []snowflake.ID) *Policy {
	p := &Policy{
		allowed: make(map[snowflake.ID]struct{}, len(allowed)),
		admins:  make(map[snowflake.ID]struct{}, len(admins)),
	}
	for _, id := range allowed {
		p.allowed[id] = struct{}{}
	}
	for _, id := range admins {
		p.admins[id] = struct{}{}
	}
	return p
}

// IsAllowed reports allow-list membership. Plain messages from senders
// failing this check are dropped silently.
func (p *Policy) IsAllowed(id snowflake.ID) bool {
	_, ok := p.allowed[id]
	return ok
}

func (p *Policy) IsAdmin(id snowflake.ID) bool {
	_, ok := p.admins[id]
	return ok
}

// Authorize checks a command invocation. Staff commands check the admin
// list before the allow-list so an admin outside the allow-list (a valid
// configuration we support) still gets staff access.
func (p *Policy) Authorize(cmd Command, userID snowflake.ID) Decision {
	if cmd.AdminOnly() {
		if p.IsAdmin(userID) {
			return Allow
		}
		return DenyAdminOnly
	}
	if p.IsAllowed(userID) {
		return Allow
	}
	return DenyNotAllowed
}
