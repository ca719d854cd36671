package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/autobalance/internal/logger"
	"github.com/lawnchairsociety/autobalance/internal/metrics"
)

// executeAutoBalance handles all autobalance subcommands
func (h *Handler) executeAutoBalance(c *Command, admin string) string {
	if len(c.Args) == 0 {
		return executeAutoBalanceHelp()
	}

	sub := strings.ToLower(c.Args[0])
	args := &Command{Name: sub, Args: c.Args[1:]}
	switch sub {
	case "help":
		if len(args.Args) > 0 && h.help != nil {
			return h.help.GetHelpText(args.Args[0])
		}
		return executeAutoBalanceHelp()
	case "setoffset":
		countCommand(sub)
		return h.executeSetOffset(args, admin)
	case "getoffset":
		countCommand(sub)
		return h.executeGetOffset()
	case "checkmap":
		countCommand(sub)
		return h.executeCheckMap(args, admin)
	case "mapstat":
		countCommand(sub)
		return h.executeMapStat(args)
	case "creaturestat":
		countCommand(sub)
		return h.executeCreatureStat(args)
	case "reload":
		countCommand(sub)
		return h.executeReload(admin)
	default:
		return fmt.Sprintf("Unknown autobalance command: %s. Type 'autobalance help' for commands.", sub)
	}
}

// executeHelp shows the command list, or one topic when help topics are
// loaded
func (h *Handler) executeHelp(args []string) string {
	if h.help != nil {
		topic := ""
		if len(args) > 0 {
			topic = args[0]
		}
		return h.help.GetHelpText(topic)
	}
	return `
Commands
========
  autobalance <subcommand>  - AutoBalance administration (alias: ab)
  help                      - Show this help message
  quit                      - Close the console
`
}

// executeAutoBalanceHelp shows the subcommand list
func executeAutoBalanceHelp() string {
	return `
AutoBalance Commands
====================
  autobalance setoffset <n>            - Sets the global Player Difficulty Offset for instances. Example: (You + offset(1) = 2 player difficulty).
  autobalance getoffset                - Shows current global player offset value
  autobalance checkmap <map> <inst>    - Run a check for the map/instance, it can help in case you're testing autobalance with GM.
  autobalance mapstat <map> <inst>     - Shows current autobalance information for the map/instance
  autobalance creaturestat <guid>      - Shows current autobalance information for the creature
  autobalance reload                   - Reloads the configuration file
  autobalance help                     - Show this help message
`
}

// executeSetOffset changes the global difficulty offset
func (h *Handler) executeSetOffset(c *Command, admin string) string {
	if len(c.Args) == 0 {
		return ".autobalance setoffset #\nSets the Player Difficulty Offset for instances. Example: (You + offset(1) = 2 player difficulty)."
	}

	offset, err := strconv.Atoi(c.Args[0])
	if err != nil {
		return "Error changing Player Difficulty Offset! Please try again."
	}

	h.ctl.SetPlayerCountOffset(offset)

	logger.Always("ADMIN_ACTION",
		"action", "setoffset",
		"admin", admin,
		"offset", offset)

	return fmt.Sprintf("Changing Player Difficulty Offset to %d.", offset)
}

func (h *Handler) executeGetOffset() string {
	return fmt.Sprintf("Current Player Difficulty Offset = %d", h.ctl.Config().PlayerCountOffset)
}

// executeCheckMap resyncs an instance's population from the world, then
// shows it
func (h *Handler) executeCheckMap(c *Command, admin string) string {
	if err := c.RequireArgs(1, "Usage: autobalance checkmap <map> <instance>"); err != nil {
		return err.Error()
	}
	key, err := parseKey(c.Args)
	if err != nil {
		return fmt.Sprintf("Usage: autobalance checkmap <map> <instance> (%v)", err)
	}
	m, ok := h.world.LookupMap(key)
	if !ok {
		return fmt.Sprintf("Instance %s not found.", key)
	}

	info := h.ctl.Tracker().Recheck(m)
	metrics.TrackerEvents.WithLabelValues(metrics.EventRecheck).Inc()

	logger.Always("ADMIN_ACTION",
		"action", "checkmap",
		"admin", admin,
		"instance", key.String(),
		"players", info.PlayerCount,
		"max_level", info.MaxObservedLevel)

	return formatMapStat(info.PlayerCount, info.MaxObservedLevel)
}

// executeMapStat shows an instance's tracked population
func (h *Handler) executeMapStat(c *Command) string {
	if err := c.RequireArgs(1, "Usage: autobalance mapstat <map> <instance>"); err != nil {
		return err.Error()
	}
	key, err := parseKey(c.Args)
	if err != nil {
		return fmt.Sprintf("Usage: autobalance mapstat <map> <instance> (%v)", err)
	}
	if _, ok := h.world.LookupMap(key); !ok {
		return fmt.Sprintf("Instance %s not found.", key)
	}

	info := h.ctl.Tracker().Info(key)
	return formatMapStat(info.PlayerCount, info.MaxObservedLevel)
}

func formatMapStat(players uint32, level uint8) string {
	return fmt.Sprintf("Players on map: %d\nMax level of players in this map: %d", players, level)
}

// executeCreatureStat shows a creature's scaling record
func (h *Handler) executeCreatureStat(c *Command) string {
	if err := c.RequireArgs(1, "Usage: autobalance creaturestat <guid>"); err != nil {
		return err.Error()
	}
	guid, err := strconv.ParseUint(c.Args[0], 10, 64)
	if err != nil {
		return fmt.Sprintf("Invalid creature guid: %s", c.Args[0])
	}
	if _, ok := h.world.LookupCreature(guid); !ok {
		return fmt.Sprintf("Creature %d not found.", guid)
	}

	info, _ := h.ctl.Engine().State().Get(guid)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Instance player Count: %d\n", info.ScaledForPlayerCount)
	fmt.Fprintf(&sb, "Selected level: %d\n", info.SelectedLevel)
	fmt.Fprintf(&sb, "Damage multiplier: %.6f\n", info.DamageMultiplier)
	fmt.Fprintf(&sb, "Health multiplier: %.6f\n", info.HealthMultiplier)
	fmt.Fprintf(&sb, "Mana multiplier: %.6f\n", info.ManaMultiplier)
	fmt.Fprintf(&sb, "Armor multiplier: %.6f", info.ArmorMultiplier)
	return sb.String()
}

// executeReload re-reads the configuration file
func (h *Handler) executeReload(admin string) string {
	if err := h.ctl.Reload(); err != nil {
		return fmt.Sprintf("Failed to reload config: %v", err)
	}

	logger.Always("ADMIN_ACTION",
		"action", "reload",
		"admin", admin)

	return "AutoBalance config reloaded."
}
