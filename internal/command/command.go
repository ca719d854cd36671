// Package command implements the "autobalance" admin commands.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/autobalance/internal/config"
	"github.com/lawnchairsociety/autobalance/internal/help"
	"github.com/lawnchairsociety/autobalance/internal/host"
	"github.com/lawnchairsociety/autobalance/internal/metrics"
	"github.com/lawnchairsociety/autobalance/internal/scaling"
	"github.com/lawnchairsociety/autobalance/internal/tracker"
)

// Controller is the scaling module as the commands see it.
type Controller interface {
	Config() *config.Snapshot
	SetPlayerCountOffset(offset int)
	Reload() error
	Tracker() *tracker.Tracker
	Engine() *scaling.Engine
}

// WorldInterface finds live maps and creatures.
type WorldInterface interface {
	LookupMap(key host.InstanceKey) (host.Map, bool)
	LookupCreature(guid uint64) (host.Creature, bool)
}

// Command is one parsed input line.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a line into a lower-cased name and its arguments.
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Name: "", Args: []string{}}
	}

	return &Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// RequireArgs checks if the command has at least the minimum number of arguments
// Returns an error with the usage message if not enough arguments are provided
func (c *Command) RequireArgs(min int, usage string) error {
	if len(c.Args) < min {
		return errors.New(usage)
	}
	return nil
}

// Handler runs commands against a module and a world.
type Handler struct {
	ctl   Controller
	world WorldInterface
	help  *help.Help
}

// NewHandler creates a Handler.
func NewHandler(ctl Controller, w WorldInterface) *Handler {
	return &Handler{ctl: ctl, world: w}
}

// SetHelp installs YAML help topics. Without them the built-in command
// lists are shown.
func (h *Handler) SetHelp(topics *help.Help) {
	h.help = topics
}

// Execute runs c on behalf of admin and returns the reply.
func (h *Handler) Execute(c *Command, admin string) string {
	switch c.Name {
	case "":
		return ""
	case "autobalance", "ab":
		return h.executeAutoBalance(c, admin)
	case "help":
		return h.executeHelp(c.Args)
	default:
		return fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", c.Name)
	}
}

// parseKey reads an instance key from either "map:instance" or two
// separate arguments.
func parseKey(args []string) (host.InstanceKey, error) {
	var mapStr, instStr string
	switch {
	case len(args) == 1 && strings.Contains(args[0], ":"):
		mapStr, instStr, _ = strings.Cut(args[0], ":")
	case len(args) >= 2:
		mapStr, instStr = args[0], args[1]
	default:
		return host.InstanceKey{}, errors.New("missing instance")
	}

	mapID, err := strconv.ParseUint(mapStr, 10, 32)
	if err != nil {
		return host.InstanceKey{}, fmt.Errorf("invalid map id %q", mapStr)
	}
	instID, err := strconv.ParseUint(instStr, 10, 32)
	if err != nil {
		return host.InstanceKey{}, fmt.Errorf("invalid instance id %q", instStr)
	}
	return host.InstanceKey{MapID: uint32(mapID), InstanceID: uint32(instID)}, nil
}

func countCommand(sub string) {
	metrics.ConsoleCommands.WithLabelValues(sub).Inc()
}
