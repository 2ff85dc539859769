// Package command implements the beastmaster chat-command surface.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mistvale/beastmaster/internal/beastmaster"
	"github.com/mistvale/beastmaster/internal/config"
	"github.com/mistvale/beastmaster/internal/logger"
)

// Host is the slice of the game server the commands need: spawning the
// beastmaster NPC near a player and checking command privileges.
type Host interface {
	SummonNpc(p beastmaster.Player, entry uint32) error
	IsPrivileged(p beastmaster.Player) bool
}

// Command is one parsed chat command.
type Command struct {
	Name string
	Args []string
}

// RequireArgs checks if the command has at least the minimum number of
// arguments and returns the usage message if not.
func (c *Command) RequireArgs(min int, usage string) error {
	if len(c.Args) < min {
		return errors.New(usage)
	}
	return nil
}

// ParseCommand splits raw chat input into a command name and arguments.
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

// Handler executes beastmaster commands against the engine.
type Handler struct {
	engine     *beastmaster.Engine
	host       Host
	configPath string
}

// NewHandler builds the command handler. configPath is re-read by the
// reload sub-command.
func NewHandler(engine *beastmaster.Engine, host Host, configPath string) *Handler {
	return &Handler{engine: engine, host: host, configPath: configPath}
}

// Execute runs one command for a player and returns the response text.
// An empty response means the engine already whispered everything.
func (h *Handler) Execute(p beastmaster.Player, c *Command) string {
	switch c.Name {
	case "beastmaster", "bm":
		return h.executeBeastmaster(p, c)
	case "petname":
		return h.executePetname(p, c)
	default:
		return fmt.Sprintf("Unknown command: %s", c.Name)
	}
}

func (h *Handler) executeBeastmaster(p beastmaster.Player, c *Command) string {
	cfg := h.engine.Config()
	if !cfg.Enabled {
		return "The beastmaster is not available."
	}

	if len(c.Args) > 0 && strings.ToLower(c.Args[0]) == "reload" {
		return h.executeReload(p)
	}

	if remaining := h.engine.TryNpcSummon(p.ID()); remaining > 0 {
		return fmt.Sprintf("The beastmaster needs %d more seconds before answering your call again.",
			int(remaining.Seconds())+1)
	}

	if err := h.host.SummonNpc(p, cfg.NpcEntry); err != nil {
		logger.Error("Could not summon beastmaster NPC", "player", p.ID(), "error", err)
		return "The beastmaster could not be summoned here."
	}
	logger.Info("Beastmaster NPC summoned", "player", p.ID())
	return "The beastmaster has answered your call."
}

func (h *Handler) executeReload(p beastmaster.Player) string {
	if !h.host.IsPrivileged(p) {
		return "You do not have permission to do that."
	}

	cfg, warnings, err := config.LoadConfig(h.configPath)
	if err != nil {
		logger.Error("Config reload failed", "path", h.configPath, "error", err)
		return "Reload failed: could not read the configuration."
	}
	for _, warning := range warnings {
		logger.Warning(warning)
	}

	if err := h.engine.Reload(cfg); err != nil {
		logger.Error("Catalog reload failed", "error", err)
		return "Configuration reloaded, but the pet catalog could not be read."
	}
	logger.Audit("Beastmaster reload", "player", p.ID())
	return fmt.Sprintf("Beastmaster reloaded: %d pets in the catalog.", h.engine.Catalog().Count())
}

func (h *Handler) executePetname(p beastmaster.Player, c *Command) string {
	usage := "Usage: petname rename <newname> | petname cancel"
	if err := c.RequireArgs(1, usage); err != nil {
		return err.Error()
	}

	switch strings.ToLower(c.Args[0]) {
	case "rename":
		if err := c.RequireArgs(2, usage); err != nil {
			return err.Error()
		}
		h.engine.ConfirmRename(p, strings.Join(c.Args[1:], " "))
		return ""
	case "cancel":
		h.engine.CancelRename(p)
		return ""
	default:
		return usage
	}
}

// LoginNotice returns the message announced to a player at login, or an
// empty string when the notice is disabled.
func (h *Handler) LoginNotice() string {
	cfg := h.engine.Config()
	if !cfg.Enabled || !cfg.ShowLoginNotice {
		return ""
	}
	if cfg.LoginMessage != "" {
		return cfg.LoginMessage
	}
	return "The beastmaster awaits: type 'beastmaster' to call him, or visit him in town."
}
