package server

import (
	"fmt"
	"log/slog"

	"github.com/mindurka/overdrive/components"
	"github.com/mindurka/overdrive/sim"
)

// Command actions, shared by the HTTP endpoints and websocket messages.
const (
	ActionSetOverdriveIgnoresCheat = "set_overdrive_ignores_cheat"
	ActionSetTeamCheat             = "set_team_cheat"
	ActionSetEnabled               = "set_enabled"
	ActionTogglePause              = "toggle_pause"
)

// Command is a state change requested by a client.
type Command struct {
	Action string            `json:"action"`
	Team   components.TeamID `json:"team,omitempty"`
	ID     uint32            `json:"id,omitempty"`
	Value  bool              `json:"value"`
}

// Validate checks the action and its arguments.
func (c Command) Validate() error {
	switch c.Action {
	case ActionSetOverdriveIgnoresCheat, ActionSetTeamCheat, ActionTogglePause:
		return nil
	case ActionSetEnabled:
		if c.ID == 0 {
			return fmt.Errorf("%s: missing building id", c.Action)
		}
		return nil
	}
	return fmt.Errorf("unknown action %q", c.Action)
}

// Apply runs the command. It must be called on the simulation goroutine.
func (c Command) Apply(s *sim.Sim) {
	switch c.Action {
	case ActionSetOverdriveIgnoresCheat:
		s.SetOverdriveIgnoresCheat(c.Value)
	case ActionSetTeamCheat:
		s.SetTeamCheat(c.Team, c.Value)
	case ActionSetEnabled:
		if err := s.SetEnabled(c.ID, c.Value); err != nil {
			slog.Warn("command failed", "action", c.Action, "error", err)
		}
	case ActionTogglePause:
		s.SetPaused(!s.Paused())
	}
}
