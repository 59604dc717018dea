// actions.go - Edit actions accepted by the project endpoint
package api

import (
	"github.com/philipparndt/gocraft/pkg/geometry"
	"github.com/philipparndt/gocraft/pkg/papercraft"
)

// Action types
const (
	ActionCut          = "cut"
	ActionJoin         = "join"
	ActionToggleFlap   = "toggleFlap"
	ActionMoveIsland   = "moveIsland"
	ActionRotateIsland = "rotateIsland"
	ActionSetOptions   = "setOptions"
	ActionPack         = "pack"
)

// Action is one edit request. Which fields are required depends on Type.
type Action struct {
	Type string `json:"type"`

	Edge         *int     `json:"edge,omitempty"`
	Offset       *float64 `json:"offset,omitempty"`
	PriorityFace *int     `json:"priorityFace,omitempty"`
	// Flap is "toggle", "on" or "off"; empty toggles
	Flap string `json:"flap,omitempty"`

	Island *papercraft.IslandKey `json:"island,omitempty"`
	Delta  *geometry.Vector2     `json:"delta,omitempty"`
	Angle  *float64              `json:"angle,omitempty"`
	Center *geometry.Vector2     `json:"center,omitempty"`

	Options  *papercraft.PaperOptions `json:"options,omitempty"`
	Relocate bool                     `json:"relocate,omitempty"`
}

func (a *Action) validate() error {
	switch a.Type {
	case ActionCut, ActionJoin:
		if a.Edge == nil {
			return NewValidationError("edge")
		}
	case ActionToggleFlap:
		if a.Edge == nil {
			return NewValidationError("edge")
		}
		if _, ok := flapActions[a.Flap]; !ok {
			return NewValidationError("flap")
		}
	case ActionMoveIsland:
		if a.Island == nil {
			return NewValidationError("island")
		}
		if a.Delta == nil {
			return NewValidationError("delta")
		}
	case ActionRotateIsland:
		if a.Island == nil {
			return NewValidationError("island")
		}
		if a.Angle == nil {
			return NewValidationError("angle")
		}
	case ActionSetOptions:
		if a.Options == nil {
			return NewValidationError("options")
		}
	case ActionPack:
	case "":
		return NewValidationError("type")
	default:
		return NewBadRequestError("unknown action type: "+a.Type, nil)
	}
	return nil
}

var flapActions = map[string]papercraft.FlapAction{
	"":       papercraft.FlapToggle,
	"toggle": papercraft.FlapToggle,
	"on":     papercraft.FlapOn,
	"off":    papercraft.FlapOff,
}

// Apply runs a validated action on p
func (a *Action) Apply(p *papercraft.Project) (*papercraft.Snapshot, error) {
	switch a.Type {
	case ActionCut:
		return p.Cut(*a.Edge, a.Offset)
	case ActionJoin:
		return p.Join(*a.Edge, a.PriorityFace)
	case ActionToggleFlap:
		return p.ToggleFlap(*a.Edge, flapActions[a.Flap])
	case ActionMoveIsland:
		return p.MoveIsland(*a.Island, *a.Delta)
	case ActionRotateIsland:
		center := a.islandCenter(p)
		return p.RotateIsland(*a.Island, *a.Angle, center)
	case ActionSetOptions:
		return p.SetOptions(*a.Options, a.Relocate)
	default:
		return p.Pack()
	}
}

// islandCenter defaults the rotation center to the middle of the island
func (a *Action) islandCenter(p *papercraft.Project) geometry.Vector2 {
	if a.Center != nil {
		return *a.Center
	}
	if _, ok := p.Island(a.Island.ID); !ok {
		return geometry.Vector2{}
	}
	return geometry.FromPoint(p.IslandBounds(a.Island.ID).Center())
}
