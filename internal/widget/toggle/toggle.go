// Package toggle switches among a fixed set of named content panels.
package toggle

import (
	"errors"
	"fmt"
)

// ErrUnknownPanel is returned when selecting a panel that does not exist.
var ErrUnknownPanel = errors.New("unknown panel")

// Panel is one selectable content panel.
type Panel struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// DefaultPanels are the use-case panels of the landing page.
var DefaultPanels = []Panel{
	{ID: "b2b", Label: "B2B"},
	{ID: "b2c", Label: "B2C"},
}

// Toggle keeps exactly one panel active.
type Toggle struct {
	panels []Panel
	active int
}

// New creates a toggle over panels with initial selected. An empty initial
// selects the first panel.
func New(panels []Panel, initial string) (*Toggle, error) {
	if len(panels) == 0 {
		return nil, errors.New("toggle needs at least one panel")
	}
	seen := make(map[string]bool, len(panels))
	for _, p := range panels {
		if p.ID == "" {
			return nil, errors.New("panel id is required")
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate panel %q", p.ID)
		}
		seen[p.ID] = true
	}

	t := &Toggle{panels: append([]Panel(nil), panels...)}
	if initial != "" {
		if err := t.Select(initial); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewDefault creates the landing page toggle with b2b active.
func NewDefault() *Toggle {
	t, _ := New(DefaultPanels, "")
	return t
}

// Select activates the panel with id. Unknown ids leave the selection
// unchanged.
func (t *Toggle) Select(id string) error {
	for i, p := range t.panels {
		if p.ID == id {
			t.active = i
			return nil
		}
	}
	return fmt.Errorf("%q: %w", id, ErrUnknownPanel)
}

// Active returns the id of the active panel.
func (t *Toggle) Active() string {
	return t.panels[t.active].ID
}

// PanelState is a panel with its activation flag.
type PanelState struct {
	Panel
	Active bool `json:"active"`
}

// State is the rendered toggle.
type State struct {
	Active string       `json:"active"`
	Panels []PanelState `json:"panels"`
}

// State returns the current rendering.
func (t *Toggle) State() State {
	s := State{Active: t.Active(), Panels: make([]PanelState, len(t.panels))}
	for i, p := range t.panels {
		s.Panels[i] = PanelState{Panel: p, Active: i == t.active}
	}
	return s
}
