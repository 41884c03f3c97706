// Package nav models the collapsible mobile navigation panel.
package nav

import (
	"errors"
	"fmt"
)

// ErrUnknownLink is returned when following a link the panel does not hold.
var ErrUnknownLink = errors.New("unknown link")

// Link is a navigation entry.
type Link struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

// DefaultLinks are the sections of the landing page.
var DefaultLinks = []Link{
	{Href: "#demo", Label: "Live Demo"},
	{Href: "#how-it-works", Label: "How It Works"},
	{Href: "#pricing", Label: "Pricing"},
	{Href: "#market", Label: "Market"},
}

// Nav is a panel that is either open or closed.
type Nav struct {
	links []Link
	open  bool
}

// New creates a closed panel over links. Nil links means DefaultLinks.
func New(links []Link) *Nav {
	if links == nil {
		links = DefaultLinks
	}
	return &Nav{links: append([]Link(nil), links...)}
}

// Toggle flips the panel and reports whether it is now open.
func (n *Nav) Toggle() bool {
	n.open = !n.open
	return n.open
}

// Close closes the panel.
func (n *Nav) Close() {
	n.open = false
}

// Follow navigates to href, closing the panel.
func (n *Nav) Follow(href string) (Link, error) {
	for _, l := range n.links {
		if l.Href == href {
			n.open = false
			return l, nil
		}
	}
	return Link{}, fmt.Errorf("%q: %w", href, ErrUnknownLink)
}

// IsOpen reports whether the panel is open.
func (n *Nav) IsOpen() bool {
	return n.open
}

// State is the rendered panel.
type State struct {
	Open  bool   `json:"open"`
	Links []Link `json:"links"`
}

// State returns the current rendering.
func (n *Nav) State() State {
	return State{Open: n.open, Links: append([]Link(nil), n.links...)}
}
