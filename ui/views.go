package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ViewID identifies a toggleable screen element.
type ViewID string

// Standard view IDs.
const (
	ViewSettings ViewID = "settings"
	ViewHUD      ViewID = "hud"
	ViewPerf     ViewID = "perf"
)

// ViewDescriptor defines a view that can be toggled from the keyboard.
type ViewDescriptor struct {
	ID       ViewID
	Name     string
	Key      int32
	KeyLabel string
	Default  bool
}

// ViewRegistry tracks which views are shown.
type ViewRegistry struct {
	descriptors []ViewDescriptor
	enabled     map[ViewID]bool
}

// NewViewRegistry creates a registry with the standard views.
func NewViewRegistry() *ViewRegistry {
	reg := &ViewRegistry{enabled: make(map[ViewID]bool)}
	reg.Register(ViewDescriptor{ID: ViewSettings, Name: "Settings", Key: rl.KeyTab, KeyLabel: "Tab", Default: true})
	reg.Register(ViewDescriptor{ID: ViewHUD, Name: "HUD", Key: rl.KeyH, KeyLabel: "H", Default: true})
	reg.Register(ViewDescriptor{ID: ViewPerf, Name: "Performance", Key: rl.KeyF1, KeyLabel: "F1"})
	return reg
}

// Register adds a view in its default state.
func (r *ViewRegistry) Register(desc ViewDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches a view on or off and returns the new state.
func (r *ViewRegistry) Toggle(id ViewID) bool {
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether a view is shown.
func (r *ViewRegistry) IsEnabled(id ViewID) bool {
	return r.enabled[id]
}

// All returns all registered views in registration order.
func (r *ViewRegistry) All() []ViewDescriptor {
	return r.descriptors
}

// HandleKeyPress toggles the view bound to key.
// Returns the view ID, its new state, and whether a toggle occurred.
func (r *ViewRegistry) HandleKeyPress(key int32) (ViewID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}
