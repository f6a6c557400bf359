// Package ui draws the settings panel and heads-up display over the fluid.
// Controls are described by metadata bound to config fields, so adding a
// parameter means adding a descriptor rather than a widget.
package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/config"
)

// SliderDescriptor binds a numeric config field to a slider.
type SliderDescriptor struct {
	ID     string
	Label  string
	Min    float64
	Max    float64
	Step   float64 // 0 = continuous
	Format string  // Printf format for the value readout
	Get    func(*config.Config) float64
	Set    func(*config.Config, float64)
}

// Quantize clamps v to the slider range and snaps it to Step.
func (d SliderDescriptor) Quantize(v float64) float64 {
	if d.Step > 0 {
		v = d.Min + math.Round((v-d.Min)/d.Step)*d.Step
	}
	return min(max(v, d.Min), d.Max)
}

// ToggleDescriptor binds a boolean config field to a button.
type ToggleDescriptor struct {
	ID       string
	Label    string
	Key      int32  // Keyboard shortcut (0 = none)
	KeyLabel string // Shortcut label for display
	Get      func(*config.Config) bool
	Set      func(*config.Config, bool)
}

// SectionDescriptor groups controls under a header.
type SectionDescriptor struct {
	Title   string
	Toggles []ToggleDescriptor
	Sliders []SliderDescriptor
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	KeyColor       rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	SliderHeight   int32
	ButtonHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		KeyColor:       rl.Color{R: 150, G: 150, B: 150, A: 255},
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillHigh:    rl.Color{R: 200, G: 100, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     110,
		SliderHeight:   14,
		ButtonHeight:   20,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
