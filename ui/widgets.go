package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawKeyHint draws a right-aligned shortcut label ending at x.
func (r *Renderer) DrawKeyHint(x, y int32, key string) {
	if key == "" {
		return
	}
	text := fmt.Sprintf("[%s]", key)
	w := rl.MeasureText(text, r.Theme.FontSize)
	rl.DrawText(text, x-w, y, r.Theme.FontSize, r.Theme.KeyColor)
}

// DrawBar draws a percentage bar in [0, 100] and returns the new Y position.
// Values above high are drawn in the warning color.
func (r *Renderer) DrawBar(x, y int32, label string, pct, high float64, width int32) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.FontSize-2, r.Theme.BarBg)

	fill := r.Theme.BarFill
	if pct > high {
		fill = r.Theme.BarFillHigh
	}
	ratio := min(max(pct/100, 0), 1)
	rl.DrawRectangle(barX, y+2, int32(float64(barWidth)*ratio), r.Theme.FontSize-2, fill)

	rl.DrawText(fmt.Sprintf("%4.1f%%", pct), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}
