package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/config"
)

// Sections returns the settings layout. Every slider range stays inside
// what config.Validate accepts.
func Sections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			Title: "Fluid",
			Toggles: []ToggleDescriptor{
				{
					ID: "paused", Label: "Paused", Key: rl.KeyP, KeyLabel: "P",
					Get: func(c *config.Config) bool { return c.Display.Paused },
					Set: func(c *config.Config, v bool) { c.Display.Paused = v },
				},
				{
					ID: "shading", Label: "Shading", Key: rl.KeyS, KeyLabel: "S",
					Get: func(c *config.Config) bool { return c.Display.Shading },
					Set: func(c *config.Config, v bool) { c.Display.Shading = v },
				},
				{
					ID: "colorful", Label: "Colorful", Key: rl.KeyC, KeyLabel: "C",
					Get: func(c *config.Config) bool { return c.Display.Colorful },
					Set: func(c *config.Config, v bool) { c.Display.Colorful = v },
				},
				{
					ID: "transparent", Label: "Transparent", Key: rl.KeyT, KeyLabel: "T",
					Get: func(c *config.Config) bool { return c.Display.Transparent },
					Set: func(c *config.Config, v bool) { c.Display.Transparent = v },
				},
			},
			Sliders: []SliderDescriptor{
				{
					ID: "dye_resolution", Label: "Quality", Min: 128, Max: 1024, Step: 128, Format: "%.0f",
					Get: func(c *config.Config) float64 { return float64(c.Fluid.DyeResolution) },
					Set: func(c *config.Config, v float64) { c.Fluid.DyeResolution = int(v) },
				},
				{
					ID: "sim_resolution", Label: "Sim resolution", Min: 32, Max: 256, Step: 32, Format: "%.0f",
					Get: func(c *config.Config) float64 { return float64(c.Fluid.SimResolution) },
					Set: func(c *config.Config, v float64) { c.Fluid.SimResolution = int(v) },
				},
				{
					ID: "density_dissipation", Label: "Density diffusion", Min: 0.9, Max: 1, Format: "%.3f",
					Get: func(c *config.Config) float64 { return c.Fluid.DensityDissipation },
					Set: func(c *config.Config, v float64) { c.Fluid.DensityDissipation = v },
				},
				{
					ID: "velocity_dissipation", Label: "Velocity diffusion", Min: 0.9, Max: 1, Format: "%.3f",
					Get: func(c *config.Config) float64 { return c.Fluid.VelocityDissipation },
					Set: func(c *config.Config, v float64) { c.Fluid.VelocityDissipation = v },
				},
				{
					ID: "pressure", Label: "Pressure", Min: 0, Max: 1, Format: "%.2f",
					Get: func(c *config.Config) float64 { return c.Fluid.Pressure },
					Set: func(c *config.Config, v float64) { c.Fluid.Pressure = v },
				},
				{
					ID: "pressure_iterations", Label: "Iterations", Min: 1, Max: 60, Step: 1, Format: "%.0f",
					Get: func(c *config.Config) float64 { return float64(c.Fluid.PressureIterations) },
					Set: func(c *config.Config, v float64) { c.Fluid.PressureIterations = int(v) },
				},
				{
					ID: "curl", Label: "Vorticity", Min: 0, Max: 50, Step: 1, Format: "%.0f",
					Get: func(c *config.Config) float64 { return c.Fluid.Curl },
					Set: func(c *config.Config, v float64) { c.Fluid.Curl = v },
				},
				{
					ID: "splat_radius", Label: "Splat radius", Min: 0.01, Max: 1, Format: "%.2f",
					Get: func(c *config.Config) float64 { return c.Fluid.SplatRadius },
					Set: func(c *config.Config, v float64) { c.Fluid.SplatRadius = v },
				},
				{
					ID: "splat_force", Label: "Splat force", Min: 1000, Max: 12000, Step: 500, Format: "%.0f",
					Get: func(c *config.Config) float64 { return c.Fluid.SplatForce },
					Set: func(c *config.Config, v float64) { c.Fluid.SplatForce = v },
				},
			},
		},
		{
			Title: "Bloom",
			Toggles: []ToggleDescriptor{
				{
					ID: "bloom", Label: "Bloom", Key: rl.KeyB, KeyLabel: "B",
					Get: func(c *config.Config) bool { return c.Bloom.Enabled },
					Set: func(c *config.Config, v bool) { c.Bloom.Enabled = v },
				},
			},
			Sliders: []SliderDescriptor{
				{
					ID: "bloom_intensity", Label: "Intensity", Min: 0.1, Max: 2, Format: "%.2f",
					Get: func(c *config.Config) float64 { return c.Bloom.Intensity },
					Set: func(c *config.Config, v float64) { c.Bloom.Intensity = v },
				},
				{
					ID: "bloom_threshold", Label: "Threshold", Min: 0, Max: 1, Format: "%.2f",
					Get: func(c *config.Config) float64 { return c.Bloom.Threshold },
					Set: func(c *config.Config, v float64) { c.Bloom.Threshold = v },
				},
				{
					ID: "bloom_soft_knee", Label: "Soft knee", Min: 0, Max: 1, Format: "%.2f",
					Get: func(c *config.Config) float64 { return c.Bloom.SoftKnee },
					Set: func(c *config.Config, v float64) { c.Bloom.SoftKnee = v },
				},
				{
					ID: "bloom_iterations", Label: "Mip levels", Min: 1, Max: 8, Step: 1, Format: "%.0f",
					Get: func(c *config.Config) float64 { return float64(c.Bloom.Iterations) },
					Set: func(c *config.Config, v float64) { c.Bloom.Iterations = int(v) },
				},
			},
		},
		{
			Title: "Sunrays",
			Toggles: []ToggleDescriptor{
				{
					ID: "sunrays", Label: "Sunrays", Key: rl.KeyR, KeyLabel: "R",
					Get: func(c *config.Config) bool { return c.Sunrays.Enabled },
					Set: func(c *config.Config, v bool) { c.Sunrays.Enabled = v },
				},
			},
			Sliders: []SliderDescriptor{
				{
					ID: "sunrays_weight", Label: "Weight", Min: 0.3, Max: 1, Format: "%.2f",
					Get: func(c *config.Config) float64 { return c.Sunrays.Weight },
					Set: func(c *config.Config, v float64) { c.Sunrays.Weight = v },
				},
			},
		},
	}
}

// Panel renders the settings controls. It never mutates the config it is
// given; changes come back as a new value for the host to apply.
type Panel struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
	visible  bool
}

// NewPanel creates a visible settings panel.
func NewPanel(x, y, width int32) *Panel {
	return &Panel{
		renderer: NewRenderer(),
		sections: Sections(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetVisible shows or hides the panel.
func (p *Panel) SetVisible(visible bool) { p.visible = visible }

// IsVisible returns whether the panel is shown.
func (p *Panel) IsVisible() bool { return p.visible }

// Toggle switches panel visibility.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// SetPosition moves the panel.
func (p *Panel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Height returns the panel height for the current layout.
func (p *Panel) Height() int32 {
	t := p.renderer.Theme
	h := t.Padding*2 + t.LineHeight + 4
	for _, sec := range p.sections {
		h += t.LineHeight + 2
		h += int32((len(sec.Toggles)+1)/2) * (t.ButtonHeight + 4)
		h += int32(len(sec.Sliders)) * (t.LineHeight + t.SliderHeight + 6)
		h += 4
	}
	return h
}

// Contains reports whether a screen position falls on the visible panel.
func (p *Panel) Contains(x, y float32) bool {
	if !p.visible {
		return false
	}
	return x >= float32(p.x) && x < float32(p.x+p.width) &&
		y >= float32(p.y) && y < float32(p.y+p.Height())
}

// HandleKey flips the toggle bound to key. It reports whether cfg changed.
func (p *Panel) HandleKey(cfg config.Config, key int32) (config.Config, bool) {
	for _, sec := range p.sections {
		for _, td := range sec.Toggles {
			if td.Key != 0 && td.Key == key {
				td.Set(&cfg, !td.Get(&cfg))
				return cfg, true
			}
		}
	}
	return cfg, false
}

// Draw renders the panel and returns the edited config. It reports whether
// any control changed a value.
func (p *Panel) Draw(cfg config.Config) (config.Config, bool) {
	if !p.visible {
		return cfg, false
	}

	r := p.renderer
	t := r.Theme
	r.DrawPanel(p.x, p.y, p.width, p.Height())

	x := p.x + t.Padding
	inner := p.width - t.Padding*2
	y := p.y + t.Padding

	rl.DrawText("Settings", x, y, 16, rl.White)
	r.DrawKeyHint(x+inner, y, "Tab")
	y += t.LineHeight + 4

	changed := false
	for _, sec := range p.sections {
		y = r.DrawSectionHeader(x, y, sec.Title)

		half := (inner - 4) / 2
		for i, td := range sec.Toggles {
			bx := x + int32(i%2)*(half+4)
			by := y + int32(i/2)*(t.ButtonHeight+4)
			on := td.Get(&cfg)
			rect := rl.Rectangle{X: float32(bx), Y: float32(by), Width: float32(half), Height: float32(t.ButtonHeight)}
			if gui.Button(rect, toggleText(td.Label, on)) {
				td.Set(&cfg, !on)
				changed = true
			}
		}
		y += int32((len(sec.Toggles)+1)/2) * (t.ButtonHeight + 4)

		for _, sd := range sec.Sliders {
			cur := sd.Get(&cfg)
			r.DrawLabelValue(x, y, sd.Label, fmt.Sprintf(sd.Format, cur))
			y += t.LineHeight

			rect := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: float32(t.SliderHeight)}
			next := sd.Quantize(float64(gui.SliderBar(rect, "", "", float32(cur), float32(sd.Min), float32(sd.Max))))
			// Compare at slider precision so an untouched slider is not a change.
			if float32(next) != float32(sd.Quantize(cur)) {
				sd.Set(&cfg, next)
				changed = true
			}
			y += t.SliderHeight + 6
		}
		y += 4
	}
	return cfg, changed
}

func toggleText(label string, on bool) string {
	if on {
		return label + ": on"
	}
	return label + ": off"
}
