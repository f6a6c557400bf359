package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fluid/config"
)

func TestSliderDescriptorsRoundTrip(t *testing.T) {
	for _, sec := range Sections() {
		for _, sd := range sec.Sliders {
			cfg := config.Default()
			v := sd.Quantize((sd.Min + sd.Max) / 2)
			sd.Set(&cfg, v)
			if got := sd.Get(&cfg); got != v {
				t.Errorf("%s: expected %v after set, got %v", sd.ID, v, got)
			}
		}
	}
}

func TestSliderRangesStayValid(t *testing.T) {
	for _, sec := range Sections() {
		for _, sd := range sec.Sliders {
			for _, v := range []float64{sd.Min, sd.Max} {
				cfg := config.Default()
				sd.Set(&cfg, sd.Quantize(v))
				if err := cfg.Validate(); err != nil {
					t.Errorf("%s at %v: expected valid config, got %v", sd.ID, v, err)
				}
			}
		}
	}
}

func TestQuantizeSnapsAndClamps(t *testing.T) {
	sd := SliderDescriptor{Min: 32, Max: 256, Step: 32}
	cases := map[float64]float64{
		0:   32,
		50:  64,
		47:  32,
		250: 256,
		999: 256,
	}
	for in, want := range cases {
		if got := sd.Quantize(in); got != want {
			t.Errorf("Quantize(%v): expected %v, got %v", in, want, got)
		}
	}

	cont := SliderDescriptor{Min: 0, Max: 1}
	if got := cont.Quantize(0.37); got != 0.37 {
		t.Errorf("expected continuous slider to keep 0.37, got %v", got)
	}
}

func TestDescriptorIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	keys := make(map[int32]string)
	for _, sec := range Sections() {
		for _, td := range sec.Toggles {
			if seen[td.ID] {
				t.Errorf("duplicate id %q", td.ID)
			}
			seen[td.ID] = true
			if other, ok := keys[td.Key]; ok {
				t.Errorf("key %d bound to both %q and %q", td.Key, other, td.ID)
			}
			keys[td.Key] = td.ID
		}
		for _, sd := range sec.Sliders {
			if seen[sd.ID] {
				t.Errorf("duplicate id %q", sd.ID)
			}
			seen[sd.ID] = true
		}
	}
}

func TestHandleKeyFlipsToggle(t *testing.T) {
	p := NewPanel(10, 10, 260)
	cfg := config.Default()

	next, changed := p.HandleKey(cfg, rl.KeyP)
	if !changed {
		t.Fatal("expected P to change config")
	}
	if next.Display.Paused == cfg.Display.Paused {
		t.Error("expected paused to flip")
	}
	if cfg.Display.Paused {
		t.Error("expected input config to be left untouched")
	}

	if _, changed := p.HandleKey(cfg, rl.KeyZ); changed {
		t.Error("expected unbound key to leave config unchanged")
	}
}

func TestPanelContains(t *testing.T) {
	p := NewPanel(10, 20, 200)
	h := float32(p.Height())

	if !p.Contains(15, 25) {
		t.Error("expected point inside panel to be contained")
	}
	if p.Contains(215, 25) {
		t.Error("expected point right of panel to be outside")
	}
	if p.Contains(15, 20+h+1) {
		t.Error("expected point below panel to be outside")
	}

	p.SetVisible(false)
	if p.Contains(15, 25) {
		t.Error("expected hidden panel to contain nothing")
	}
}

func TestViewRegistryToggle(t *testing.T) {
	r := NewViewRegistry()
	if !r.IsEnabled(ViewSettings) || !r.IsEnabled(ViewHUD) {
		t.Error("expected settings and HUD shown by default")
	}
	if r.IsEnabled(ViewPerf) {
		t.Error("expected perf panel hidden by default")
	}

	id, on, ok := r.HandleKeyPress(rl.KeyF1)
	if !ok || id != ViewPerf || !on {
		t.Errorf("expected F1 to show perf, got %q %v %v", id, on, ok)
	}
	if _, _, ok := r.HandleKeyPress(rl.KeyZ); ok {
		t.Error("expected unbound key to be ignored")
	}
}

func TestStatusText(t *testing.T) {
	if got := statusText(HUDData{Running: true}); got != "Running" {
		t.Errorf("expected Running, got %s", got)
	}
	if got := statusText(HUDData{Running: true, Paused: true}); got != "PAUSED" {
		t.Errorf("expected PAUSED, got %s", got)
	}
	if got := statusText(HUDData{}); got != "DISABLED" {
		t.Errorf("expected DISABLED, got %s", got)
	}
}
