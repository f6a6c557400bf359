package solver

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
	"github.com/pthm-cable/fluid/pointer"
)

func newManager(t *testing.T, viewW, viewH int) *field.Manager {
	t.Helper()
	cfg := config.Default()
	cfg.Fluid.SimResolution = 32
	cfg.Fluid.DyeResolution = 32
	cfg.Bloom.Resolution = 16
	cfg.Sunrays.Resolution = 16
	m := field.NewManager(field.Float32, nil)
	m.Configure(viewW, viewH, cfg)
	return m
}

func TestDyeDecaysGeometricallyWithoutVelocity(t *testing.T) {
	m := newManager(t, 100, 100)
	dye := m.Dye.Read()
	dye.Set(10, 10, 0, 1)

	cfg := config.Default().Fluid
	for i := 0; i < 100; i++ {
		Step(m, cfg, 1.0/60, nil)
	}

	want := math.Pow(cfg.DensityDissipation, 100)
	got := float64(m.Dye.Read().At(10, 10, 0))
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("expected peak %v after 100 ticks, got %v", want, got)
	}
	if v := m.Velocity.Read().MaxAbs(); v != 0 {
		t.Errorf("expected velocity to stay zero, got max %v", v)
	}
}

func TestSplatIsSymmetricAboutCenter(t *testing.T) {
	p := field.NewPair(65, 65, 1, field.Float32)
	Splat(p, 0.5, 0.5, []float32{1}, 0.003, 1)
	f := p.Read()

	center := f.At(32, 32, 0)
	if math.Abs(float64(center)-1) > 1e-3 {
		t.Errorf("expected center weight ~1, got %v", center)
	}
	for d := 1; d < 32; d++ {
		vals := []float32{f.At(32+d, 32, 0), f.At(32-d, 32, 0), f.At(32, 32+d, 0), f.At(32, 32-d, 0)}
		for _, v := range vals[1:] {
			if math.Abs(float64(v-vals[0])) > 1e-5 {
				t.Fatalf("asymmetric splat at distance %d: %v", d, vals)
			}
		}
		if vals[0] == 0 {
			break
		}
		if vals[0] >= f.At(32+d-1, 32, 0) {
			t.Fatalf("expected weight to fall off with distance at %d", d)
		}
	}

	// (3, 4) and (5, 0) are both 5 cells from the center.
	diag := f.At(32+3, 32+4, 0)
	axis := f.At(32+5, 32, 0)
	if axis == 0 {
		t.Fatal("expected non-zero weight 5 cells out")
	}
	if math.Abs(float64(diag-axis)) > 1e-5 {
		t.Errorf("expected equal weight at equal distance, got %v off axis and %v on axis", diag, axis)
	}
	for _, c := range [][2]int{{32 - 4, 32 + 3}, {32 - 3, 32 - 4}, {32 + 4, 32 - 3}} {
		if v := f.At(c[0], c[1], 0); math.Abs(float64(v-axis)) > 1e-5 {
			t.Errorf("expected %v at %v, got %v", axis, c, v)
		}
	}
}

func TestSplatLeavesCellsOutOfReachUntouched(t *testing.T) {
	p := field.NewPair(64, 64, 1, field.Float32)
	for i := range p.Read().Data {
		p.Read().Data[i] = 0.25
	}
	Splat(p, 0.1, 0.1, []float32{1}, 0.001, 1)
	f := p.Read()

	if v := f.At(6, 6, 0); v <= 1 {
		t.Errorf("expected splat added at its center, got %v", v)
	}
	for _, c := range [][2]int{{63, 63}, {40, 6}, {6, 40}} {
		if v := f.At(c[0], c[1], 0); v != 0.25 {
			t.Errorf("expected cell %v carried over as 0.25, got %v", c, v)
		}
	}

	// A splat centered outside the grid only copies.
	Splat(p, 3, 3, []float32{1}, 0.001, 1)
	if v := p.Read().At(63, 63, 0); v != 0.25 {
		t.Errorf("expected off-grid splat to leave 0.25, got %v", v)
	}
}

func TestSplatCutoffMatchesFullEvaluation(t *testing.T) {
	const w, h = 96, 48
	const x, y, radius, aspect = 0.37, 0.61, float32(0.004), float32(2)
	p := field.NewPair(w, h, 1, field.Float32)
	Splat(p, x, y, []float32{1}, radius, aspect)
	f := p.Read()

	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			dx := ((float64(cx)+0.5)/w - x) * float64(aspect)
			dy := (float64(cy)+0.5)/h - y
			want := math.Exp(-(dx*dx + dy*dy) / float64(radius))
			if got := float64(f.At(cx, cy, 0)); math.Abs(got-want) > 1e-4 {
				t.Fatalf("cell (%d, %d): expected %v, got %v", cx, cy, want, got)
			}
		}
	}
}

func TestSplatRadiusCorrectsForAspect(t *testing.T) {
	if r := SplatRadius(0.3, 1); math.Abs(float64(r)-0.003) > 1e-7 {
		t.Errorf("expected 0.003, got %v", r)
	}
	if r := SplatRadius(0.3, 2); math.Abs(float64(r)-0.006) > 1e-7 {
		t.Errorf("expected wide viewport to double radius, got %v", r)
	}
	if r := SplatRadius(0.3, 0.5); math.Abs(float64(r)-0.003) > 1e-7 {
		t.Errorf("expected tall viewport to keep radius, got %v", r)
	}
}

func TestSplatsFromDifferentPointersCommute(t *testing.T) {
	a := pointer.Splat{PointerID: 1, X: 0.3, Y: 0.4, DX: 50, DY: -20, Color: pointer.RGB{R: 0.1}}
	b := pointer.Splat{PointerID: 2, X: 0.7, Y: 0.6, DX: -30, DY: 10, Color: pointer.RGB{B: 0.15}}

	m1 := newManager(t, 128, 64)
	m2 := newManager(t, 128, 64)
	ApplySplats(m1, []pointer.Splat{a, b}, 0.3, 2)
	ApplySplats(m2, []pointer.Splat{b, a}, 0.3, 2)

	for _, pair := range [][2]*field.Field{
		{m1.Velocity.Read(), m2.Velocity.Read()},
		{m1.Dye.Read(), m2.Dye.Read()},
	} {
		for i := range pair[0].Data {
			if math.Abs(float64(pair[0].Data[i]-pair[1].Data[i])) > 1e-4 {
				t.Fatalf("splat order changed cell %d: %v vs %v", i, pair[0].Data[i], pair[1].Data[i])
			}
		}
	}
}

func TestProjectionReducesDivergence(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	vel := field.NewPair(48, 40, 2, field.Float32)
	for i := range vel.Read().Data {
		vel.Read().Data[i] = rng.Float32()*2 - 1
	}
	pressure := field.NewPair(48, 40, 1, field.Float32)
	div := field.New(48, 40, 1, field.Float32)

	Divergence(vel.Read(), div)
	before := div.MeanAbs()

	Project(vel, pressure, div, 0, 20, nil)

	Divergence(vel.Read(), div)
	after := div.MeanAbs()
	if after >= before {
		t.Errorf("expected mean |div| to drop, before %v after %v", before, after)
	}
}

func TestProjectionLeavesDivergenceFreeFieldUnchanged(t *testing.T) {
	const w, h = 40, 30
	// Stream function vanishing on the walls; its discrete curl has exactly
	// zero discrete divergence.
	psi := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return math.Sin(math.Pi*float64(x)/(w-1)) * math.Sin(math.Pi*float64(y)/(h-1))
	}
	vel := field.NewPair(w, h, 2, field.Float32)
	f := vel.Read()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, 0, float32(psi(x, y)-psi(x, y-1)))
			f.Set(x, y, 1, float32(-(psi(x, y) - psi(x-1, y))))
		}
	}
	orig := append([]float32(nil), f.Data...)

	pressure := field.NewPair(w, h, 1, field.Float32)
	div := field.New(w, h, 1, field.Float32)
	Divergence(vel.Read(), div)
	if d := div.MaxAbs(); d > 1e-5 {
		t.Fatalf("expected divergence-free input, got max %v", d)
	}

	Project(vel, pressure, div, 0, 20, nil)

	got := vel.Read().Data
	for i := range orig {
		if math.Abs(float64(got[i]-orig[i])) > 1e-4 {
			t.Fatalf("projection changed cell %d: %v -> %v", i, orig[i], got[i])
		}
	}
}

func TestApplyWallsClosesOuterFaces(t *testing.T) {
	const w, h = 12, 9
	rng := rand.New(rand.NewSource(5))
	vel := field.NewPair(w, h, 2, field.Float32)
	f := vel.Read()
	for i := range f.Data {
		f.Data[i] = rng.Float32() + 0.5
	}
	orig := append([]float32(nil), f.Data...)

	ApplyWalls(f)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 2; c++ {
				wall := (c == 0 && x == w-1) || (c == 1 && y == h-1)
				got := f.At(x, y, c)
				if wall && got != 0 {
					t.Errorf("expected closed wall face at (%d, %d, %d), got %v", x, y, c, got)
				}
				if !wall && got != orig[f.Index(x, y)+c] {
					t.Errorf("expected interior face (%d, %d, %d) unchanged", x, y, c)
				}
			}
		}
	}

	// Projection keeps the walls closed.
	for i := range f.Data {
		f.Data[i] = rng.Float32()*2 - 1
	}
	pressure := field.NewPair(w, h, 1, field.Float32)
	div := field.New(w, h, 1, field.Float32)
	Project(vel, pressure, div, 0.8, 10, nil)
	out := vel.Read()
	for y := 0; y < h; y++ {
		if u := out.At(w-1, y, 0); u != 0 {
			t.Errorf("expected right wall closed after projection, got %v", u)
		}
	}
	for x := 0; x < w; x++ {
		if v := out.At(x, h-1, 1); v != 0 {
			t.Errorf("expected top wall closed after projection, got %v", v)
		}
	}
}

func TestVorticityWithoutCurlIsNoop(t *testing.T) {
	vel := field.NewPair(16, 16, 2, field.Float32)
	for i := 0; i < len(vel.Read().Data); i += 2 {
		vel.Read().Data[i] = 3
	}
	curl := field.New(16, 16, 1, field.Float32)
	Curl(vel.Read(), curl)
	if c := curl.MaxAbs(); c != 0 {
		t.Fatalf("expected uniform flow to have zero curl, got %v", c)
	}
	Vorticity(vel, curl, 30, 1.0/60)
	for i, v := range vel.Read().Data {
		want := float32(0)
		if i%2 == 0 {
			want = 3
		}
		if v != want {
			t.Fatalf("expected cell %d unchanged at %v, got %v", i, want, v)
		}
	}
}

func TestAdvectTranslatesUniformFlow(t *testing.T) {
	vel := field.New(32, 32, 2, field.Float32)
	for i := 0; i < len(vel.Data); i += 2 {
		vel.Data[i] = 60 // one cell per tick at 60fps
	}
	dye := field.NewPair(32, 32, 1, field.Float32)
	dye.Read().Set(10, 16, 0, 1)

	Advect(dye, vel, 1.0/60, 1)

	if v := dye.Read().At(11, 16, 0); math.Abs(float64(v)-1) > 1e-4 {
		t.Errorf("expected dye to move one cell right, got %v at x=11", v)
	}
	if v := dye.Read().At(10, 16, 0); math.Abs(float64(v)) > 1e-4 {
		t.Errorf("expected source cell emptied, got %v", v)
	}
}

type recordingTracer struct{ phases []string }

func (r *recordingTracer) StartPhase(name string) { r.phases = append(r.phases, name) }

func TestStepReportsPhasesInOrder(t *testing.T) {
	m := newManager(t, 64, 64)
	tr := &recordingTracer{}
	Step(m, config.Default().Fluid, 1.0/60, tr)

	want := []string{"curl", "vorticity", "divergence", "pressure", "gradient", "advect_velocity", "advect_dye"}
	if len(tr.phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, tr.phases)
	}
	for i := range want {
		if tr.phases[i] != want[i] {
			t.Errorf("phase %d: expected %s, got %s", i, want[i], tr.phases[i])
		}
	}
}
