package post

import (
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/fluid/config"
	"github.com/pthm-cable/fluid/field"
)

func uniformDye(w, h int, r, g, b float32) *field.Field {
	f := field.New(w, h, 3, field.Float32)
	for i := 0; i < len(f.Data); i += 3 {
		f.Data[i], f.Data[i+1], f.Data[i+2] = r, g, b
	}
	return f
}

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestPrefilterKeepsOnlyBrightDye(t *testing.T) {
	dst := field.New(8, 8, 3, field.Float32)

	Prefilter(uniformDye(8, 8, 0.3, 0.2, 0.1), dst, 0.6, 0)
	if m := dst.MaxAbs(); m != 0 {
		t.Errorf("expected dim dye to be dropped, got max %v", m)
	}

	Prefilter(uniformDye(8, 8, 1, 0.5, 0), dst, 0.6, 0)
	r, g := dst.At(3, 3, 0), dst.At(3, 3, 1)
	if !near(r, 0.4, 1e-3) || !near(g, 0.2, 1e-3) {
		t.Errorf("expected (0.4, 0.2) above threshold, got (%v, %v)", r, g)
	}
}

func TestBloomClearsWithTooFewMips(t *testing.T) {
	dst := uniformDye(8, 8, 1, 1, 1)
	mips := []*field.Field{field.New(4, 4, 3, field.Float32)}
	Bloom(uniformDye(8, 8, 1, 1, 1), dst, mips, config.Default().Bloom)
	if m := dst.MaxAbs(); m != 0 {
		t.Errorf("expected cleared bloom, got max %v", m)
	}
}

func TestBloomOfBrightDyeIsPositive(t *testing.T) {
	cfg := config.Default().Bloom
	dst := field.New(16, 16, 3, field.Float32)
	mips := []*field.Field{
		field.New(8, 8, 3, field.Float32),
		field.New(4, 4, 3, field.Float32),
		field.New(2, 2, 3, field.Float32),
	}

	Bloom(field.New(16, 16, 3, field.Float32), dst, mips, cfg)
	if m := dst.MaxAbs(); m != 0 {
		t.Errorf("expected no bloom from empty dye, got %v", m)
	}

	Bloom(uniformDye(16, 16, 1, 1, 1), dst, mips, cfg)
	if v := dst.At(8, 8, 0); v <= 0 {
		t.Errorf("expected positive bloom from bright dye, got %v", v)
	}
}

func TestSunraysUniformWhenDyeIsClear(t *testing.T) {
	dst := field.New(12, 10, 1, field.Float32)
	temp := field.New(12, 10, 1, field.Float32)
	Sunrays(field.New(24, 20, 3, field.Float32), dst, temp, 1)

	var sum float64
	for i := 0; i < sunraysSteps; i++ {
		sum += math.Pow(sunraysDecay, float64(i))
	}
	want := float32((1 + sum) * sunraysExposure)
	for i, v := range dst.Data {
		if !near(v, want, 1e-3) {
			t.Fatalf("expected %v everywhere, got %v at %d", want, v, i)
		}
	}

	Sunrays(uniformDye(24, 20, 1, 1, 1), dst, temp, 1)
	if v := dst.At(6, 5, 0); v >= want {
		t.Errorf("expected dense dye to occlude rays, got %v >= %v", v, want)
	}
}

func TestCompositeTransparentBackground(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Transparent = true
	img := image.NewRGBA(image.Rect(0, 0, 10, 6))
	Composite(img, field.New(20, 12, 3, field.Float32), nil, nil, cfg)
	for i, v := range img.Pix {
		if v != 0 {
			t.Fatalf("expected fully transparent frame, got %d at %d", v, i)
		}
	}
}

func TestCompositeOpaqueBackground(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Transparent = false
	cfg.Display.BackColor = config.Color{R: 255}
	cfg.Bloom.Enabled = false
	cfg.Sunrays.Enabled = false
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Composite(img, field.New(8, 8, 3, field.Float32), nil, nil, cfg)
	got := img.RGBAAt(2, 2)
	if got.R != 255 || got.G != 0 || got.B != 0 || got.A != 255 {
		t.Errorf("expected opaque background red, got %+v", got)
	}
}

func TestCompositeIsPremultiplied(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	dye := field.New(16, 16, 3, field.Float32)
	for i := range dye.Data {
		dye.Data[i] = rng.Float32() * 1.5
	}
	bloom := field.New(8, 8, 3, field.Float32)
	for i := range bloom.Data {
		bloom.Data[i] = rng.Float32()
	}
	cfg := config.Default()
	cfg.Sunrays.Enabled = false

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	Composite(img, dye, bloom, nil, cfg)
	for i := 0; i < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		if img.Pix[i] > a || img.Pix[i+1] > a || img.Pix[i+2] > a {
			t.Fatalf("pixel %d not premultiplied: %v", i/4, img.Pix[i:i+4])
		}
	}
}

func TestCompositeFlipsRows(t *testing.T) {
	dye := field.New(4, 4, 3, field.Float32)
	for x := 0; x < 4; x++ {
		dye.Set(x, 3, 1, 1) // top row of the field is green
	}
	cfg := config.Default()
	cfg.Display.Shading = false
	cfg.Bloom.Enabled = false
	cfg.Sunrays.Enabled = false

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Composite(img, dye, nil, nil, cfg)
	if g := img.RGBAAt(1, 0).G; g != 255 {
		t.Errorf("expected image top row green, got %d", g)
	}
	if g := img.RGBAAt(1, 3).G; g != 0 {
		t.Errorf("expected image bottom row empty, got %d", g)
	}
}

func TestCompositeShadingOverEmptyDyeShowsBackground(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Shading = true
	cfg.Display.Transparent = false
	cfg.Display.BackColor = config.Color{R: 40, G: 80, B: 120}
	cfg.Bloom.Enabled = false
	cfg.Sunrays.Enabled = false

	dye := field.New(16, 16, 3, field.Float32)
	dye.Set(8, 8, 0, 1)
	dst := image.NewRGBA(image.Rect(0, 0, 64, 64))
	Composite(dst, dye, nil, nil, cfg)

	c := dst.RGBAAt(2, 2)
	if c.R != 40 || c.G != 80 || c.B != 120 || c.A != 255 {
		t.Errorf("expected background far from dye, got %v", c)
	}
	if lit := dst.RGBAAt(33, 30); lit.R <= 40 {
		t.Errorf("expected dye brighter than background near its cell, got %v", lit)
	}
}

// Benchmark a full-viewport composite with every pass on
func BenchmarkComposite(b *testing.B) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(3))
	dye := field.New(910, 512, 3, field.Float32)
	for i := range dye.Data {
		dye.Data[i] = rng.Float32() * 0.2
	}
	bloom := uniformDye(228, 128, 0.1, 0.1, 0.1)
	sunrays := field.New(114, 64, 1, field.Float32)
	for i := range sunrays.Data {
		sunrays.Data[i] = 0.9
	}
	dst := image.NewRGBA(image.Rect(0, 0, 1280, 720))

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		Composite(dst, dye, bloom, sunrays, cfg)
	}
}
