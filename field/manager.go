package field

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/fluid/config"
)

// Component counts per field kind.
const (
	VelocityComps = 2
	DyeComps      = 3
	ScalarComps   = 1
)

// Resolution computes grid dimensions for a short-side resolution and a
// viewport. The long side scales with the viewport aspect ratio.
func Resolution(res, viewW, viewH int) (w, h int) {
	if viewW <= 0 || viewH <= 0 {
		return res, res
	}
	aspect := float64(viewW) / float64(viewH)
	if aspect < 1 {
		aspect = 1 / aspect
	}
	short := res
	long := int(math.Round(float64(res) * aspect))
	if viewW >= viewH {
		return long, short
	}
	return short, long
}

// Manager owns every grid used by the pipeline and keeps them sized to the
// viewport and configuration.
type Manager struct {
	Velocity *Pair
	Dye      *Pair
	Pressure *Pair

	Divergence *Field
	Curl       *Field

	Bloom     *Field
	BloomMips []*Field

	Sunrays     *Field
	SunraysTemp *Field

	precision    Precision
	viewW, viewH int
	live         int
	logger       *slog.Logger
}

// NewManager creates an empty manager. Call Configure before use.
func NewManager(p Precision, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{precision: p, logger: logger}
}

// Precision returns the storage precision of managed fields.
func (m *Manager) Precision() Precision { return m.precision }

// Viewport returns the viewport the grids were last sized for.
func (m *Manager) Viewport() (w, h int) { return m.viewW, m.viewH }

// Live returns the number of allocated, unreleased fields.
func (m *Manager) Live() int { return m.live }

// Configure sizes every grid for the viewport and configuration. Grids whose
// dimensions are unchanged are kept; replaced grids are released, as are the
// bloom and sunrays grids while those passes are off. Velocity
// and dye contents carry over by resampling. Returns whether anything was
// reallocated.
func (m *Manager) Configure(viewW, viewH int, cfg config.Config) bool {
	m.viewW, m.viewH = viewW, viewH
	changed := false

	simW, simH := Resolution(cfg.Fluid.SimResolution, viewW, viewH)
	dyeW, dyeH := Resolution(cfg.Fluid.DyeResolution, viewW, viewH)

	if m.Velocity == nil || m.Velocity.Width() != simW || m.Velocity.Height() != simH {
		m.Velocity = m.replacePair(m.Velocity, simW, simH, VelocityComps, true)
		m.Pressure = m.replacePair(m.Pressure, simW, simH, ScalarComps, false)
		m.Divergence = m.replace(m.Divergence, simW, simH, ScalarComps)
		m.Curl = m.replace(m.Curl, simW, simH, ScalarComps)
		changed = true
	}
	if m.Dye == nil || m.Dye.Width() != dyeW || m.Dye.Height() != dyeH {
		m.Dye = m.replacePair(m.Dye, dyeW, dyeH, DyeComps, true)
		changed = true
	}

	if cfg.Bloom.Enabled {
		bloomW, bloomH := Resolution(cfg.Bloom.Resolution, viewW, viewH)
		mipSizes := bloomMipSizes(bloomW, bloomH, cfg.Bloom.Iterations)
		if m.Bloom == nil || m.Bloom.W != bloomW || m.Bloom.H != bloomH || !sameMips(m.BloomMips, mipSizes) {
			m.Bloom = m.replace(m.Bloom, bloomW, bloomH, DyeComps)
			m.releaseMips()
			for _, sz := range mipSizes {
				m.BloomMips = append(m.BloomMips, m.alloc(sz[0], sz[1], DyeComps))
			}
			changed = true
		}
	} else if m.Bloom != nil {
		m.release(m.Bloom)
		m.Bloom = nil
		m.releaseMips()
		changed = true
	}

	if cfg.Sunrays.Enabled {
		sunW, sunH := Resolution(cfg.Sunrays.Resolution, viewW, viewH)
		if m.Sunrays == nil || m.Sunrays.W != sunW || m.Sunrays.H != sunH {
			m.Sunrays = m.replace(m.Sunrays, sunW, sunH, ScalarComps)
			m.SunraysTemp = m.replace(m.SunraysTemp, sunW, sunH, ScalarComps)
			changed = true
		}
	} else if m.Sunrays != nil {
		m.release(m.Sunrays)
		m.release(m.SunraysTemp)
		m.Sunrays, m.SunraysTemp = nil, nil
		changed = true
	}

	if changed {
		m.logger.Debug("framebuffers configured",
			"view_w", viewW, "view_h", viewH,
			"sim_w", simW, "sim_h", simH,
			"dye_w", dyeW, "dye_h", dyeH,
			"bloom_mips", len(m.BloomMips),
			"precision", m.precision.String(),
			"live", m.live,
		)
	}
	return changed
}

// Release frees every grid. The manager can be configured again afterwards.
func (m *Manager) Release() {
	for _, p := range []*Pair{m.Velocity, m.Dye, m.Pressure} {
		m.releasePair(p)
	}
	for _, f := range []*Field{m.Divergence, m.Curl, m.Bloom, m.Sunrays, m.SunraysTemp} {
		m.release(f)
	}
	m.releaseMips()
	m.Velocity, m.Dye, m.Pressure = nil, nil, nil
	m.Divergence, m.Curl, m.Bloom, m.Sunrays, m.SunraysTemp = nil, nil, nil, nil, nil
	m.BloomMips = nil
}

func (m *Manager) alloc(w, h, comps int) *Field {
	m.live++
	return New(w, h, comps, m.precision)
}

func (m *Manager) releaseMips() {
	for _, f := range m.BloomMips {
		m.release(f)
	}
	m.BloomMips = m.BloomMips[:0]
}

func (m *Manager) release(f *Field) {
	if f == nil || f.Released() {
		return
	}
	f.Release()
	m.live--
}

func (m *Manager) releasePair(p *Pair) {
	if p == nil {
		return
	}
	for _, f := range p.Fields() {
		m.release(f)
	}
}

func (m *Manager) replace(old *Field, w, h, comps int) *Field {
	m.release(old)
	return m.alloc(w, h, comps)
}

func (m *Manager) replacePair(old *Pair, w, h, comps int, keep bool) *Pair {
	m.live += 2
	p := NewPair(w, h, comps, m.precision)
	if old != nil {
		if keep {
			p.Read().ResampleFrom(old.Read())
		}
		m.releasePair(old)
	}
	return p
}

func bloomMipSizes(w, h, iterations int) [][2]int {
	var sizes [][2]int
	for i := 0; i < iterations; i++ {
		mw := w >> (i + 1)
		mh := h >> (i + 1)
		if mw < 2 || mh < 2 {
			break
		}
		sizes = append(sizes, [2]int{mw, mh})
	}
	return sizes
}

func sameMips(mips []*Field, sizes [][2]int) bool {
	if len(mips) != len(sizes) {
		return false
	}
	for i, f := range mips {
		if f.W != sizes[i][0] || f.H != sizes[i][1] {
			return false
		}
	}
	return true
}
