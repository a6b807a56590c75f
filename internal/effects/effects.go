package effects

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Rect is a control's bounding box in screen units.
type Rect struct {
	X, Y, W, H float64
}

// Glow is the edge highlight of a control for one pointer position.
type Glow struct {
	Intensity float64
	// EdgeX and EdgeY locate the nearest border point as a percentage of
	// the control's width and height.
	EdgeX, EdgeY     float64
	ShadowX, ShadowY float64
	Active           bool
}

const glowCurve = 0.7

// EdgeGlow measures the pointer's distance to the nearest point on the
// border of r. Within threshold the intensity eases from 1 at the border
// down to 0.
func EdgeGlow(r Rect, pointerX, pointerY, threshold float64) Glow {
	px := pointerX - r.X
	py := pointerY - r.Y

	var ex, ey float64
	if px >= 0 && px <= r.W && py >= 0 && py <= r.H {
		left, right, top, bottom := px, r.W-px, py, r.H-py
		switch math.Min(math.Min(left, right), math.Min(top, bottom)) {
		case left:
			ex, ey = 0, py
		case right:
			ex, ey = r.W, py
		case top:
			ex, ey = px, 0
		default:
			ex, ey = px, r.H
		}
	} else {
		ex = clamp(px, 0, r.W)
		ey = clamp(py, 0, r.H)
	}

	d := math.Hypot(px-ex, py-ey)
	var g Glow
	if threshold > 0 && d < threshold {
		g.Intensity = math.Pow(1-d/threshold, glowCurve)
	}
	if r.W > 0 {
		g.EdgeX = ex / r.W * 100
	}
	if r.H > 0 {
		g.EdgeY = ey / r.H * 100
	}
	g.ShadowX = (ex - r.W/2) * 0.15
	g.ShadowY = (ey - r.H/2) * 0.3
	g.Active = g.Intensity > 0.1
	return g
}

// Parallax returns the backdrop offset and the blur layer's offset for a
// scroll position. ok is false past the landing section, where the
// previous offsets stay in place.
func Parallax(scrollY, landingHeight, intensity float64) (bg, blur float64, ok bool) {
	if scrollY > landingHeight {
		return 0, 0, false
	}
	bg = scrollY * intensity * 100
	return bg, bg * 0.5, true
}

// Smoother eases a displayed value toward its target with a damped spring,
// one step per frame.
type Smoother struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func NewSmoother(fps int) *Smoother {
	if fps <= 0 {
		fps = 60
	}
	return &Smoother{spring: harmonica.NewSpring(harmonica.FPS(fps), 10.0, 0.8)}
}

func (s *Smoother) Update(target float64) float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	return s.pos
}

func (s *Smoother) Value() float64 { return s.pos }

func (s *Smoother) Reset(v float64) { s.pos, s.vel = v, 0 }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
