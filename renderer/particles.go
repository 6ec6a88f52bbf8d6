package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mindurka/overdrive/camera"
	"github.com/mindurka/overdrive/systems"
)

// pulseLife is how many frames a pulse ring stays on screen.
const pulseLife = 30

type ring struct {
	x, y   float32
	radius float32
	boost  float32
	team   uint8
	life   int
}

// PulseRenderer draws overdrive pulses as expanding rings that fade out.
type PulseRenderer struct {
	rings []ring
}

// NewPulseRenderer creates a new pulse renderer.
func NewPulseRenderer() *PulseRenderer {
	return &PulseRenderer{}
}

// Add starts a ring for every pulse fired since the last frame.
func (r *PulseRenderer) Add(pulses []systems.Pulse) {
	for _, p := range pulses {
		r.rings = append(r.rings, ring{
			x:      p.Pos.X,
			y:      p.Pos.Y,
			radius: p.Range,
			boost:  p.Intensity,
			team:   uint8(p.Team),
			life:   pulseLife,
		})
	}
}

// Draw renders and ages every ring.
func (r *PulseRenderer) Draw(cam *camera.Camera) {
	alive := r.rings[:0]
	for _, p := range r.rings {
		lifeRatio := float32(p.life) / pulseLife
		radius := p.radius * (1 - lifeRatio*0.5)

		if cam.IsVisible(p.x, p.y, radius) {
			sx, sy := cam.WorldToScreen(p.x, p.y)
			color := TeamColor(p.team)
			color.A = uint8(lifeRatio * 160 * min(p.boost/2.5, 1))
			rl.DrawCircleLines(int32(sx), int32(sy), radius*cam.Zoom, color)
		}

		p.life--
		if p.life > 0 {
			alive = append(alive, p)
		}
	}
	r.rings = alive
}
