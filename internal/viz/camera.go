package viz

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/particle"
)

const (
	minZoom = 0.1
	maxZoom = 10

	// perspective eye distance, in units of Extent
	eyeDistance = 4.0
	nearPlane   = 0.1
)

// Camera projects chamber coordinates onto the canvas. Rotation and zoom
// move toward their targets on critically damped springs, one Update per
// rendered frame.
type Camera struct {
	// Extent is the world half-width visible at zoom 1.
	Extent float64

	rot, rotVel, rotTarget    [3]float64
	zoom, zoomVel, zoomTarget float64
	spring                    harmonica.Spring
}

func NewCamera(extent float64, fps int) *Camera {
	if extent <= 0 {
		extent = 1
	}
	return &Camera{
		Extent:     extent,
		zoom:       1,
		zoomTarget: 1,
		spring:     harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (c *Camera) RotateX(a float64) { c.rotTarget[0] += a }
func (c *Camera) RotateY(a float64) { c.rotTarget[1] += a }
func (c *Camera) RotateZ(a float64) { c.rotTarget[2] += a }
func (c *Camera) ZoomIn()           { c.zoomTarget = math.Min(maxZoom, c.zoomTarget*1.2) }
func (c *Camera) ZoomOut()          { c.zoomTarget = math.Max(minZoom, c.zoomTarget/1.2) }

// Update advances the springs by one frame.
func (c *Camera) Update() {
	for i := range c.rot {
		c.rot[i], c.rotVel[i] = c.spring.Update(c.rot[i], c.rotVel[i], c.rotTarget[i])
	}
	c.zoom, c.zoomVel = c.spring.Update(c.zoom, c.zoomVel, c.zoomTarget)
}

// Snap jumps straight to the targets.
func (c *Camera) Snap() {
	c.rot, c.zoom = c.rotTarget, c.zoomTarget
	c.rotVel, c.zoomVel = [3]float64{}, 0
}

// Home resets rotation and zoom targets.
func (c *Camera) Home() {
	c.rotTarget = [3]float64{}
	c.zoomTarget = 1
}

func (c *Camera) Zoom() float64        { return c.zoom }
func (c *Camera) ZoomTarget() float64  { return c.zoomTarget }
func (c *Camera) Rotation() [3]float64 { return c.rot }

// RotatePoint rotates a point about x, then y, then z.
func (c *Camera) RotatePoint(p dynamo.Vec3) dynamo.Vec3 {
	cx, sx := math.Cos(c.rot[0]), math.Sin(c.rot[0])
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.rot[1]), math.Sin(c.rot[1])
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.rot[2]), math.Sin(c.rot[2])
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts chamber coordinates to screen coordinates on an sw×sh
// surface. Returns x, y, depth, and visibility.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.zoom / c.Extent)
	if rot.Z >= eyeDistance-nearPlane {
		return 0, 0, 0, false
	}
	scale := eyeDistance / (eyeDistance - rot.Z)
	half := float64(min(sw, sh)) / 2
	sx := int(rot.X*scale*half) + sw/2
	sy := int(-rot.Y*scale*half) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// InFront reports whether p lies in front of the eye.
func (c *Camera) InFront(p dynamo.Vec3) bool {
	return c.RotatePoint(p).Scale(c.zoom/c.Extent).Z < eyeDistance-nearPlane
}

type Edge struct {
	Start, End dynamo.Vec3
	Color      colorful.Color
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e dynamo.Vec3, c colorful.Color) {
	w.Edges = append(w.Edges, Edge{s, e, c})
}

// ChamberBox is the outline of the cube spawn volume.
func ChamberBox(halfExtent float64, c colorful.Color) *Wireframe {
	w, s := NewWireframe(), halfExtent
	v := []dynamo.Vec3{{X: -s, Y: -s, Z: -s}, {X: s, Y: -s, Z: -s}, {X: s, Y: s, Z: -s}, {X: -s, Y: s, Z: -s}, {X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s}}
	ei := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}
	for _, e := range ei {
		w.AddEdge(v[e[0]], v[e[1]], c)
	}
	return w
}

// RenderWireframe draws every edge with at least one visible end and both
// ends in front of the eye.
func RenderWireframe(cv *Canvas, w *Wireframe, cam *Camera) {
	if cv == nil || w == nil || cam == nil {
		return
	}
	sw, sh := cv.SubWidth(), cv.SubHeight()
	for _, e := range w.Edges {
		x1, y1, _, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, _, v2 := cam.Project(e.End, sw, sh)
		if (v1 || v2) && cam.InFront(e.Start) && cam.InFront(e.End) {
			cv.DrawLine(x1, y1, x2, y2, e.Color)
		}
	}
}

// RenderTrails draws each particle's path oldest to newest, colored by
// charge and fading toward the tail. Particles heavier than 2 get a second
// stroke one dot below.
func RenderTrails(cv *Canvas, ps []particle.Particle, cam *Camera) {
	sw, sh := cv.SubWidth(), cv.SubHeight()
	for i := range ps {
		p := &ps[i]
		if p.Path == nil {
			continue
		}
		n := p.Path.Len()
		thick := p.Mass > 2
		var px, py int
		var pv, pf bool
		p.Path.Each(func(j int, v dynamo.Vec3) {
			x, y, _, vis := cam.Project(v, sw, sh)
			front := cam.InFront(v)
			col := TrailColor(p.Charge, j+1, n)
			if j == 0 {
				if vis {
					cv.Set(x, y, col)
				}
			} else if front && pf && (vis || pv) {
				cv.DrawLine(px, py, x, y, col)
				if thick {
					cv.DrawLine(px, py+1, x, y+1, col)
				}
			}
			px, py, pv, pf = x, y, vis, front
		})
	}
}
