package particle

import "github.com/san-kum/bubblechamber/internal/dynamo"

const minPathCap = 16

// Path is a growable ring-buffer deque of trail points. Index 0 is the
// oldest point (the tail end of the drawn trail), Len()-1 the newest.
type Path struct {
	buf  []dynamo.Vec3
	head int // index of oldest point
	n    int
}

func NewPath(capacity int) *Path {
	if capacity < minPathCap {
		capacity = minPathCap
	}
	return &Path{buf: make([]dynamo.Vec3, capacity)}
}

func (p *Path) Len() int { return p.n }

func (p *Path) Cap() int { return len(p.buf) }

func (p *Path) grow() {
	next := make([]dynamo.Vec3, 2*len(p.buf))
	for i := 0; i < p.n; i++ {
		next[i] = p.buf[(p.head+i)%len(p.buf)]
	}
	p.buf = next
	p.head = 0
}

// PushBack appends a point at the newest end.
func (p *Path) PushBack(v dynamo.Vec3) {
	if len(p.buf) == 0 {
		p.buf = make([]dynamo.Vec3, minPathCap)
	}
	if p.n == len(p.buf) {
		p.grow()
	}
	p.buf[(p.head+p.n)%len(p.buf)] = v
	p.n++
}

// PopFront removes the oldest point. It reports false when the path was empty.
func (p *Path) PopFront() (dynamo.Vec3, bool) {
	if p.n == 0 {
		return dynamo.Vec3{}, false
	}
	v := p.buf[p.head]
	p.head = (p.head + 1) % len(p.buf)
	p.n--
	if p.n == 0 {
		p.head = 0
	}
	return v, true
}

// At returns the i-th oldest point. It panics when i is out of range.
func (p *Path) At(i int) dynamo.Vec3 {
	if i < 0 || i >= p.n {
		panic("particle: path index out of range")
	}
	return p.buf[(p.head+i)%len(p.buf)]
}

func (p *Path) Front() (dynamo.Vec3, bool) {
	if p.n == 0 {
		return dynamo.Vec3{}, false
	}
	return p.buf[p.head], true
}

func (p *Path) Back() (dynamo.Vec3, bool) {
	if p.n == 0 {
		return dynamo.Vec3{}, false
	}
	return p.At(p.n - 1), true
}

// Points copies the trail oldest first.
func (p *Path) Points() []dynamo.Vec3 {
	out := make([]dynamo.Vec3, p.n)
	for i := range out {
		out[i] = p.buf[(p.head+i)%len(p.buf)]
	}
	return out
}

// Each calls fn for every point, oldest first, without copying.
func (p *Path) Each(fn func(i int, v dynamo.Vec3)) {
	for i := 0; i < p.n; i++ {
		fn(i, p.buf[(p.head+i)%len(p.buf)])
	}
}

func (p *Path) Reset() {
	p.head = 0
	p.n = 0
}
