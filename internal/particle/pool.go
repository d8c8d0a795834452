package particle

import "sync"

// PathPool recycles trail buffers of removed particles. A nil *PathPool is
// valid and simply allocates.
type PathPool struct {
	pool sync.Pool
	size int
}

func NewPathPool(initialCap int) *PathPool {
	p := &PathPool{size: initialCap}
	p.pool.New = func() interface{} {
		return NewPath(p.size)
	}
	return p
}

func (p *PathPool) Get() *Path {
	if p == nil {
		return NewPath(minPathCap)
	}
	return p.pool.Get().(*Path)
}

func (p *PathPool) Put(path *Path) {
	if p == nil || path == nil {
		return
	}
	path.Reset()
	p.pool.Put(path)
}
