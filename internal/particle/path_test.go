package particle

import (
	"testing"

	"github.com/san-kum/bubblechamber/internal/dynamo"
)

func TestPathFIFO(t *testing.T) {
	p := NewPath(0)
	for i := 0; i < 5; i++ {
		p.PushBack(dynamo.Vec3{X: float64(i)})
	}
	if p.Len() != 5 {
		t.Fatalf("expected len 5, got %d", p.Len())
	}

	v, ok := p.PopFront()
	if !ok || v.X != 0 {
		t.Errorf("PopFront = %v, %v; want X=0", v, ok)
	}
	if front, _ := p.Front(); front.X != 1 {
		t.Errorf("Front = %v, want X=1", front)
	}
	if back, _ := p.Back(); back.X != 4 {
		t.Errorf("Back = %v, want X=4", back)
	}
}

func TestPathGrowPreservesOrder(t *testing.T) {
	p := NewPath(minPathCap)

	// Wrap the ring before growing so the copy has to unroll it.
	for i := 0; i < 10; i++ {
		p.PushBack(dynamo.Vec3{X: float64(i)})
	}
	for i := 0; i < 8; i++ {
		p.PopFront()
	}
	for i := 10; i < 40; i++ {
		p.PushBack(dynamo.Vec3{X: float64(i)})
	}

	if p.Len() != 32 {
		t.Fatalf("expected len 32, got %d", p.Len())
	}
	if p.Cap() < 32 {
		t.Errorf("expected capacity >= 32, got %d", p.Cap())
	}
	pts := p.Points()
	for i, pt := range pts {
		if pt.X != float64(i+8) {
			t.Fatalf("point %d = %v, want X=%d", i, pt, i+8)
		}
	}
}

func TestPathEmpty(t *testing.T) {
	p := NewPath(4)
	if _, ok := p.PopFront(); ok {
		t.Error("PopFront on empty path should report false")
	}
	if _, ok := p.Front(); ok {
		t.Error("Front on empty path should report false")
	}
	if _, ok := p.Back(); ok {
		t.Error("Back on empty path should report false")
	}
	if len(p.Points()) != 0 {
		t.Error("Points of empty path should be empty")
	}

	var zero Path
	zero.PushBack(dynamo.Vec3{X: 1})
	if zero.Len() != 1 {
		t.Error("zero-value Path should be usable")
	}
}

func TestPathAtOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("At out of range should panic")
		}
	}()
	p := NewPath(4)
	p.At(0)
}

func TestPathEach(t *testing.T) {
	p := NewPath(4)
	for i := 0; i < 3; i++ {
		p.PushBack(dynamo.Vec3{Y: float64(i)})
	}
	sum := 0.0
	p.Each(func(i int, v dynamo.Vec3) {
		if v.Y != float64(i) {
			t.Errorf("Each index %d got %v", i, v)
		}
		sum += v.Y
	})
	if sum != 3 {
		t.Errorf("expected sum 3, got %f", sum)
	}
}

func TestPathPool(t *testing.T) {
	pool := NewPathPool(32)

	p1 := pool.Get()
	p1.PushBack(dynamo.Vec3{X: 1})
	p1.PushBack(dynamo.Vec3{X: 2})
	pool.Put(p1)

	p2 := pool.Get()
	if p2.Len() != 0 {
		t.Error("pool did not reset path")
	}

	var nilPool *PathPool
	if nilPool.Get() == nil {
		t.Error("nil pool should allocate")
	}
	nilPool.Put(p2)
}
