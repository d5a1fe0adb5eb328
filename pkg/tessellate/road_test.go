package tessellate_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/chazu/roadspline/pkg/curve"
	"github.com/chazu/roadspline/pkg/kernel/sdfx"
	"github.com/chazu/roadspline/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestRoadRegenerate(t *testing.T) {
	p := square(4, 4)
	r := tessellate.NewRoad("loop", *p, squareParams(), sdfx.New())

	if res, fresh := r.Result(); res != nil || fresh {
		t.Fatal("a new road should have no result")
	}

	res, err := r.Regenerate()
	if err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	if res.Road.PartName != "loop/road" {
		t.Errorf("expected PartName %q, got %q", "loop/road", res.Road.PartName)
	}
	cached, fresh := r.Result()
	if cached != res || !fresh {
		t.Fatal("Result should return the fresh cached pass")
	}

	// Editing the caller's slice must not reach the road.
	p.Points[0] = v3.Vec{X: 100}
	if got := r.Polygon().Points[0]; got != (v3.Vec{}) {
		t.Errorf("road point 0 = %v, want origin", got)
	}

	if !r.MovePoint(1, v3.Vec{X: 5}) {
		t.Fatal("MovePoint(1) failed")
	}
	if r.MovePoint(9, v3.Vec{}) {
		t.Error("MovePoint(9) should fail on a four-point road")
	}
	if _, fresh := r.Result(); fresh {
		t.Error("result should be stale after MovePoint")
	}

	if _, err := r.Regenerate(); err != nil {
		t.Fatalf("Regenerate failed: %v", err)
	}
	if r.Passes() != 2 {
		t.Errorf("Passes() = %d, want 2", r.Passes())
	}
}

func TestRoadKeepsResultOnFailure(t *testing.T) {
	r := tessellate.NewRoad("loop", *square(4, 4), squareParams(), sdfx.New())
	first, err := r.Regenerate()
	if err != nil {
		t.Fatal(err)
	}

	r.SetResolution(0)
	if _, err := r.Regenerate(); !errors.Is(err, curve.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	res, fresh := r.Result()
	if res != first || fresh {
		t.Error("failed regenerate should keep the previous, stale result")
	}

	r.SetResolution(4)
	r.SetClosed(false)
	r.SetParams(tessellate.DefaultParams())
	res, err = r.Regenerate()
	if err != nil {
		t.Fatal(err)
	}
	if res.Closed || res.Segments() != 4*3-1 {
		t.Errorf("open road: closed=%v segments=%d, want open with 11", res.Closed, res.Segments())
	}
}

func TestRoadConcurrentUse(t *testing.T) {
	base := square(4, 3)
	r := tessellate.NewRoad("loop", *base, squareParams(), sdfx.New())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.MovePoint(i%4, base.Points[i%4].Add(v3.Vec{Y: 0.1 * float64(i)}))
			if _, err := r.Regenerate(); err != nil {
				t.Errorf("Regenerate failed: %v", err)
			}
			r.Result()
		}(i)
	}
	wg.Wait()
	if r.Passes() != 8 {
		t.Errorf("Passes() = %d, want 8", r.Passes())
	}
}
