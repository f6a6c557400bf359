package main

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestTrailKeepsNewestInOrder(t *testing.T) {
	var tr trail
	for i := 0; i < trailLength+5; i++ {
		tr.add(rl.Vector2{X: float32(i)})
	}
	pts := tr.ordered()
	if len(pts) != trailLength {
		t.Fatalf("expected %d points, got %d", trailLength, len(pts))
	}
	if pts[0].X != 5 {
		t.Errorf("expected oldest point 5, got %v", pts[0].X)
	}
	if pts[len(pts)-1].X != float32(trailLength+4) {
		t.Errorf("expected newest point %d, got %v", trailLength+4, pts[len(pts)-1].X)
	}
}

func TestPreviewStepRecordsTrails(t *testing.T) {
	pv := newPreview(PreviewParams{Count: 3, Speed: 0.5, Seed: 1})
	for i := 0; i < 10; i++ {
		pv.step(1.0 / 60)
	}
	for i, tr := range pv.trails {
		if n := len(tr.ordered()); n != 10 {
			t.Errorf("wanderer %d: expected 10 trail points, got %d", i, n)
		}
	}
}
