package main

import "testing"

func testBoard(t *testing.T) *Board {
	t.Helper()
	board := newBoard(newFaceSource(1))
	board.ReplaceTrack(lineTrack(20))
	return board
}

func TestCenterOnTileIdempotent(t *testing.T) {
	board := testBoard(t)
	camera := newCamera(Vec2{X: 1280, Y: 720})
	coord := TileCoord{X: 4, Y: 0}

	camera.CenterOnTile(coord, board.Bounds())
	first := camera.Pan()
	camera.CenterOnTile(coord, board.Bounds())
	if camera.Pan() != first {
		t.Fatalf("expected identical pan, got %+v then %+v", first, camera.Pan())
	}
}

func TestCenterOnTileAccountsForZoom(t *testing.T) {
	board := testBoard(t)
	camera := newCamera(Vec2{X: 1000, Y: 600})
	camera.ZoomBy(1.2)
	coord := TileCoord{X: 0, Y: 0}

	camera.CenterOnTile(coord, board.Bounds())
	world := tileToWorld(coord, board.Bounds())
	zoom := camera.Zoom()
	want := Vec2{
		X: 500 - (world.X+tileSize/2)*zoom,
		Y: 300 - (world.Y+tileSize/2)*zoom,
	}
	if camera.Pan() != want {
		t.Fatalf("expected pan %+v, got %+v", want, camera.Pan())
	}
}

func TestZoomAlwaysClamped(t *testing.T) {
	camera := newCamera(Vec2{X: 800, Y: 600})
	factors := []float64{1.1, 1.2, 0.9, 0.8, 1.2, 1.2, 0.9, 1.1, 0.8, 0.8}

	for i := 0; i < 200; i++ {
		camera.ZoomBy(factors[i%len(factors)])
		if zoom := camera.Zoom(); zoom < zoomMin || zoom > zoomMax {
			t.Fatalf("zoom %v escaped clamp after %d steps", zoom, i+1)
		}
	}

	for i := 0; i < 50; i++ {
		camera.ZoomBy(1.2)
	}
	if camera.Zoom() != zoomMax {
		t.Fatalf("expected zoom pinned at %v, got %v", zoomMax, camera.Zoom())
	}
	for i := 0; i < 50; i++ {
		camera.ZoomBy(0.8)
	}
	if camera.Zoom() != zoomMin {
		t.Fatalf("expected zoom pinned at %v, got %v", zoomMin, camera.Zoom())
	}
	if camera.ZoomBy(0) != zoomMin {
		t.Fatalf("non-positive factor must be ignored")
	}
}

func TestDragLifecycle(t *testing.T) {
	camera := newCamera(Vec2{X: 800, Y: 600})

	camera.DragMove(Vec2{X: 50, Y: 50})
	if camera.Pan() != (Vec2{}) {
		t.Fatalf("move without an active drag must not pan, got %+v", camera.Pan())
	}

	camera.DragStart(Vec2{X: 100, Y: 100})
	if !camera.Dragging() {
		t.Fatalf("expected drag to be active")
	}
	camera.DragMove(Vec2{X: 130, Y: 80})
	if camera.Pan() != (Vec2{X: 30, Y: -20}) {
		t.Fatalf("expected pan delta {30 -20}, got %+v", camera.Pan())
	}

	camera.DragEnd()
	if camera.Dragging() {
		t.Fatalf("expected drag to be cleared")
	}
	camera.DragMove(Vec2{X: 500, Y: 500})
	if camera.Pan() != (Vec2{X: 30, Y: -20}) {
		t.Fatalf("pan changed after drag ended: %+v", camera.Pan())
	}

	// Ending twice (release plus pointer-leave) stays a no-op.
	camera.DragEnd()
	if camera.Dragging() {
		t.Fatalf("double end must leave drag inactive")
	}
}

func TestEnsureInitialCenterRunsOnce(t *testing.T) {
	board := testBoard(t)
	camera := newCamera(Vec2{X: 1280, Y: 720})

	if camera.EnsureInitialCenter(newBoard(newFaceSource(1))) {
		t.Fatalf("centering must wait for tiles")
	}

	if !camera.EnsureInitialCenter(board) {
		t.Fatalf("expected first centering to run")
	}
	world := tileToWorld(board.MidpointCoord(), board.Bounds())
	want := Vec2{X: 640 - world.X, Y: 360 - world.Y}
	if camera.Pan() != want {
		t.Fatalf("expected initial pan %+v, got %+v", want, camera.Pan())
	}

	camera.DragStart(Vec2{})
	camera.DragMove(Vec2{X: 40, Y: 40})
	camera.DragEnd()
	moved := camera.Pan()
	if camera.EnsureInitialCenter(board) {
		t.Fatalf("centering must not repeat")
	}
	if camera.Pan() != moved {
		t.Fatalf("repeat centering disturbed pan: %+v", camera.Pan())
	}

	camera.Reset()
	if !camera.EnsureInitialCenter(board) {
		t.Fatalf("reset must re-arm initial centering")
	}
}
