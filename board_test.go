package main

import (
	"fmt"
	"testing"
)

func lineTrack(n int) []Tile {
	tiles := make([]Tile, 0, n)
	for i := 0; i < n; i++ {
		kind := TileNormal
		switch {
		case i == 0:
			kind = TileStart
		case i == n-1:
			kind = TileEnd
		case i%5 == 0:
			kind = TileSpecial
		}
		tiles = append(tiles, Tile{
			ID:    fmt.Sprintf("tile-%d", i),
			Coord: TileCoord{X: i - n/2, Y: 0},
			Kind:  kind,
		})
	}
	return tiles
}

func TestComputeBoundsEmpty(t *testing.T) {
	bounds := computeBounds(nil)
	if size := bounds.WorldSize(); size.X != 0 || size.Y != 0 {
		t.Fatalf("expected zero world size for empty bounds, got %+v", size)
	}
	if world := tileToWorld(TileCoord{X: 3, Y: -2}, bounds); world.X != 3*tileStride || world.Y != -2*tileStride {
		t.Fatalf("empty bounds should apply no offset, got %+v", world)
	}
}

func TestPaddingKeepsWorldNonNegative(t *testing.T) {
	boards := map[string][]Tile{
		"line":   lineTrack(20),
		"single": {{ID: "only", Coord: TileCoord{X: -7, Y: 3}, Kind: TileNormal}},
		"bent": {
			{ID: "a", Coord: TileCoord{X: -4, Y: 0}, Kind: TileStart},
			{ID: "b", Coord: TileCoord{X: -4, Y: -6}, Kind: TileNormal},
			{ID: "c", Coord: TileCoord{X: 9, Y: 2}, Kind: TileEnd},
		},
	}

	for name, tiles := range boards {
		bounds := computeBounds(tiles)
		appends := []TileCoord{
			{X: bounds.MinX - 1, Y: 0},
			{X: bounds.MaxX + 1, Y: 0},
			{X: 0, Y: bounds.MinY - 1},
			{X: 0, Y: bounds.MaxY + 1},
		}
		for _, coord := range appends {
			grown := append(append([]Tile(nil), tiles...), Tile{ID: "new", Coord: coord, Kind: TileNormal})
			grownBounds := computeBounds(grown)
			for _, tile := range grown {
				world := tileToWorld(tile.Coord, grownBounds)
				if world.X < 0 || world.Y < 0 {
					t.Fatalf("%s: tile %s at %+v mapped to negative world %+v after append at %+v",
						name, tile.ID, tile.Coord, world, coord)
				}
			}
		}
	}
}

func TestTileToWorldInjective(t *testing.T) {
	tiles := lineTrack(20)
	bounds := computeBounds(tiles)
	seen := make(map[Vec2]TileCoord)
	for x := -12; x <= 12; x++ {
		for y := -12; y <= 12; y++ {
			coord := TileCoord{X: x, Y: y}
			world := tileToWorld(coord, bounds)
			if prior, dup := seen[world]; dup {
				t.Fatalf("coords %+v and %+v both map to %+v", prior, coord, world)
			}
			seen[world] = coord
		}
	}
}

func TestCoordAtFallsBackSoftly(t *testing.T) {
	board := newBoard(newFaceSource(1))

	if coord := board.CoordAt(3); coord != (TileCoord{}) {
		t.Fatalf("empty board should resolve to origin, got %+v", coord)
	}

	board.ReplaceTrack(lineTrack(20))
	first := TileCoord{X: -10, Y: 0}
	if coord := board.CoordAt(-1); coord != first {
		t.Fatalf("negative index should resolve to first tile, got %+v", coord)
	}
	if coord := board.CoordAt(20); coord != first {
		t.Fatalf("past-the-end index should resolve to first tile, got %+v", coord)
	}
	if coord := board.CoordAt(4); coord != (TileCoord{X: -6, Y: 0}) {
		t.Fatalf("index 4 should resolve to its own tile, got %+v", coord)
	}
}

func TestExpandDirections(t *testing.T) {
	board := newBoard(newFaceSource(1))
	board.ReplaceTrack(lineTrack(20))
	bounds := board.Bounds()
	midX := floorDiv(bounds.MinX+bounds.MaxX, 2)

	cases := []struct {
		direction ExpandDirection
		want      TileCoord
	}{
		{ExpandUp, TileCoord{X: midX, Y: bounds.MinY - 1}},
		{ExpandLeft, TileCoord{X: bounds.MinX - 1, Y: 0}},
		{ExpandRight, TileCoord{X: bounds.MaxX + 1, Y: 0}},
	}
	for _, tc := range cases {
		tile, err := board.Expand(tc.direction)
		if err != nil {
			t.Fatalf("expand %s: %v", tc.direction, err)
		}
		if tile.Coord != tc.want {
			t.Fatalf("expand %s: expected %+v, got %+v", tc.direction, tc.want, tile.Coord)
		}
	}

	// Down happens after up moved minY, so it keys off the refreshed bounds.
	downBounds := board.Bounds()
	tile, err := board.Expand(ExpandDown)
	if err != nil {
		t.Fatalf("expand down: %v", err)
	}
	if tile.Coord.Y != downBounds.MaxY+1 {
		t.Fatalf("expand down: expected Y %d, got %d", downBounds.MaxY+1, tile.Coord.Y)
	}

	if board.TrackLen() != 20 {
		t.Fatalf("decorative tiles must not join the track, len=%d", board.TrackLen())
	}
	if coord := board.CoordAt(19); coord != (TileCoord{X: 9, Y: 0}) {
		t.Fatalf("index mapping changed after expansion: %+v", coord)
	}
	if len(board.Tiles()) != 24 {
		t.Fatalf("expected 24 tiles total, got %d", len(board.Tiles()))
	}
}

func TestExpandRejectsEmptyBoardAndUnknownDirection(t *testing.T) {
	board := newBoard(newFaceSource(1))
	if _, err := board.Expand(ExpandUp); err == nil {
		t.Fatalf("expected error expanding an empty board")
	}
	board.ReplaceTrack(lineTrack(3))
	if _, err := board.Expand(ExpandDirection("sideways")); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestMidpointCoordFloorsNegatives(t *testing.T) {
	board := newBoard(newFaceSource(1))
	board.ReplaceTrack(lineTrack(20))
	// Bounds span -10..9, so the floor midpoint is -1.
	if mid := board.MidpointCoord(); mid != (TileCoord{X: -1, Y: 0}) {
		t.Fatalf("unexpected midpoint %+v", mid)
	}
}
