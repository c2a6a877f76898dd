package main

import "fmt"

// Tile geometry in world-space pixels. A tile occupies tileSize pixels and
// tiles sit tileStride apart, leaving tileGap between neighbours.
const (
	tileSize   = 64.0
	tileGap    = 4.0
	tileStride = tileSize + tileGap

	// boardPadding is measured in tile strides on every side of the board.
	// It must stay >= 1 so appending a tile past the current minimum on any
	// axis still lands at a non-negative world coordinate.
	boardPadding = 5
)

type TileKind string

const (
	TileNormal  TileKind = "normal"
	TileSpecial TileKind = "special"
	TileStart   TileKind = "start"
	TileEnd     TileKind = "end"
)

// TileCoord is a client-local 2D grid coordinate. The server never sees
// these; it addresses tiles only by their linear track index.
type TileCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Tile struct {
	ID    string    `json:"id"`
	Coord TileCoord `json:"coord"`
	Kind  TileKind  `json:"kind"`
}

// Vec2 is a world-space pixel position.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is the axis-aligned tile-coordinate extent of the board. It is
// derived from the tile set on every change, never stored alongside it.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
	empty      bool
}

// Board holds the canonical server-ordered track plus any client-only
// decorative tiles added by world expansion. Decorative tiles participate in
// bounds and rendering but never in the linear index mapping.
type Board struct {
	track      []Tile
	decorative []Tile
	bounds     Bounds
	nextDecor  int
	faces      *faceSource
}

func newBoard(faces *faceSource) *Board {
	return &Board{bounds: Bounds{empty: true}, faces: faces}
}

// ReplaceTrack swaps in a fresh server-ordered tile list, dropping any
// decorative tiles from the previous session.
func (b *Board) ReplaceTrack(tiles []Tile) {
	b.track = append(b.track[:0:0], tiles...)
	b.decorative = nil
	b.recomputeBounds()
}

func (b *Board) TrackLen() int { return len(b.track) }

// Tiles returns every known tile, track first, in a defensive copy.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, 0, len(b.track)+len(b.decorative))
	out = append(out, b.track...)
	out = append(out, b.decorative...)
	return out
}

func (b *Board) Bounds() Bounds { return b.bounds }

func (b *Board) recomputeBounds() {
	b.bounds = computeBounds(b.Tiles())
}

// computeBounds reduces a tile set to its coordinate extent. An empty set
// yields a degenerate zero bound.
func computeBounds(tiles []Tile) Bounds {
	if len(tiles) == 0 {
		return Bounds{empty: true}
	}
	bounds := Bounds{
		MinX: tiles[0].Coord.X, MaxX: tiles[0].Coord.X,
		MinY: tiles[0].Coord.Y, MaxY: tiles[0].Coord.Y,
	}
	for _, tile := range tiles[1:] {
		if tile.Coord.X < bounds.MinX {
			bounds.MinX = tile.Coord.X
		}
		if tile.Coord.X > bounds.MaxX {
			bounds.MaxX = tile.Coord.X
		}
		if tile.Coord.Y < bounds.MinY {
			bounds.MinY = tile.Coord.Y
		}
		if tile.Coord.Y > bounds.MaxY {
			bounds.MaxY = tile.Coord.Y
		}
	}
	return bounds
}

// WorldSize is the renderable world rectangle in pixels, padding included.
func (b Bounds) WorldSize() Vec2 {
	if b.empty {
		return Vec2{}
	}
	return Vec2{
		X: float64(b.MaxX-b.MinX+1+2*boardPadding) * tileStride,
		Y: float64(b.MaxY-b.MinY+1+2*boardPadding) * tileStride,
	}
}

// offset shifts tile coordinates so the padded world starts at pixel zero.
func (b Bounds) offset() Vec2 {
	if b.empty {
		return Vec2{}
	}
	return Vec2{
		X: float64(-b.MinX+boardPadding) * tileStride,
		Y: float64(-b.MinY+boardPadding) * tileStride,
	}
}

// tileToWorld maps a tile coordinate to the pixel origin of its tile. The
// mapping is a translation of a uniform grid, so distinct coordinates always
// land on distinct pixels and relative layout is stable while the board grows.
func tileToWorld(coord TileCoord, bounds Bounds) Vec2 {
	off := bounds.offset()
	return Vec2{
		X: float64(coord.X)*tileStride + off.X,
		Y: float64(coord.Y)*tileStride + off.Y,
	}
}

// CoordAt resolves a server linear index to a 2D coordinate. Out-of-range
// indices fail soft: the first tile's coordinate when the track is non-empty,
// the origin otherwise. Rendering must never stall on a bad index.
func (b *Board) CoordAt(index int) TileCoord {
	if len(b.track) == 0 {
		return TileCoord{}
	}
	if index < 0 || index >= len(b.track) {
		return b.track[0].Coord
	}
	return b.track[index].Coord
}

// MidpointCoord is the floor midpoint of the current bounds, used for the
// one-shot initial camera centering.
func (b *Board) MidpointCoord() TileCoord {
	if b.bounds.empty {
		return TileCoord{}
	}
	return TileCoord{
		X: floorDiv(b.bounds.MinX+b.bounds.MaxX, 2),
		Y: floorDiv(b.bounds.MinY+b.bounds.MaxY, 2),
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

type ExpandDirection string

const (
	ExpandUp    ExpandDirection = "up"
	ExpandDown  ExpandDirection = "down"
	ExpandLeft  ExpandDirection = "left"
	ExpandRight ExpandDirection = "right"
)

// Expand appends a decorative tile one step beyond the current bounds in the
// given direction. Vertical growth branches off the X midpoint; horizontal
// growth extends the main row. The new tile never joins the linear track.
func (b *Board) Expand(direction ExpandDirection) (Tile, error) {
	if len(b.track) == 0 && len(b.decorative) == 0 {
		return Tile{}, fmt.Errorf("expand %s: board has no tiles", direction)
	}
	bounds := b.bounds
	var coord TileCoord
	switch direction {
	case ExpandUp:
		coord = TileCoord{X: floorDiv(bounds.MinX+bounds.MaxX, 2), Y: bounds.MinY - 1}
	case ExpandDown:
		coord = TileCoord{X: floorDiv(bounds.MinX+bounds.MaxX, 2), Y: bounds.MaxY + 1}
	case ExpandLeft:
		coord = TileCoord{X: bounds.MinX - 1, Y: 0}
	case ExpandRight:
		coord = TileCoord{X: bounds.MaxX + 1, Y: 0}
	default:
		return Tile{}, fmt.Errorf("expand: unknown direction %q", direction)
	}

	b.nextDecor++
	tile := Tile{
		ID:    fmt.Sprintf("decor-%d", b.nextDecor),
		Coord: coord,
		Kind:  b.faces.DecorativeKind(),
	}
	b.decorative = append(b.decorative, tile)
	b.recomputeBounds()
	return tile, nil
}
