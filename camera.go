package main

const (
	zoomMin = 0.3
	zoomMax = 2.0
)

// Camera owns the viewport's pan/zoom state. It never touches tiles directly;
// callers hand it tile coordinates and the current bounds and it produces pan
// offsets. Zoom anchors at the viewport origin, so keeping a point of
// interest in view after zooming is the caller's (or the user's) job.
type Camera struct {
	pan        Vec2
	zoom       float64
	dragging   bool
	dragAnchor Vec2
	viewport   Vec2
	centered   bool
}

func newCamera(viewport Vec2) *Camera {
	return &Camera{zoom: 1, viewport: viewport}
}

func (c *Camera) Pan() Vec2         { return c.pan }
func (c *Camera) Zoom() float64     { return c.zoom }
func (c *Camera) Dragging() bool    { return c.dragging }
func (c *Camera) Viewport() Vec2    { return c.viewport }
func (c *Camera) Initialized() bool { return c.centered }

// SetViewport records a viewport resize. It does not re-center; the next
// CenterOnTile call picks up the new geometry.
func (c *Camera) SetViewport(size Vec2) {
	c.viewport = size
}

// CenterOnTile aligns the tile's center with the viewport's center at the
// current zoom. Repeated calls with the same inputs yield the same pan.
func (c *Camera) CenterOnTile(coord TileCoord, bounds Bounds) {
	world := tileToWorld(coord, bounds)
	c.pan = Vec2{
		X: c.viewport.X/2 - (world.X+tileSize/2)*c.zoom,
		Y: c.viewport.Y/2 - (world.Y+tileSize/2)*c.zoom,
	}
}

// EnsureInitialCenter centers the viewport on the board's midpoint tile the
// first time tiles are available, and only that once. The initial framing
// ignores zoom and the half-tile term, matching the opening shot users see
// before any interaction.
func (c *Camera) EnsureInitialCenter(board *Board) bool {
	if c.centered || board.TrackLen() == 0 {
		return false
	}
	world := tileToWorld(board.MidpointCoord(), board.Bounds())
	c.pan = Vec2{X: c.viewport.X/2 - world.X, Y: c.viewport.Y/2 - world.Y}
	c.centered = true
	return true
}

// DragStart begins a pan drag from the given pointer position.
func (c *Camera) DragStart(pointer Vec2) {
	c.dragging = true
	c.dragAnchor = Vec2{X: pointer.X - c.pan.X, Y: pointer.Y - c.pan.Y}
}

// DragMove updates the pan while a drag is active. Pointer positions arriving
// with no drag in progress are ignored.
func (c *Camera) DragMove(pointer Vec2) {
	if !c.dragging {
		return
	}
	c.pan = Vec2{X: pointer.X - c.dragAnchor.X, Y: pointer.Y - c.dragAnchor.Y}
}

// DragEnd unconditionally ends any drag. Button release and the pointer
// leaving the viewport both route here, so a drag can never get stuck.
func (c *Camera) DragEnd() {
	c.dragging = false
}

// ZoomBy applies a multiplicative zoom step, clamped to [zoomMin, zoomMax].
func (c *Camera) ZoomBy(factor float64) float64 {
	if factor <= 0 {
		return c.zoom
	}
	c.zoom *= factor
	if c.zoom < zoomMin {
		c.zoom = zoomMin
	}
	if c.zoom > zoomMax {
		c.zoom = zoomMax
	}
	return c.zoom
}

// Reset clears pan/zoom/drag state and re-arms the initial centering.
func (c *Camera) Reset() {
	c.pan = Vec2{}
	c.zoom = 1
	c.dragging = false
	c.dragAnchor = Vec2{}
	c.centered = false
}

// CameraSnapshot is the render-ready view of the camera.
type CameraSnapshot struct {
	Pan      Vec2    `json:"pan"`
	Zoom     float64 `json:"zoom"`
	Dragging bool    `json:"dragging"`
	Viewport Vec2    `json:"viewport"`
}

func (c *Camera) Snapshot() CameraSnapshot {
	return CameraSnapshot{Pan: c.pan, Zoom: c.zoom, Dragging: c.dragging, Viewport: c.viewport}
}
