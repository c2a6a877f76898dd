package main

// Render-ready projections of client state. The UI boundary receives these as
// plain data: tiles and players carry world-space pixel positions already run
// through the coordinate mapper, so a renderer only applies the camera
// transform.

type RenderTile struct {
	ID    string    `json:"id"`
	Coord TileCoord `json:"coord"`
	Kind  TileKind  `json:"kind"`
	World Vec2      `json:"world"`
}

type RenderPlayer struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Score  int       `json:"score"`
	Index  int       `json:"index"`
	Coord  TileCoord `json:"coord"`
	World  Vec2      `json:"world"`
	Active bool      `json:"active"`
}

type RenderState struct {
	Connection ConnState      `json:"connection"`
	RoomPhase  RoomPhase      `json:"roomPhase"`
	RoomID     string         `json:"roomId,omitempty"`
	SelfID     string         `json:"selfId,omitempty"`
	Status     GameStatus     `json:"status"`
	TurnOwner  string         `json:"turnOwner,omitempty"`
	Rolling    bool           `json:"rolling"`
	DiceFace   int            `json:"diceFace,omitempty"`
	Winner     *Winner        `json:"winner,omitempty"`
	Tiles      []RenderTile   `json:"tiles"`
	Players    []RenderPlayer `json:"players"`
	WorldSize  Vec2           `json:"worldSize"`
	Camera     CameraSnapshot `json:"camera"`
	Shouts     []Shout        `json:"shouts,omitempty"`
}

// Snapshot assembles the full render state under one lock acquisition.
// TurnOwner and DiceFace are the displayed values, which trail the
// authoritative ones while a spin is in flight.
func (s *Synchronizer) Snapshot() RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	bounds := s.board.Bounds()
	tiles := s.board.Tiles()
	renderTiles := make([]RenderTile, 0, len(tiles))
	for _, tile := range tiles {
		renderTiles = append(renderTiles, RenderTile{
			ID:    tile.ID,
			Coord: tile.Coord,
			Kind:  tile.Kind,
			World: tileToWorld(tile.Coord, bounds),
		})
	}

	renderPlayers := make([]RenderPlayer, 0, len(s.players))
	for _, player := range s.players {
		renderPlayers = append(renderPlayers, RenderPlayer{
			ID:     player.ID,
			Name:   player.Name,
			Color:  player.Color,
			Score:  player.Score,
			Index:  player.Index,
			Coord:  player.Coord,
			World:  tileToWorld(player.Coord, bounds),
			Active: player.ID == s.displayedOwner,
		})
	}

	return RenderState{
		Connection: s.conn,
		RoomPhase:  s.roomPhase,
		RoomID:     s.roomID,
		SelfID:     s.selfID,
		Status:     s.status,
		TurnOwner:  s.displayedOwner,
		Rolling:    s.rolling,
		DiceFace:   s.displayedFace,
		Winner:     s.winner,
		Tiles:      renderTiles,
		Players:    renderPlayers,
		WorldSize:  bounds.WorldSize(),
		Camera:     s.camera.Snapshot(),
		Shouts:     append([]Shout(nil), s.shouts...),
	}
}

// Camera intents from the UI boundary. All camera access is funneled through
// the synchronizer's lock so the render snapshot never sees a half-applied
// gesture.

func (s *Synchronizer) CameraCenterOnTile(coord TileCoord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.CenterOnTile(coord, s.board.Bounds())
}

func (s *Synchronizer) CameraDragStart(pointer Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.DragStart(pointer)
}

func (s *Synchronizer) CameraDragMove(pointer Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.DragMove(pointer)
}

func (s *Synchronizer) CameraDragEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.DragEnd()
}

func (s *Synchronizer) CameraZoomBy(factor float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera.ZoomBy(factor)
}

func (s *Synchronizer) CameraSetViewport(size Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.SetViewport(size)
}
