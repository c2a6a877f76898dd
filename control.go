package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"shift/client/rules"
)

// controlServer is the UI boundary: a localhost HTTP surface that hands out
// render-ready state and accepts user intents as plain requests. It carries
// no game logic; every intent is forwarded to the synchronizer or registry.
type controlServer struct {
	sync      *Synchronizer
	registry  *rules.Registry
	telemetry *telemetryCounters
}

func newControlServer(sync *Synchronizer, registry *rules.Registry, telemetry *telemetryCounters) *controlServer {
	return &controlServer{sync: sync, registry: registry, telemetry: telemetry}
}

func (c *controlServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", c.handleState)
	mux.HandleFunc("GET /diagnostics", c.handleDiagnostics)
	mux.HandleFunc("GET /notices", c.handleNotices)
	mux.HandleFunc("POST /join", c.handleJoin)
	mux.HandleFunc("POST /roll", c.handleRoll)
	mux.HandleFunc("POST /shout", c.handleShout)
	mux.HandleFunc("POST /reset", c.handleReset)
	mux.HandleFunc("POST /ping", c.handlePing)
	mux.HandleFunc("POST /camera/center", c.handleCameraCenter)
	mux.HandleFunc("POST /camera/drag", c.handleCameraDrag)
	mux.HandleFunc("POST /camera/zoom", c.handleCameraZoom)
	mux.HandleFunc("POST /camera/viewport", c.handleCameraViewport)
	mux.HandleFunc("POST /board/expand", c.handleBoardExpand)
	mux.HandleFunc("GET /rules", c.handleRulesList)
	mux.HandleFunc("POST /rules", c.handleRulesAppend)
	mux.HandleFunc("PUT /rules/{id}", c.handleRulesReplace)
	mux.HandleFunc("DELETE /rules/{id}", c.handleRulesRemove)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotConnected), errors.Is(err, ErrNotJoined),
		errors.Is(err, ErrAlreadyJoined), errors.Is(err, ErrRollInFlight),
		errors.Is(err, ErrGameFinished), errors.Is(err, ErrNotYourTurn):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func (c *controlServer) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, c.sync.Snapshot())
}

func (c *controlServer) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	snapshot := c.sync.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"connection": snapshot.Connection,
		"roomPhase":  snapshot.RoomPhase,
		"roomId":     snapshot.RoomID,
		"telemetry":  c.telemetry.Snapshot(),
	})
}

func (c *controlServer) handleNotices(w http.ResponseWriter, _ *http.Request) {
	notices := c.sync.DrainNotices()
	if notices == nil {
		notices = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notices": notices})
}

func (c *controlServer) handleJoin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RoomCode string `json:"roomCode"`
	}
	if err := decodeBody(r, &body); err != nil || body.RoomCode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "roomCode is required"})
		return
	}
	if err := c.sync.JoinRoom(body.RoomCode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "joining"})
}

func (c *controlServer) handleRoll(w http.ResponseWriter, _ *http.Request) {
	if err := c.sync.RequestRoll(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "rolling"})
}

func (c *controlServer) handleShout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := decodeBody(r, &body); err != nil || body.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	if err := c.sync.SendShout(body.Message); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (c *controlServer) handleReset(w http.ResponseWriter, _ *http.Request) {
	if err := c.sync.RequestReset(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "requested"})
}

func (c *controlServer) handlePing(w http.ResponseWriter, _ *http.Request) {
	if err := c.sync.Ping(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "pinged"})
}

func (c *controlServer) handleCameraCenter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tile *TileCoord `json:"tile"`
	}
	// An empty or absent body means "center on the current player".
	_ = decodeBody(r, &body)
	if body.Tile != nil {
		c.sync.CameraCenterOnTile(*body.Tile)
		writeJSON(w, http.StatusOK, map[string]string{"status": "centered"})
		return
	}
	if !c.sync.CenterOnCurrentPlayer() {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no player to center on"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "centered"})
}

func (c *controlServer) handleCameraDrag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Phase string  `json:"phase"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid drag payload"})
		return
	}
	pointer := Vec2{X: body.X, Y: body.Y}
	switch body.Phase {
	case "start":
		c.sync.CameraDragStart(pointer)
	case "move":
		c.sync.CameraDragMove(pointer)
	case "end", "leave":
		c.sync.CameraDragEnd()
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phase must be start, move, end, or leave"})
		return
	}
	writeJSON(w, http.StatusOK, c.sync.Snapshot().Camera)
}

func (c *controlServer) handleCameraZoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Factor float64 `json:"factor"`
	}
	if err := decodeBody(r, &body); err != nil || body.Factor <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "factor must be positive"})
		return
	}
	zoom := c.sync.CameraZoomBy(body.Factor)
	writeJSON(w, http.StatusOK, map[string]float64{"zoom": zoom})
}

func (c *controlServer) handleCameraViewport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := decodeBody(r, &body); err != nil || body.Width <= 0 || body.Height <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "width and height must be positive"})
		return
	}
	c.sync.CameraSetViewport(Vec2{X: body.Width, Y: body.Height})
	writeJSON(w, http.StatusOK, map[string]string{"status": "resized"})
}

func (c *controlServer) handleBoardExpand(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction string `json:"direction"`
	}
	if err := decodeBody(r, &body); err != nil || body.Direction == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "direction is required"})
		return
	}
	tile, err := c.sync.ExpandBoard(ExpandDirection(body.Direction))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, tile)
}

type describedRule struct {
	rules.Rule
	Description string `json:"description"`
}

func (c *controlServer) handleRulesList(w http.ResponseWriter, _ *http.Request) {
	list := c.registry.List()
	described := make([]describedRule, 0, len(list))
	for _, rule := range list {
		described = append(described, describedRule{Rule: rule, Description: rules.Describe(rule)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": described})
}

func (c *controlServer) handleRulesAppend(w http.ResponseWriter, r *http.Request) {
	var rule rules.Rule
	if err := decodeBody(r, &rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rule payload"})
		return
	}
	if rule.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if rule.ID == "" {
		rule = rules.New(rule.Title, rule.Trigger, rule.Conditions, rule.Effects)
	}
	if err := c.registry.Append(rule); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, describedRule{Rule: rule, Description: rules.Describe(rule)})
}

func (c *controlServer) handleRulesReplace(w http.ResponseWriter, r *http.Request) {
	var rule rules.Rule
	if err := decodeBody(r, &rule); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid rule payload"})
		return
	}
	rule.ID = r.PathValue("id")
	if err := c.registry.Replace(rule); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, describedRule{Rule: rule, Description: rules.Describe(rule)})
}

func (c *controlServer) handleRulesRemove(w http.ResponseWriter, r *http.Request) {
	if !c.registry.Remove(r.PathValue("id")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "rule not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
