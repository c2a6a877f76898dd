package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shift/client/logging"
)

// Dice spin: a fixed number of locally random faces shown before the
// server-confirmed value settles. The authoritative payload is applied only
// at settle, never mid-spin.
const spinTicks = 10

const defaultSpinInterval = 80 * time.Millisecond

const maxShouts = 32

// ConnState is the transport-level connection state.
type ConnState string

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StateConnected    ConnState = "connected"
)

// RoomPhase is the room membership lifecycle within a connected session.
type RoomPhase string

const (
	RoomUnjoined RoomPhase = "unjoined"
	RoomJoining  RoomPhase = "joining"
	RoomJoined   RoomPhase = "joined"
)

// GameStatus mirrors the server's status field verbatim.
type GameStatus string

const (
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
)

// Local precondition violations. These are refused before any network call
// and surfaced like server protocol errors for a consistent user experience.
var (
	ErrNotConnected  = errors.New("not connected to server")
	ErrNotJoined     = errors.New("not in a room")
	ErrAlreadyJoined = errors.New("already in a room")
	ErrRollInFlight  = errors.New("a roll is already in flight")
	ErrGameFinished  = errors.New("game is finished")
	ErrNotYourTurn   = errors.New("not your turn")
)

// Player is the client-side player record, rebuilt wholesale on every sync.
// Index is the server's linear position; Coord is derived through the board.
type Player struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Score int       `json:"score"`
	Index int       `json:"index"`
	Coord TileCoord `json:"coord"`
}

type Shout struct {
	SenderID string    `json:"senderId"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

type Winner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Synchronizer owns the client's view of the session: connection status,
// room membership, players, turn ownership, and the dice spin. The server is
// the sole source of truth; everything here is a mirror plus one optimistic
// animation whose single merge point is spin settle.
type Synchronizer struct {
	mu        sync.Mutex
	transport Transport
	board     *Board
	camera    *Camera
	faces     *faceSource
	log       logging.Publisher
	telemetry *telemetryCounters

	conn      ConnState
	roomPhase RoomPhase
	roomID    string
	selfID    string

	status    GameStatus
	players   []Player
	turnOwner string // authoritative, server-confirmed

	// Displayed state may diverge from the authoritative fields while a spin
	// runs; it converges at settle.
	displayedOwner string
	displayedFace  int
	rolling        bool
	pending        *diceResultEvent
	spinGen        uint64

	winner  *Winner
	notices []string
	shouts  []Shout

	pingSentAt   time.Time
	spinInterval time.Duration

	done chan struct{}
}

func newSynchronizer(transport Transport, board *Board, camera *Camera, faces *faceSource, log logging.Publisher, telemetry *telemetryCounters) *Synchronizer {
	if log == nil {
		log = logging.NopPublisher()
	}
	if telemetry == nil {
		telemetry = newTelemetryCounters()
	}
	return &Synchronizer{
		transport:    transport,
		board:        board,
		camera:       camera,
		faces:        faces,
		log:          log,
		telemetry:    telemetry,
		conn:         StateDisconnected,
		roomPhase:    RoomUnjoined,
		status:       StatusPlaying,
		spinInterval: defaultSpinInterval,
		done:         make(chan struct{}),
	}
}

// Connect dials the transport and starts consuming its events. The state
// flips to connected only when the transport confirms.
func (s *Synchronizer) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.conn != StateDisconnected {
		s.mu.Unlock()
		return fmt.Errorf("connect: already %s", s.conn)
	}
	s.conn = StateConnecting
	s.mu.Unlock()

	if err := s.transport.Connect(ctx); err != nil {
		s.mu.Lock()
		s.conn = StateDisconnected
		s.mu.Unlock()
		return err
	}
	return nil
}

// Run consumes transport events until the context ends or the transport
// closes its channel. Events are dispatched one at a time; the only other
// activity touching state is the spin ticker, which takes the same lock.
func (s *Synchronizer) Run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.transport.Events():
			if !ok {
				return
			}
			s.deliver(event)
		}
	}
}

// Done reports run-loop termination, for orderly shutdown in main.
func (s *Synchronizer) Done() <-chan struct{} { return s.done }

func (s *Synchronizer) deliver(event TransportEvent) {
	switch event.Kind {
	case TransportConnected:
		s.handleConnected()
	case TransportDisconnected:
		s.handleDisconnected(event.Err)
	case TransportFrame:
		s.handleFrame(event.Frame)
	}
}

func (s *Synchronizer) handleConnected() {
	s.mu.Lock()
	s.conn = StateConnected
	s.roomPhase = RoomUnjoined
	s.mu.Unlock()
	s.log.Publish(context.Background(), logging.Event{
		Type: logging.EventConnect, Severity: logging.SeverityInfo,
	})
}

// handleDisconnected resets to the safe baseline: no room, no players, no
// turn, no spin. Stale state must never render as current.
func (s *Synchronizer) handleDisconnected(cause error) {
	s.mu.Lock()
	s.conn = StateDisconnected
	room := s.roomID
	s.clearSessionLocked()
	s.mu.Unlock()

	s.telemetry.RecordDisconnect()
	fields := map[string]any{}
	if cause != nil {
		fields["cause"] = cause.Error()
	}
	s.log.Publish(context.Background(), logging.Event{
		Type: logging.EventDisconnect, Severity: logging.SeverityWarn,
		Room: room, Fields: fields,
	})
}

// clearSessionLocked drops all room-scoped state and invalidates any
// in-flight spin so its remaining ticks are no-ops.
func (s *Synchronizer) clearSessionLocked() {
	s.cancelSpinLocked()
	s.roomPhase = RoomUnjoined
	s.roomID = ""
	s.players = nil
	s.turnOwner = ""
	s.displayedOwner = ""
	s.displayedFace = 0
	s.status = StatusPlaying
	s.winner = nil
	s.shouts = nil
	s.board.ReplaceTrack(nil)
}

func (s *Synchronizer) cancelSpinLocked() {
	if s.rolling {
		s.telemetry.RecordSpin(false)
	}
	s.spinGen++
	s.rolling = false
	s.pending = nil
}

func (s *Synchronizer) handleFrame(frame []byte) {
	s.telemetry.RecordFrame(len(frame))
	envelope, err := decodeEnvelope(frame)
	if err != nil {
		s.telemetry.RecordRejectedFrame()
		return
	}

	switch envelope.Type {
	case EventRoomJoined:
		var payload roomJoinedEvent
		if s.decode(envelope, &payload) {
			s.handleRoomJoined(payload)
		}
	case EventGameStateSync:
		var payload gameStateSyncEvent
		if s.decode(envelope, &payload) {
			s.handleStateSync(payload)
		}
	case EventDiceResult:
		var payload diceResultEvent
		if s.decode(envelope, &payload) {
			s.handleDiceResult(payload)
		}
	case EventGameOver:
		var payload gameOverEvent
		if s.decode(envelope, &payload) {
			s.handleGameOver(payload)
		}
	case EventGameReset:
		var payload gameResetEvent
		if s.decode(envelope, &payload) {
			s.handleGameReset(payload)
		}
	case EventError:
		var payload errorEvent
		if s.decode(envelope, &payload) {
			s.handleServerError(payload)
		}
	case EventPlayerJoinedRoom:
		var payload playerJoinedRoomEvent
		if s.decode(envelope, &payload) {
			s.handlePlayerJoined(payload)
		}
	case EventPongResponse:
		var payload pongResponseEvent
		if s.decode(envelope, &payload) {
			s.handlePong(payload)
		}
	case EventIncomingShout:
		var payload incomingShoutEvent
		if s.decode(envelope, &payload) {
			s.handleShout(payload)
		}
	default:
		s.telemetry.RecordRejectedFrame()
	}
}

func (s *Synchronizer) decode(envelope Envelope, out any) bool {
	if err := decodePayload(envelope.Data, out); err != nil {
		s.telemetry.RecordRejectedFrame()
		s.log.Publish(context.Background(), logging.Event{
			Type: logging.EventServerError, Severity: logging.SeverityWarn,
			Message: err.Error(), Fields: map[string]any{"event": envelope.Type},
		})
		return false
	}
	return true
}

func (s *Synchronizer) handleRoomJoined(payload roomJoinedEvent) {
	s.mu.Lock()
	s.roomPhase = RoomJoined
	s.roomID = payload.RoomID
	// A (re)join starts a fresh game; stale finished/winner state must not
	// leak into the new session.
	s.status = StatusPlaying
	s.winner = nil
	s.mu.Unlock()

	s.log.Publish(context.Background(), logging.Event{
		Type: logging.EventRoomJoined, Severity: logging.SeverityInfo, Room: payload.RoomID,
	})
}

// handleStateSync replaces the entire room view from the server payload.
// Player coordinates are re-derived from linear positions, the turn owner and
// status are taken verbatim, and any in-flight spin is superseded.
func (s *Synchronizer) handleStateSync(payload gameStateSyncEvent) {
	s.mu.Lock()
	s.cancelSpinLocked()
	s.displayedFace = 0
	if payload.RoomID != "" {
		s.roomID = payload.RoomID
	}
	if len(payload.Tiles) > 0 {
		s.board.ReplaceTrack(trackFromWire(payload.Tiles))
	}
	s.players = s.playersFromWireLocked(payload.Players)
	s.turnOwner = payload.CurrentTurn
	s.displayedOwner = payload.CurrentTurn
	s.status = GameStatus(payload.Status)
	if s.status == StatusFinished {
		s.winner = s.deriveWinnerLocked()
	}
	s.camera.EnsureInitialCenter(s.board)
	room := s.roomID
	count := len(s.players)
	s.mu.Unlock()

	s.log.Publish(context.Background(), logging.Event{
		Type: logging.EventStateSync, Severity: logging.SeverityInfo, Room: room,
		Fields: map[string]any{"players": count, "status": payload.Status},
	})
}

func (s *Synchronizer) playersFromWireLocked(wire []WirePlayer) []Player {
	players := make([]Player, 0, len(wire))
	for _, wp := range wire {
		players = append(players, Player{
			ID:    wp.ID,
			Name:  wp.Name,
			Color: wp.Color,
			Score: wp.Score,
			Index: wp.Position,
			Coord: s.board.CoordAt(wp.Position),
		})
	}
	return players
}

// deriveWinnerLocked synthesizes a winner when a sync reports a finished game
// without an explicit game-over event, e.g. reconnecting after the fact. The
// player on the terminal tile won.
func (s *Synchronizer) deriveWinnerLocked() *Winner {
	terminal := s.board.TrackLen() - 1
	if terminal < 0 {
		return s.winner
	}
	for _, player := range s.players {
		if player.Index == terminal {
			return &Winner{ID: player.ID, Name: player.Name}
		}
	}
	return s.winner
}

// handleDiceResult starts the spin. The payload is parked until the last tick
// so scores, positions, and the turn owner never jump mid-animation.
func (s *Synchronizer) handleDiceResult(payload diceResultEvent) {
	s.mu.Lock()
	if s.rolling && s.pending != nil {
		// A second result while spinning supersedes the first; restart so the
		// display converges on the latest payload.
		s.cancelSpinLocked()
	}
	s.rolling = true
	s.pending = &payload
	gen := s.spinGen
	interval := s.spinInterval
	s.mu.Unlock()

	go s.runSpin(gen, interval)
}

// runSpin shows spinTicks random faces, then applies the authoritative
// payload. If the generation moved on (disconnect, reset, newer result), the
// remaining ticks and the settle are no-ops.
func (s *Synchronizer) runSpin(gen uint64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < spinTicks; i++ {
		<-ticker.C
		s.mu.Lock()
		if s.spinGen != gen {
			s.mu.Unlock()
			return
		}
		s.displayedFace = s.faces.SpinFace()
		s.mu.Unlock()
	}

	s.mu.Lock()
	if s.spinGen != gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	payload := *s.pending
	s.pending = nil
	s.rolling = false
	s.displayedFace = payload.DiceValue
	if len(payload.Players) > 0 {
		s.players = s.playersFromWireLocked(payload.Players)
	}
	if payload.CurrentTurn != "" {
		s.turnOwner = payload.CurrentTurn
	}
	s.displayedOwner = s.turnOwner
	room := s.roomID
	s.mu.Unlock()

	s.telemetry.RecordSpin(true)
	s.log.Publish(context.Background(), logging.Event{
		Type: logging.EventDiceSettled, Severity: logging.SeverityInfo, Room: room,
		Fields: map[string]any{"face": payload.DiceValue, "turnOwner": payload.CurrentTurn},
	})
}

func (s *Synchronizer) handleGameOver(payload gameOverEvent) {
	s.mu.Lock()
	s.status = StatusFinished
	s.winner = &Winner{ID: payload.WinnerID, Name: payload.WinnerName}
	room := s.roomID
	s.mu.Unlock()

	s.log.Publish(context.Background(), logging.Event{
		Type: logging.EventGameOver, Severity: logging.SeverityInfo, Room: room,
		Fields: map[string]any{"winner": payload.WinnerID},
	})
}

// handleGameReset discards all local state unconditionally. Partial rollback
// after an authoritative reset risks divergence; starting clean does not.
func (s *Synchronizer) handleGameReset(payload gameResetEvent) {
	s.Reinitialize()
	if payload.Message != "" {
		s.mu.Lock()
		s.notices = append(s.notices, payload.Message)
		s.mu.Unlock()
	}
	s.log.Publish(context.Background(), logging.Event{
		Type: logging.EventGameReset, Severity: logging.SeverityInfo, Message: payload.Message,
	})
}

// handleServerError surfaces protocol errors as transient notices. The client
// never optimistically committed the rejected action, so there is nothing to
// roll back.
func (s *Synchronizer) handleServerError(payload errorEvent) {
	s.mu.Lock()
	s.notices = append(s.notices, payload.Message)
	s.mu.Unlock()

	s.log.Publish(context.Background(), logging.Event{
		Type: logging.EventServerError, Severity: logging.SeverityWarn, Message: payload.Message,
	})
}

// handlePlayerJoined adopts the server-assigned identity on the first
// acknowledgement after our own join request; later arrivals are other
// players entering the room and surface as notices.
func (s *Synchronizer) handlePlayerJoined(payload playerJoinedRoomEvent) {
	s.mu.Lock()
	if s.selfID == "" && s.roomPhase != RoomUnjoined {
		s.selfID = payload.ID
	} else if payload.Message != "" {
		s.notices = append(s.notices, payload.Message)
	}
	s.mu.Unlock()
}

func (s *Synchronizer) handlePong(payload pongResponseEvent) {
	s.mu.Lock()
	sent := s.pingSentAt
	s.mu.Unlock()
	rtt := time.Duration(0)
	if !sent.IsZero() {
		rtt = time.Since(sent)
	}
	s.telemetry.RecordPong(payload.ServerTime, rtt)
}

func (s *Synchronizer) handleShout(payload incomingShoutEvent) {
	s.mu.Lock()
	s.shouts = append(s.shouts, Shout{SenderID: payload.SenderID, Message: payload.Message, At: time.Now()})
	if len(s.shouts) > maxShouts {
		s.shouts = s.shouts[len(s.shouts)-maxShouts:]
	}
	s.mu.Unlock()
	s.telemetry.RecordShout()
}

// JoinRoom requests room membership. There is no optimistic assignment; the
// phase advances to joined only on the server's confirmation.
func (s *Synchronizer) JoinRoom(roomCode string) error {
	s.mu.Lock()
	if s.conn != StateConnected {
		s.mu.Unlock()
		return ErrNotConnected
	}
	if s.roomPhase == RoomJoined {
		s.mu.Unlock()
		return ErrAlreadyJoined
	}
	s.roomPhase = RoomJoining
	s.mu.Unlock()

	if err := s.transport.Send(joinRoomCommand{Type: CommandJoinRoom, RoomCode: roomCode}); err != nil {
		s.mu.Lock()
		if s.roomPhase == RoomJoining {
			s.roomPhase = RoomUnjoined
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// RequestRoll asks the server for a dice roll. Preconditions are checked
// locally and a refusal sends nothing; the check is advisory only — the
// server arbitrates the actual turn.
func (s *Synchronizer) RequestRoll() error {
	s.mu.Lock()
	var precondition error
	switch {
	case s.conn != StateConnected:
		precondition = ErrNotConnected
	case s.roomPhase != RoomJoined:
		precondition = ErrNotJoined
	case s.rolling:
		precondition = ErrRollInFlight
	case s.status == StatusFinished:
		precondition = ErrGameFinished
	case s.turnOwner == "" || s.turnOwner != s.selfID:
		precondition = ErrNotYourTurn
	}
	if precondition != nil {
		room := s.roomID
		s.mu.Unlock()
		s.telemetry.RecordRollRequest(false)
		s.log.Publish(context.Background(), logging.Event{
			Type: logging.EventRollRejected, Severity: logging.SeverityInfo,
			Room: room, Player: s.SelfID(), Message: precondition.Error(),
		})
		return precondition
	}
	s.rolling = true
	room := s.roomID
	s.mu.Unlock()

	if err := s.transport.Send(rollDiceCommand{Type: CommandRollDice, RoomID: room}); err != nil {
		s.mu.Lock()
		s.rolling = false
		s.mu.Unlock()
		s.telemetry.RecordRollRequest(false)
		return err
	}
	s.telemetry.RecordRollRequest(true)
	s.log.Publish(context.Background(), logging.Event{
		Type: logging.EventRollRequest, Severity: logging.SeverityInfo, Room: room, Player: s.SelfID(),
	})
	return nil
}

// SendShout relays a chat line to the room.
func (s *Synchronizer) SendShout(message string) error {
	s.mu.Lock()
	if s.roomPhase != RoomJoined {
		s.mu.Unlock()
		return ErrNotJoined
	}
	room := s.roomID
	s.mu.Unlock()
	return s.transport.Send(sendShoutCommand{Type: CommandSendShout, RoomID: room, Message: message})
}

// Ping sends a latency probe; the pong handler records the round trip.
func (s *Synchronizer) Ping() error {
	s.mu.Lock()
	if s.conn != StateConnected {
		s.mu.Unlock()
		return ErrNotConnected
	}
	s.pingSentAt = time.Now()
	s.mu.Unlock()
	return s.transport.Send(pingTestCommand{Type: CommandPingTest})
}

// RequestReset asks the server to reset the game; local state is only torn
// down when the game-reset event comes back.
func (s *Synchronizer) RequestReset() error {
	s.mu.Lock()
	if s.roomPhase != RoomJoined {
		s.mu.Unlock()
		return ErrNotJoined
	}
	room := s.roomID
	s.mu.Unlock()
	return s.transport.Send(resetGameCommand{Type: CommandResetGame, RoomID: room})
}

// Reinitialize tears down and rebuilds all derived state deterministically,
// keeping the transport connection. The camera re-arms its initial centering.
func (s *Synchronizer) Reinitialize() {
	s.mu.Lock()
	s.clearSessionLocked()
	s.notices = nil
	s.selfID = ""
	s.camera.Reset()
	s.mu.Unlock()
}

// SelfID returns the server-assigned identity, empty before the first
// acknowledgement.
func (s *Synchronizer) SelfID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selfID
}

// CenterOnCurrentPlayer drives the camera to the turn owner's tile, falling
// back to the first player when no turn is active.
func (s *Synchronizer) CenterOnCurrentPlayer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var target *Player
	for i := range s.players {
		if s.players[i].ID == s.displayedOwner {
			target = &s.players[i]
			break
		}
	}
	if target == nil && len(s.players) > 0 {
		target = &s.players[0]
	}
	if target == nil {
		return false
	}
	s.camera.CenterOnTile(target.Coord, s.board.Bounds())
	return true
}

// ExpandBoard appends a decorative tile in the given direction.
func (s *Synchronizer) ExpandBoard(direction ExpandDirection) (Tile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Expand(direction)
}

// DrainNotices returns and clears pending transient notifications.
func (s *Synchronizer) DrainNotices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := s.notices
	s.notices = nil
	return notices
}
