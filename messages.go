package main

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Wire protocol for the game server channel. Every frame is a JSON object
// carrying a "type" discriminator next to its payload fields. Player ids are
// opaque server-assigned strings; the client never parses or orders them.

// Inbound event types.
const (
	EventRoomJoined       = "room-joined"
	EventGameStateSync    = "game-state-sync"
	EventDiceResult       = "dice-result"
	EventGameOver         = "game-over"
	EventGameReset        = "game-reset"
	EventError            = "error"
	EventPlayerJoinedRoom = "player-joined-room"
	EventPongResponse     = "pong-response"
	EventIncomingShout    = "incoming-shout"
)

// Outbound command types.
const (
	CommandJoinRoom  = "join-room"
	CommandRollDice  = "roll-dice"
	CommandPingTest  = "ping-test"
	CommandSendShout = "send-shout"
	CommandResetGame = "reset-game"
)

// Envelope is a decoded inbound frame: the discriminator plus the raw payload
// fields, decoded further by event-specific structs on demand.
type Envelope struct {
	Type string
	Data map[string]any
}

func decodeEnvelope(raw []byte) (Envelope, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Envelope{}, fmt.Errorf("decode frame: %w", err)
	}
	kind, _ := data["type"].(string)
	if kind == "" {
		return Envelope{}, fmt.Errorf("decode frame: missing type discriminator")
	}
	delete(data, "type")
	return Envelope{Type: kind, Data: data}, nil
}

// decodePayload maps an envelope's loose fields onto a typed event struct.
// Numeric fields arriving as strings are coerced; servers in the wild are not
// consistent about quoting scores and positions.
func decodePayload(data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToNumberHook(),
		Result:     out,
		TagName:    "json",
	})
	if err != nil {
		return fmt.Errorf("build payload decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func stringToNumberHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data any) (any, error) {
		if from != reflect.String {
			return data, nil
		}
		switch to {
		case reflect.Int:
			return strconv.Atoi(data.(string))
		case reflect.Int64:
			return strconv.ParseInt(data.(string), 10, 64)
		case reflect.Float64:
			return strconv.ParseFloat(data.(string), 64)
		}
		return data, nil
	}
}

// WirePlayer mirrors the server's player record. Position is the linear track
// index; the 2D coordinate is derived client-side.
type WirePlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
	Score    int    `json:"score"`
}

// WireTile is a track tile in server order; slice position is the linear index.
type WireTile struct {
	ID   string `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
}

type roomJoinedEvent struct {
	RoomID string `json:"roomId"`
}

type gameStateSyncEvent struct {
	RoomID      string       `json:"roomId"`
	Tiles       []WireTile   `json:"tiles"`
	Players     []WirePlayer `json:"players"`
	CurrentTurn string       `json:"currentTurn"`
	Status      string       `json:"status"`
}

type diceResultEvent struct {
	DiceValue   int          `json:"diceValue"`
	Players     []WirePlayer `json:"players"`
	CurrentTurn string       `json:"currentTurn"`
}

type gameOverEvent struct {
	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`
}

type gameResetEvent struct {
	Message string `json:"message"`
}

type errorEvent struct {
	Message string `json:"message"`
}

type playerJoinedRoomEvent struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type pongResponseEvent struct {
	Message    string `json:"message"`
	ServerTime int64  `json:"serverTime"`
}

type incomingShoutEvent struct {
	SenderID string `json:"senderId"`
	Message  string `json:"message"`
}

type joinRoomCommand struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

type rollDiceCommand struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

type pingTestCommand struct {
	Type string `json:"type"`
}

type sendShoutCommand struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type resetGameCommand struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

func encodeCommand(cmd any) ([]byte, error) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode command: %w", err)
	}
	return data, nil
}

// trackFromWire converts the server's ordered tile list into board tiles.
func trackFromWire(tiles []WireTile) []Tile {
	track := make([]Tile, 0, len(tiles))
	for i, wt := range tiles {
		id := wt.ID
		if id == "" {
			id = fmt.Sprintf("tile-%d", i)
		}
		kind := TileKind(wt.Type)
		switch kind {
		case TileNormal, TileSpecial, TileStart, TileEnd:
		default:
			kind = TileNormal
		}
		track = append(track, Tile{ID: id, Coord: TileCoord{X: wt.X, Y: wt.Y}, Kind: kind})
	}
	return track
}
