package main

import (
	"encoding/json"
	"testing"
)

func TestDecodeEnvelopeRequiresType(t *testing.T) {
	if _, err := decodeEnvelope([]byte(`{"roomId":"room-1"}`)); err == nil {
		t.Fatalf("expected error for frame without type")
	}
	if _, err := decodeEnvelope([]byte(`{"type":42}`)); err == nil {
		t.Fatalf("expected error for non-string type")
	}
	if _, err := decodeEnvelope([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for malformed frame")
	}

	envelope, err := decodeEnvelope([]byte(`{"type":"room-joined","roomId":"room-1"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Type != EventRoomJoined {
		t.Fatalf("expected type %q, got %q", EventRoomJoined, envelope.Type)
	}
	if _, present := envelope.Data["type"]; present {
		t.Fatalf("discriminator must not leak into payload data")
	}
	if envelope.Data["roomId"] != "room-1" {
		t.Fatalf("payload fields missing: %v", envelope.Data)
	}
}

func TestDecodePayloadCoercesStringNumbers(t *testing.T) {
	var player WirePlayer
	err := decodePayload(map[string]any{
		"id":       "A",
		"name":     "Player 1",
		"color":    "cyan",
		"position": "12",
		"score":    "340",
	}, &player)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if player.Position != 12 || player.Score != 340 {
		t.Fatalf("string numerics not coerced: %+v", player)
	}

	var pong pongResponseEvent
	if err := decodePayload(map[string]any{"serverTime": "1700000000000"}, &pong); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pong.ServerTime != 1700000000000 {
		t.Fatalf("expected int64 coercion, got %d", pong.ServerTime)
	}
}

func TestDecodePayloadRejectsGarbageNumbers(t *testing.T) {
	var player WirePlayer
	if err := decodePayload(map[string]any{"position": "twelve"}, &player); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
}

func TestTrackFromWireFallbacks(t *testing.T) {
	track := trackFromWire([]WireTile{
		{ID: "", X: 0, Y: 0, Type: "start"},
		{ID: "t-1", X: 1, Y: 0, Type: "lava"},
		{ID: "t-2", X: 2, Y: 0, Type: ""},
	})
	if track[0].ID != "tile-0" {
		t.Fatalf("expected synthesized id, got %q", track[0].ID)
	}
	if track[0].Kind != TileStart {
		t.Fatalf("expected start kind preserved, got %q", track[0].Kind)
	}
	if track[1].Kind != TileNormal || track[2].Kind != TileNormal {
		t.Fatalf("unknown kinds must fall back to normal: %q %q", track[1].Kind, track[2].Kind)
	}
}

func TestEncodeCommandCarriesDiscriminator(t *testing.T) {
	raw, err := encodeCommand(rollDiceCommand{Type: CommandRollDice, RoomID: "room-1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != CommandRollDice || decoded["roomId"] != "room-1" {
		t.Fatalf("unexpected wire shape: %v", decoded)
	}
}
