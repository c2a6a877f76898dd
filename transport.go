package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const transportWriteWait = 10 * time.Second

// TransportEventKind discriminates the transport's notifications to the
// synchronizer: lifecycle edges plus raw inbound frames.
type TransportEventKind int

const (
	TransportConnected TransportEventKind = iota
	TransportDisconnected
	TransportFrame
)

type TransportEvent struct {
	Kind  TransportEventKind
	Frame []byte
	Err   error
}

// Transport is the connection handle injected into the synchronizer. Tests
// substitute an in-memory implementation; production uses the websocket one.
// Events delivers frames in the order the server emitted them for the room —
// a single TCP-backed websocket preserves that on its own.
type Transport interface {
	Connect(ctx context.Context) error
	Send(cmd any) error
	Events() <-chan TransportEvent
	Close() error
}

// wsTransport speaks JSON text frames over a gorilla/websocket connection.
type wsTransport struct {
	url    string
	events chan TransportEvent

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func newWSTransport(url string) *wsTransport {
	return &wsTransport{url: url, events: make(chan TransportEvent, 64)}
}

func (t *wsTransport) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.url, err)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		conn.Close()
		return fmt.Errorf("transport already closed")
	}
	t.conn = conn
	t.mu.Unlock()

	t.events <- TransportEvent{Kind: TransportConnected}
	go t.readPump(conn)
	return nil
}

func (t *wsTransport) readPump(conn *websocket.Conn) {
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			t.mu.Lock()
			closed := t.closed
			if t.conn == conn {
				t.conn = nil
			}
			t.mu.Unlock()
			if !closed {
				t.events <- TransportEvent{Kind: TransportDisconnected, Err: err}
			}
			return
		}
		t.events <- TransportEvent{Kind: TransportFrame, Frame: frame}
	}
}

func (t *wsTransport) Send(cmd any) error {
	data, err := encodeCommand(cmd)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return fmt.Errorf("send: not connected")
	}
	t.conn.SetWriteDeadline(time.Now().Add(transportWriteWait))
	if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

func (t *wsTransport) Events() <-chan TransportEvent {
	return t.events
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.conn != nil {
		t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(transportWriteWait))
		err := t.conn.Close()
		t.conn = nil
		return err
	}
	return nil
}
