package main

import (
	"sync/atomic"
	"time"
)

// telemetryCounters tracks the client's traffic and state-machine activity.
// Everything is atomic so the control API can snapshot without taking the
// synchronizer lock.
type telemetryCounters struct {
	eventsReceived  atomic.Uint64
	framesRejected  atomic.Uint64
	bytesReceived   atomic.Uint64
	rollsRequested  atomic.Uint64
	rollsRejected   atomic.Uint64
	spinsCompleted  atomic.Uint64
	spinsCancelled  atomic.Uint64
	disconnects     atomic.Uint64
	shoutsReceived  atomic.Uint64
	lastRTTMillis   atomic.Int64
	lastServerTime  atomic.Int64
}

type telemetrySnapshot struct {
	EventsReceived uint64 `json:"eventsReceived"`
	FramesRejected uint64 `json:"framesRejected"`
	BytesReceived  uint64 `json:"bytesReceived"`
	RollsRequested uint64 `json:"rollsRequested"`
	RollsRejected  uint64 `json:"rollsRejected"`
	SpinsCompleted uint64 `json:"spinsCompleted"`
	SpinsCancelled uint64 `json:"spinsCancelled"`
	Disconnects    uint64 `json:"disconnects"`
	ShoutsReceived uint64 `json:"shoutsReceived"`
	LastRTTMillis  int64  `json:"lastRttMillis"`
	LastServerTime int64  `json:"lastServerTime"`
}

func newTelemetryCounters() *telemetryCounters {
	return &telemetryCounters{}
}

func (t *telemetryCounters) RecordFrame(bytes int) {
	if bytes < 0 {
		bytes = 0
	}
	t.eventsReceived.Add(1)
	t.bytesReceived.Add(uint64(bytes))
}

func (t *telemetryCounters) RecordRejectedFrame() {
	t.framesRejected.Add(1)
}

func (t *telemetryCounters) RecordRollRequest(accepted bool) {
	t.rollsRequested.Add(1)
	if !accepted {
		t.rollsRejected.Add(1)
	}
}

func (t *telemetryCounters) RecordSpin(completed bool) {
	if completed {
		t.spinsCompleted.Add(1)
	} else {
		t.spinsCancelled.Add(1)
	}
}

func (t *telemetryCounters) RecordDisconnect() {
	t.disconnects.Add(1)
}

func (t *telemetryCounters) RecordShout() {
	t.shoutsReceived.Add(1)
}

func (t *telemetryCounters) RecordPong(serverTime int64, rtt time.Duration) {
	t.lastServerTime.Store(serverTime)
	millis := rtt.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	t.lastRTTMillis.Store(millis)
}

func (t *telemetryCounters) Snapshot() telemetrySnapshot {
	return telemetrySnapshot{
		EventsReceived: t.eventsReceived.Load(),
		FramesRejected: t.framesRejected.Load(),
		BytesReceived:  t.bytesReceived.Load(),
		RollsRequested: t.rollsRequested.Load(),
		RollsRejected:  t.rollsRejected.Load(),
		SpinsCompleted: t.spinsCompleted.Load(),
		SpinsCancelled: t.spinsCancelled.Load(),
		Disconnects:    t.disconnects.Load(),
		ShoutsReceived: t.shoutsReceived.Load(),
		LastRTTMillis:  t.lastRTTMillis.Load(),
		LastServerTime: t.lastServerTime.Load(),
	}
}
