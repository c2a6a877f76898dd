package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shift/client/logging"
	"shift/client/rules"
)

func main() {
	var (
		serverURL   = flag.String("server", "ws://localhost:3001/ws", "game server websocket URL")
		roomCode    = flag.String("room", "", "room code to join on startup")
		controlAddr = flag.String("control", "127.0.0.1:8090", "control API listen address")
		viewportW   = flag.Float64("viewport-width", 1280, "initial viewport width in pixels")
		viewportH   = flag.Float64("viewport-height", 720, "initial viewport height in pixels")
		verbose     = flag.Bool("verbose", false, "log debug-severity events")
	)
	flag.Parse()

	minSeverity := logging.SeverityInfo
	if *verbose {
		minSeverity = logging.SeverityDebug
	}
	publisher := logging.NewConsolePublisher(os.Stdout, minSeverity)

	faces := newFaceSource(0)
	board := newBoard(faces)
	camera := newCamera(Vec2{X: *viewportW, Y: *viewportH})
	telemetry := newTelemetryCounters()
	transport := newWSTransport(*serverURL)
	synchronizer := newSynchronizer(transport, board, camera, faces, publisher, telemetry)

	registry := rules.NewRegistry()
	for _, rule := range rules.Starters() {
		if err := registry.Append(rule); err != nil {
			log.Fatalf("seed rule book: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go synchronizer.Run(ctx)

	if err := synchronizer.Connect(ctx); err != nil {
		log.Fatalf("connect: %v", err)
	}

	if *roomCode != "" {
		// The join is fire-and-forget; membership advances when the server
		// confirms. Give the connected event a beat to land first.
		go func() {
			time.Sleep(100 * time.Millisecond)
			if err := synchronizer.JoinRoom(*roomCode); err != nil {
				log.Printf("join %s: %v", *roomCode, err)
			}
		}()
	}

	control := newControlServer(synchronizer, registry, telemetry)
	httpServer := &http.Server{Addr: *controlAddr, Handler: control.routes()}
	go func() {
		log.Printf("control API listening on %s", *controlAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("control API: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
	transport.Close()

	select {
	case <-synchronizer.Done():
	case <-time.After(time.Second):
	}
}
