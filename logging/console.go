package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"
)

// ConsolePublisher prints events line-by-line for interactive runs. Events
// below the minimum severity are dropped.
type ConsolePublisher struct {
	logger      *log.Logger
	minSeverity Severity
	clock       func() time.Time
}

func NewConsolePublisher(w io.Writer, minSeverity Severity) *ConsolePublisher {
	return &ConsolePublisher{
		logger:      log.New(w, "", log.LstdFlags),
		minSeverity: minSeverity,
		clock:       time.Now,
	}
}

func (p *ConsolePublisher) Publish(_ context.Context, event Event) {
	if event.Severity < p.minSeverity {
		return
	}
	if event.Time.IsZero() {
		event.Time = p.clock()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] severity=%s", event.Type, event.Severity)
	if event.Room != "" {
		fmt.Fprintf(&b, " room=%s", event.Room)
	}
	if event.Player != "" {
		fmt.Fprintf(&b, " player=%s", event.Player)
	}
	if event.Message != "" {
		fmt.Fprintf(&b, " msg=%q", event.Message)
	}
	for _, key := range sortedKeys(event.Fields) {
		fmt.Fprintf(&b, " %s=%v", key, event.Fields[key])
	}
	p.logger.Print(b.String())
}

func sortedKeys(fields map[string]any) []string {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
