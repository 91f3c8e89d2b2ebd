package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventProtocolFile EventType = "protocol_file"
	EventProtocol     EventType = "protocol"
	EventClient       EventType = "client"
	EventRecord       EventType = "record"
	EventSummary      EventType = "summary"
	EventError        EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event of an ingestion run
type Event struct {
	Timestamp    time.Time         `json:"ts"`
	RunID        string            `json:"run_id"`
	Level        EventLevel        `json:"level"`
	Event        EventType         `json:"event"`
	ProtocolFile string            `json:"protocol_file,omitempty"`
	Line         int               `json:"line,omitempty"`
	Protocol     string            `json:"protocol,omitempty"`
	Group        string            `json:"group,omitempty"`
	ClientID     string            `json:"client_id,omitempty"`
	Path         string            `json:"path,omitempty"`
	Created      bool              `json:"created,omitempty"`
	Error        string            `json:"error,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	runID    string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level.
// Every event it writes carries the same freshly generated run id, which is
// also part of the file name so concurrent runs never share a log.
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	runID := uuid.NewString()
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("events-%s-%s.jsonl", timestamp, runID)
	path := filepath.Join(outputDir, filename)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create event log")
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		runID:    runID,
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.RunID = l.runID

	if err := l.encoder.Encode(event); err != nil {
		return errors.Wrap(err, "failed to encode event")
	}

	return nil
}

// LogProtocolFile logs the start of a protocol description file
func (l *EventLogger) LogProtocolFile(path, protocol, group string, lines int) error {
	return l.Log(&Event{
		Level:        LevelInfo,
		Event:        EventProtocolFile,
		ProtocolFile: path,
		Protocol:     protocol,
		Group:        group,
		Extra: map[string]string{
			"lines": fmt.Sprintf("%d", lines),
		},
	})
}

// LogProtocol logs a protocol row lookup or creation
func (l *EventLogger) LogProtocol(name string, created bool) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    EventProtocol,
		Protocol: name,
		Created:  created,
	})
}

// LogClient logs the creation of a client row
func (l *EventLogger) LogClient(id, group string) error {
	return l.Log(&Event{
		Level:    LevelInfo,
		Event:    EventClient,
		ClientID: id,
		Group:    group,
		Created:  true,
	})
}

// LogRecord logs one ingested protocol line
func (l *EventLogger) LogRecord(protocolFile string, line int, clientID, path string, created bool) error {
	return l.Log(&Event{
		Level:        LevelDebug,
		Event:        EventRecord,
		ProtocolFile: protocolFile,
		Line:         line,
		ClientID:     clientID,
		Path:         path,
		Created:      created,
	})
}

// LogSummary logs the totals of a run
func (l *EventLogger) LogSummary(counts map[string]int) error {
	extra := make(map[string]string, len(counts))
	for k, v := range counts {
		extra[k] = fmt.Sprintf("%d", v)
	}
	return l.Log(&Event{
		Level: LevelInfo,
		Event: EventSummary,
		Extra: extra,
	})
}

// LogError logs a fatal error, optionally tied to a protocol file line
func (l *EventLogger) LogError(protocolFile string, line int, err error) error {
	return l.Log(&Event{
		Level:        LevelError,
		Event:        EventError,
		ProtocolFile: protocolFile,
		Line:         line,
		Error:        err.Error(),
	})
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// RunID returns the id stamped on every event of this logger
func (l *EventLogger) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
