package logger

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Event names written to the log.
const (
	EventLaunch       = "launch"
	EventLaunchFailed = "launch_failed"
	EventExited       = "exited"
	EventKill         = "kill"
	EventKillall      = "killall"
	EventBuiltin      = "builtin"
	EventTerminate    = "terminate"
)

// Field names shared by every entry.
const (
	FieldTimestampMicros = "timestamp_micros"
	FieldSessionID       = "session_id"
	FieldEvent           = "event"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *structpb.Struct) error

// Logger captures job lifecycle events.
type Logger struct {
	Record LogRecorder
	now    func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *structpb.Struct) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}

			// The reaper goroutines and the interrupt watcher log too.
			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*structpb.Struct) error { return nil },
	}
}

func (l *Logger) timestamp() int64 {
	now := time.Now
	if l.now != nil {
		now = l.now
	}
	return now().UnixNano() / int64(time.Microsecond)
}

func (l *Logger) record(sessionID, event string, fields Fields) error {
	values := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		values[k] = v
	}
	values[FieldTimestampMicros] = l.timestamp()
	values[FieldSessionID] = sessionID
	values[FieldEvent] = event

	le, err := structpb.NewStruct(values)
	if err != nil {
		return err
	}
	return l.Record(le)
}

// NewSession creates a logger with a fresh session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: uuid.NewString()}
}

// Fields holds event specific values. Values must be representable by
// structpb: strings, numbers, bools, nil, []interface{} or
// map[string]interface{}.
type Fields map[string]interface{}

// SessionLogger logs messages with a shared session ID.
//
// A nil *SessionLogger is valid and discards everything.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID gets the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.sessionID
}

// Record writes a single event.
func (l *SessionLogger) Record(event string, fields Fields) error {
	if l == nil || l.Logger == nil {
		return nil
	}
	return l.record(l.sessionID, event, fields)
}

// StringList converts argv style values into a form Fields accepts.
func StringList(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// IntList converts pids into a form Fields accepts.
func IntList(values []int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
