package logger

import (
	"encoding/json"
	"io"
	"sort"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *structpb.Struct)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var logEntry structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries    int        `json:"log_entries"`
	Sessions      StrCounter `json:"sessions"`
	Events        StrCounter `json:"events"`
	UnknownEvents StrCounter `json:"unknown_events,omitempty"`

	Launches LaunchReport `json:"launch_report"`
	Kills    KillReport   `json:"kill_report"`
	Builtins StrCounter   `json:"builtins"`
}

func (r *Report) Update(le *structpb.Struct) {
	r.LogEntries++

	fields := le.GetFields()
	event := fields[FieldEvent].GetStringValue()
	r.Sessions.Increment(fields[FieldSessionID].GetStringValue())
	r.Events.Increment(event)

	switch event {
	case EventLaunch:
		r.Launches.update(fields, true)
	case EventLaunchFailed:
		r.Launches.update(fields, false)
	case EventKill:
		r.Kills.Killed++
	case EventKillall:
		r.Kills.Killed += len(fields["pids"].GetListValue().GetValues())
		r.Kills.Killalls++
	case EventTerminate:
		r.Kills.Terminations++
	case EventBuiltin:
		r.Builtins.Increment(fields["name"].GetStringValue())
	case EventExited:
		// Counted in Events only.
	default:
		r.UnknownEvents.Increment(event)
	}
}

type LaunchReport struct {
	// Program names that started.
	Started StrCounter `json:"started"`
	// Program names that failed to start, with the failure kind.
	Failed *PathCounter `json:"failed"`
}

func (r *LaunchReport) update(fields map[string]*structpb.Value, ok bool) {
	program := ""
	if argv := fields["argv"].GetListValue().GetValues(); len(argv) > 0 {
		program = argv[0].GetStringValue()
	}

	if ok {
		r.Started.Increment(program)
		return
	}

	if r.Failed == nil {
		r.Failed = NewPathCounter("program", "error")
	}
	r.Failed.Increment(program, fields["error"].GetStringValue())
}

type KillReport struct {
	Killed       int `json:"killed"`
	Killalls     int `json:"killalls"`
	Terminations int `json:"terminations"`
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of string tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	if ctr == nil {
		return 0
	}
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
