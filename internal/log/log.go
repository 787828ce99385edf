// Package log writes one JSON object per line through the standard logger.
package log

import (
	"encoding/json"
	"io"
	stdlog "log"
	"time"
)

type entry struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

var std = stdlog.New(io.Discard, "", 0)

// SetOutput directs entries to w. Entries are dropped until it is called.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func write(level, action, reqID string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, Action: action, ReqID: reqID, Fields: fields}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	std.Println(string(b))
}

func Info(action string, fields map[string]any) { write("info", action, "", nil, fields) }

// Request logs a backend call under its request id.
func Request(reqID, action string, err error, fields map[string]any) {
	level := "info"
	if err != nil {
		level = "error"
	}
	write(level, action, reqID, err, fields)
}

func Audit(action string, fields map[string]any) {
	write("audit", action, "", nil, fields)
}

func Warn(action string, fields map[string]any) {
	write("warn", action, "", nil, fields)
}

func Error(action string, err error, fields map[string]any) {
	write("error", action, "", err, fields)
}
