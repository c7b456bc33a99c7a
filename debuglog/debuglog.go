// Package debuglog appends newline-delimited JSON debug records to a file.
// Write failures are reported to the operator but never abort the session;
// losing debug output is better than losing the capture.
package debuglog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Logger writes structured debug records to a single append-only file.
type Logger struct {
	path    string
	enabled bool
}

// New creates a logger appending to path.
func New(path string) *Logger {
	return &Logger{path: path, enabled: true}
}

// SetEnabled toggles logging; a disabled logger drops records silently.
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// Log appends one record with an optional structured payload.
func (l *Logger) Log(message string, data map[string]interface{}) {
	if !l.enabled {
		return
	}

	e := entry{
		Timestamp: time.Now().Format("2006-01-02 15:04:05.000"),
		Message:   message,
		Data:      data,
	}

	line, err := json.Marshal(e)
	if err != nil {
		fmt.Printf("Failed to encode log entry: %v\n", err)
		return
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Printf("Failed to write log: %v\n", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		fmt.Printf("Failed to write log: %v\n", err)
	}
}

// Clear truncates the log file.
func (l *Logger) Clear() error {
	return os.Truncate(l.path, 0)
}

// Summary prints where the log went and how many entries it holds.
func (l *Logger) Summary(w io.Writer) {
	f, err := os.Open(l.path)
	if err != nil {
		return
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		count++
	}

	fmt.Fprintf(w, "\nDebug log written to: %s\n", l.path)
	fmt.Fprintf(w, "Total log entries: %d\n", count)
}
