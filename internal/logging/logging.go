package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const defaultLogFile = "volute.log"

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogFile
	runID        string
)

type traceEntry struct {
	Time    time.Time   `json:"time"`
	Event   string      `json:"event"`
	Run     string      `json:"run,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Error appends err to the log file.
func Error(err error) {
	if err == nil {
		return
	}
	mu.Lock()
	id := runID
	mu.Unlock()
	appendToLog("logging failed", func(w io.Writer) error {
		l := log.New(w, "", log.LstdFlags)
		if id != "" {
			l.Printf("[run %s] %v", id, err)
		} else {
			l.Println(err)
		}
		return nil
	})
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether Trace writes anything.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// SetRunID tags subsequent entries with the identifier of the current run.
// An empty id clears the tag.
func SetRunID(id string) {
	mu.Lock()
	runID = id
	mu.Unlock()
}

// Trace appends a JSON line to the log when tracing is enabled.
func Trace(event string, payload interface{}) {
	mu.Lock()
	enabled := traceEnabled
	entry := traceEntry{
		Time:    time.Now().UTC(),
		Event:   event,
		Run:     runID,
		Payload: payload,
	}
	mu.Unlock()
	if !enabled {
		return
	}
	appendToLog("trace logging failed", func(w io.Writer) error {
		return json.NewEncoder(w).Encode(entry)
	})
}

// Configure sets the log destination. Empty values fall back to the default
// path. Missing directories are created.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogFile
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogFile
		return
	}
	logPath = path
}

// Path returns the configured log destination.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

func appendToLog(failure string, write func(io.Writer) error) {
	mu.Lock()
	path := logPath
	mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", failure, err)
		return
	}
	defer f.Close()
	if err := write(f); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", failure, err)
	}
}
