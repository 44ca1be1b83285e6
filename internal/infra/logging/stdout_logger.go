package logging

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// StdoutLogger writes one JSON object per line to stdout.
type StdoutLogger struct {
	// Verbose enables the Debug level; skipped redeliveries and poll
	// batches are noisy, so it is off by default.
	Verbose bool
}

func (l *StdoutLogger) log(level, msg string, fields map[string]any) {
	entry := map[string]any{
		"level": level,
		"msg":   msg,
		"time":  time.Now().UTC().Format(time.RFC3339),
	}

	maps.Copy(entry, fields)

	b, _ := json.Marshal(entry)
	fmt.Println(string(b))
}

func (l *StdoutLogger) Debug(msg string, fields map[string]any) {
	if l.Verbose {
		l.log("DEBUG", msg, fields)
	}
}

func (l *StdoutLogger) Info(msg string, fields map[string]any) {
	l.log("INFO", msg, fields)
}

func (l *StdoutLogger) Error(msg string, fields map[string]any) {
	l.log("ERROR", msg, fields)
}
