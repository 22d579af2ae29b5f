// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

var (
	traceEnabled bool
	out          io.Writer = os.Stderr
	mu           sync.Mutex
)

// InitLogger sets up Apex with the single-line handler and a level from the
// CEFWATCH_LOG env variable. Output goes to stderr so stdout stays reserved
// for results.
func InitLogger() {
	envLevel := strings.ToLower(os.Getenv("CEFWATCH_LOG"))
	if envLevel == "" {
		envLevel = "error"
	}
	traceEnabled = envLevel == "trace"

	log.SetHandler(&CustomHandler{})
	log.SetLevel(parseLevel(envLevel))
}

// SetVerbose raises the level to Info so progress narration is shown. A more
// verbose level already in effect is kept.
func SetVerbose(verbose bool) {
	if !verbose {
		return
	}
	if l, ok := log.Log.(*log.Logger); ok && l.Level > log.InfoLevel {
		log.SetLevel(log.InfoLevel)
	}
}

// SetOutput redirects log output. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

func parseLevel(s string) log.Level {
	switch s {
	case "trace", "debug":
		// Trace shows debug and above, plus Tracef lines.
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.ErrorLevel
	}
}

// CustomHandler formats log entries as "<timestamp> <L> <message>".
type CustomHandler struct{}

// HandleLog implements the log.Handler interface.
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := e.Message
	level := "?"
	if strings.HasPrefix(message, "TRACE: ") {
		level = "T"
		message = message[7:]
	} else {
		switch e.Level {
		case log.DebugLevel:
			level = "D"
		case log.InfoLevel:
			level = "I"
		case log.WarnLevel:
			level = "W"
		case log.ErrorLevel:
			level = "E"
		case log.FatalLevel:
			level = "F"
		}
	}

	if len(e.Fields) > 0 {
		names := e.Fields.Names()
		pairs := make([]string, 0, len(names))
		for _, n := range names {
			pairs = append(pairs, fmt.Sprintf("%s=%v", n, e.Fields.Get(n)))
		}
		message += " " + strings.Join(pairs, " ")
	}

	mu.Lock()
	defer mu.Unlock()
	_, err := fmt.Fprintf(out, "%s %s %s\n", timestamp, level, message)
	return err
}

// Tracef logs at Trace level (below Debug).
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug("TRACE: " + fmt.Sprintf(format, args...))
	}
}

// Debugf logs at Debug level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at Info level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs at Warn level.
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs at Error level.
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry with error.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
