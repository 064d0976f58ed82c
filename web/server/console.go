package server

import (
	"fmt"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger forwards messages about one render to its browser console and
// to the server log
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf sends an info message
func (wl *WebLogger) Printf(format string, args ...any) {
	wl.send("info", format, args...)
}

// Warningf sends a warning message
func (wl *WebLogger) Warningf(format string, args ...any) {
	wl.send("warning", format, args...)
}

func (wl *WebLogger) send(level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	if level == "warning" {
		logger.Warningf("[%s] %s", wl.renderID, message)
	} else {
		logger.Infof("[%s] %s", wl.renderID, message)
	}

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
		// Channel full, skip (don't block)
	}
}
