package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)
	defer SetLevel(Notice)

	logger := New("test")

	tests := []struct {
		name      string
		level     Level
		expectDbg bool
		expectInf bool
	}{
		{"notice hides info and debug", Notice, false, false},
		{"info shows info", Info, false, true},
		{"debug shows everything", Debug, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			SetLevel(tt.level)

			logger.Debugf("debug %d", 1)
			logger.Infof("info %d", 2)
			logger.Errorf("error %d", 3)

			out := buf.String()
			if got := strings.Contains(out, "debug 1"); got != tt.expectDbg {
				t.Errorf("debug message present=%v, expected %v", got, tt.expectDbg)
			}
			if got := strings.Contains(out, "info 2"); got != tt.expectInf {
				t.Errorf("info message present=%v, expected %v", got, tt.expectInf)
			}
			if !strings.Contains(out, "error 3") {
				t.Error("error message should always be written")
			}
			if !strings.Contains(out, "[test]") {
				t.Errorf("expected module name in output, got %q", out)
			}
		})
	}
}

func TestSetSinkKeepsLevel(t *testing.T) {
	SetLevel(Debug)
	defer SetLevel(Notice)

	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)

	if !IsEnabled(Debug) {
		t.Error("level should survive a sink change")
	}
}
