package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T, isVerbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(isVerbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)

	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("test message %s", "arg")

	if got := buf.String(); got != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestVerboseGatedLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("debug")
	Info("info")
	Warn("warn")
	Section("section")

	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got %q", buf.String())
	}
}

func TestInfoWarnSection_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Section("Meeting Query")
	Info("matched %d", 3)
	Warn("skipped %d", 1)

	got := buf.String()
	for _, want := range []string{"\n=== Meeting Query ===\n", "[INFO] matched 3\n", "[WARN] skipped 1\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("Error processing meeting: %s", "boom")

	if got := buf.String(); got != "[ERROR] Error processing meeting: boom\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestSetOutput_ReturnsPrevious(t *testing.T) {
	capture(t, false)

	prev := SetOutput(io.Discard)
	if prev == nil {
		t.Fatal("expected previous writer")
	}
	if back := SetOutput(prev); back != io.Discard {
		t.Error("expected io.Discard to be returned")
	}
}
