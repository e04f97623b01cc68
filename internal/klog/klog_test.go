package klog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Prefix: "ki"})
	l.Info("should not appear")
	l.Warn("should appear")
	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("expected Info to be filtered below Warn level, got %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("expected Warn entry in output, got %q", out)
	}
}

func TestWithFieldIsImmutable(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: LevelDebug, Output: &buf})
	derived := base.WithField("buffer", "file:///a.go")

	base.Debug("base entry")
	derived.Debug("derived entry")

	out := buf.String()
	if strings.Contains(strings.SplitN(out, "\n", 2)[0], "buffer=") {
		t.Fatalf("expected base logger's entry to carry no fields, got %q", out)
	}
	if !strings.Contains(out, "buffer=file:///a.go") {
		t.Fatalf("expected derived logger's entry to carry the field, got %q", out)
	}
}

func TestDisable(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})
	l.Disable()
	l.Error("should be dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected disabled logger to drop all output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": LevelDebug,
		"WARN":  LevelWarn,
		"error": LevelError,
		"":      LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
