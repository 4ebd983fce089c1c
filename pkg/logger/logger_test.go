package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_JSONWithService(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var buf bytes.Buffer
	l := Init(Options{Level: "debug", Output: &buf, Service: "shortener"})
	l.Debug().Str("code", "abc123").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "shortener" || entry["message"] != "hello" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("expected timestamp")
	}
}

func TestInit_IsSingleton(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	Init(Options{Output: &second})

	l := Get()
	l.Info().Msg("once")
	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("second Init must not replace the logger")
	}
}

func TestInit_LevelFilters(t *testing.T) {
	reset()
	t.Cleanup(reset)

	var buf bytes.Buffer
	l := Init(Options{Level: "warn", Output: &buf})
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at warn level")
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	reset()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
