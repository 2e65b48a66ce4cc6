package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("expected level %v, got %v", DefaultLevel, logger.Level())
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("expected format %v, got %v", DefaultFormat, logger.Format())
	}
}

func TestZeroLogger_Discards(t *testing.T) {
	var logger Logger

	// must not panic
	logger.Error("dropped", slog.String("k", "v"))
	logger.With(slog.Int("n", 1)).Info("dropped")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v", logger.Level())
	}
}

func TestMake_WithLevel_FiltersMessages(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		log    func(Logger)
		logged bool
	}{
		{"trace below debug", LevelDebug, func(l Logger) { l.Trace("m") }, false},
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{"info below error", LevelError, func(l Logger) { l.Info("m") }, false},
		{"error at error", LevelError, func(l Logger) { l.Error("m") }, true},
		{"warn at info", LevelInfo, func(l Logger) { l.Warn("m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.level), WithPretty(false)))

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.logged, buf.String())
			}
		})
	}
}

func TestMake_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatJSON),
		WithLevel(LevelTrace),
		WithTimeLayout("none"),
	)
	logger.Trace("resolving", slog.String("name", "q1"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}

	if rec["name"] != "q1" {
		t.Errorf("name = %v, want q1", rec["name"])
	}

	if _, ok := rec["time"]; ok {
		t.Error("time should be omitted with layout none")
	}
}

func TestMake_PrettyText(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelDebug), WithTimeLayout(""))
	logger.With(slog.String("cmd", "show")).
		Debug("loaded", slog.Int("fragments", 3))

	out := buf.String()
	for _, want := range []string{"DEBUG", "loaded", "cmd", "show", "fragments", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}

	if strings.Contains(out, `"show"`) {
		t.Errorf("pretty output should not quote values: %q", out)
	}
}

func TestWrap_OverridesOptions(t *testing.T) {
	var a, b bytes.Buffer

	base := Make(&a, WithLevel(LevelError))
	wrapped := base.Wrap(WithOutput(&b), WithLevel(LevelInfo))

	wrapped.Info("hello")
	base.Info("hello")

	if a.Len() != 0 {
		t.Errorf("base logger should filter info, got %q", a.String())
	}

	if !strings.Contains(b.String(), "hello") {
		t.Errorf("wrapped logger output %q", b.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat(" JSON ") != FormatJSON {
		t.Error("expected json")
	}

	if ParseFormat("text") != FormatText {
		t.Error("expected text")
	}

	if ParseFormat("xml") != DefaultFormat {
		t.Error("expected default")
	}
}

func TestEnumerations(t *testing.T) {
	levels := slices.Collect(Levels())
	if !slices.Equal(levels, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", levels)
	}

	formats := slices.Collect(Formats())
	if !slices.Equal(formats, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", formats)
	}
}

func TestPackageFunctions_UseDefaultLogger(t *testing.T) {
	defaultMu.Lock()
	original := defaultLog
	defaultMu.Unlock()

	defer func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	}()

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelDebug), WithFormat(FormatJSON))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			if !strings.Contains(buf.String(), `"level":"`+tt.level+`"`) {
				t.Errorf("output %q missing level %s", buf.String(), tt.level)
			}
		})
	}
}
