package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, FormatJSON); err != nil {
		t.Fatalf("failed to initialize json logger: %v", err)
	}

	Get().Info(context.Background(), "scored", String("title", "Persona"), Int("score", 100), Bool("auteur", true))

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("output is not json: %v (%q)", err, buf.String())
	}
	if line["msg"] != "scored" {
		t.Errorf("expected msg scored, got %v", line["msg"])
	}
	if line["title"] != "Persona" {
		t.Errorf("expected title field, got %v", line["title"])
	}
	if src, _ := line["source"].(string); !strings.Contains(src, "logger_test.go") {
		t.Errorf("expected caller to point at the test file, got %q", src)
	}
}

func TestLoggerUnknownFormat(t *testing.T) {
	if err := InitWith(nil, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, FormatText); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("recompute").Info(context.Background(), "started")
	if !strings.Contains(buf.String(), "component=recompute") {
		t.Errorf("expected component attribute, got %q", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, FormatText); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "", " INFO "} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("level %q: unexpected error %v", lvl, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}

	_ = SetLevelString("error")
	Get().Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("info line should be filtered at error level, got %q", buf.String())
	}
}
