package observability_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"siam_tours/internal/adapters/observability"
)

func TestNewLoggerTo_JSONInProd(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLoggerTo(&buf, "prod")

	l.Debug().Msg("hidden")
	l.Info().Str("k", "v").Msg("shown")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "shown" || line["service"] != "siam_tours" || line["k"] != "v" {
		t.Fatalf("unexpected line: %v", line)
	}
}

func TestNewLoggerTo_ConsoleInDev(t *testing.T) {
	var buf bytes.Buffer
	l := observability.NewLoggerTo(&buf, "dev")
	l.Debug().Msg("visible in dev")
	if !bytes.Contains(buf.Bytes(), []byte("visible in dev")) {
		t.Fatalf("expected debug output in dev, got %q", buf.String())
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Fatalf("expected console output, got JSON")
	}
}
