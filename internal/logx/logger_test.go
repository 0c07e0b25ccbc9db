package logx

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesLeveledLines(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf, false)

	log.Debug("hidden")
	log.Info("configuring", zap.Int("major", 17))
	log.Error("unsupported", zap.String("detected", "v15"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level:\n%s", out)
	}
	if !strings.Contains(out, "INFO configuring") {
		t.Errorf("missing info line:\n%s", out)
	}
	if !strings.Contains(out, `"major": 17`) {
		t.Errorf("missing structured field:\n%s", out)
	}
	if !strings.Contains(out, "ERROR unsupported") {
		t.Errorf("missing error line:\n%s", out)
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("verbose", &buf, false)

	log.Debug("hidden")
	log.Info("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("unknown level should fall back to info")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info entry missing")
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", &buf, false).With(zap.String("entity", "user"))
	log.Debug("rendered")

	if !strings.Contains(buf.String(), `"entity": "user"`) {
		t.Errorf("With() field missing:\n%s", buf.String())
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Info("nothing")
	log.With(zap.Bool("x", true)).Error("still nothing")
}
