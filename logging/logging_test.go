package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	buf := new(bytes.Buffer)
	err := Init(buf, "test", "warn")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = Init(os.Stderr, "minivsfs", "warn")
	}()

	Info("msg", "hidden")
	Warn("msg", "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line was not filtered: %s", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "component=test") {
		t.Errorf("warn line is missing: %s", out)
	}
}

func TestUnknownLevel(t *testing.T) {
	_, err := ParseLevel("loud")
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
}
