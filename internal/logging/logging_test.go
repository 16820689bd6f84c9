package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestDebugSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	L.SetOutput(&buf)
	defer L.SetOutput(os.Stderr)

	SetDebug(false)
	Debugf("hidden %d", 1)
	Infof("visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line logged while disabled: %q", out)
	}
	if !strings.Contains(out, "visible 2") {
		t.Fatalf("info line missing: %q", out)
	}
}

func TestDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	L.SetOutput(&buf)
	defer L.SetOutput(os.Stderr)

	SetDebug(true)
	defer SetDebug(false)
	Debugf("shown %d", 3)

	if !strings.Contains(buf.String(), "shown 3") {
		t.Fatalf("debug line missing: %q", buf.String())
	}
}
