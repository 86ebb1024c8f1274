package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRunSanitizeFromStdin(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(`<svg onload="alert(1)"><script>evil()</script></svg>`)

	if err := run([]string{"sanitize"}, in, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if got["__html"] != `<svg ></svg>` {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunRequiresCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(nil, strings.NewReader(""), &stdout, &stderr); err == nil {
		t.Fatalf("expected error without command")
	}
	if !strings.HasPrefix(stderr.String(), "usage: portal <command>") {
		t.Fatalf("expected usage on stderr, got %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", stdout.String())
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{"launch"}, strings.NewReader(""), &bytes.Buffer{}, &stderr)
	if err == nil || !strings.Contains(err.Error(), `"launch"`) {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "sign-in") {
		t.Fatalf("expected usage on stderr, got %q", stderr.String())
	}
}
