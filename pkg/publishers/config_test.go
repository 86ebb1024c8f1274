package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSinksFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadSinksYAMLEnabledFilter(t *testing.T) {
	path := writeSinksFile(t, "publishers.yaml", `
sinks:
  - id: hook-off
    type: http
    disabled: true
    target: https://example.com
  - id: " hook-on "
    type: HTTP
    target: https://example.com/2
    events: [" AUTH.SIGN_IN ", auth.sign_in]
    headers:
      X-Key: " k "
      " ": dropped
`)

	sinks, err := LoadSinks(path)
	if err != nil {
		t.Fatalf("LoadSinks: %v", err)
	}
	enabled := sinks.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "hook-on" {
		t.Fatalf("expected only hook-on enabled, got %#v", enabled)
	}
	got := enabled[0]
	if got.Type != TypeHTTP {
		t.Fatalf("expected lowercased type, got %q", got.Type)
	}
	if len(got.Events) != 1 || got.Events[0] != EventSignIn {
		t.Fatalf("expected normalized, deduplicated events, got %#v", got.Events)
	}
	if len(got.Headers) != 1 || got.Headers["X-Key"] != "k" {
		t.Fatalf("unexpected headers %#v", got.Headers)
	}
}

func TestLoadSinksJSONCloudSinks(t *testing.T) {
	path := writeSinksFile(t, "publishers.json", `{
  "sinks": [
    {"id": "audit-sns", "type": "sns", "target": "arn:aws:sns:us-east-1:1:auth", "region": "us-east-1"},
    {"id": "audit-pubsub", "type": "gcp_pubsub", "target": "auth", "project": "portal"}
  ]
}`)

	sinks, err := LoadSinks(path)
	if err != nil {
		t.Fatalf("LoadSinks: %v", err)
	}
	if len(sinks.Enabled()) != 2 {
		t.Fatalf("expected both sinks enabled by default, got %#v", sinks)
	}
	if sinks[1].Project != "portal" || sinks[1].Target != "auth" {
		t.Fatalf("unexpected pubsub sink %#v", sinks[1])
	}
}

func TestLoadSinksRejectsBadFiles(t *testing.T) {
	cases := []struct {
		name string
		file string
		raw  string
		want string
	}{
		{"unknown key", "p.yaml", "sinks:\n  - id: a\n    type: http\n    url: https://x\n", "url"},
		{"unknown json key", "p.json", `{"sinks":[{"id":"a","type":"http","target":"https://x","enabled":true}]}`, "enabled"},
		{"no sinks", "p.yaml", "sinks: []\n", "no sinks"},
		{"duplicate id", "p.yaml", "sinks:\n  - {id: a, type: http, target: \"https://x\"}\n  - {id: a, type: http, target: \"https://y\"}\n", "duplicate"},
		{"unsupported extension", "p.toml", "sinks = []", "extension"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSinks(writeSinksFile(t, tc.file, tc.raw))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateRejectsIncompleteSinks(t *testing.T) {
	cases := []PublisherConfig{
		{Type: TypeHTTP, Target: "https://x"},
		{ID: "h", Type: TypeHTTP},
		{ID: "t", Target: "x"},
		{ID: "k", Type: "kafka", Target: "x"},
		{ID: "s", Type: TypeSNS, Target: "arn"},
		{ID: "q", Type: TypeSQS, Target: "https://q", Region: "us-east-1", AWS: &AWSCredentials{AccessKeyID: "AKID"}},
		{ID: "g", Type: TypeGCPPubSub, Target: "auth"},
		{ID: "e", Type: TypeHTTP, Target: "https://x", Events: []string{"auth.password_reset"}},
		{ID: "n", Type: TypeHTTP, Target: "https://x", TimeoutSeconds: -1},
	}
	for _, cfg := range cases {
		if err := cfg.normalize().validate(); err == nil {
			t.Fatalf("expected validation error for %+v", cfg)
		}
	}
}

func TestSinkHandles(t *testing.T) {
	all := PublisherConfig{}
	if !all.handles(EventSignOut) {
		t.Fatalf("sink without events should handle everything")
	}
	signUpOnly := PublisherConfig{Events: []string{EventSignUp}}
	if !signUpOnly.handles(EventSignUp) || signUpOnly.handles(EventSignIn) {
		t.Fatalf("sink should only handle subscribed events")
	}
}
