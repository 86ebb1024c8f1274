package icons

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRegistryYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "icons.yaml")
	content := `
icons:
  - id: revenue
    url: https://cdn.example.com/revenue.svg
    request_delay_ms: 50
    headers:
      Accept: image/svg+xml
  - id: users
    name: Active users
    url: " https://cdn.example.com/users.svg "
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write icons file: %v", err)
	}

	reg, err := LoadRegistry(file)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 2 || all[0].ID != "revenue" {
		t.Fatalf("unexpected icons %+v", all)
	}
	if all[0].Name != "revenue" {
		t.Fatalf("expected name to default to id, got %q", all[0].Name)
	}
	if all[0].RequestDelay() != 50*time.Millisecond {
		t.Fatalf("unexpected delay %v", all[0].RequestDelay())
	}
	users, ok := reg.ByID("users")
	if !ok || users.URL != "https://cdn.example.com/users.svg" {
		t.Fatalf("unexpected users icon %+v", users)
	}
	if users.RequestDelay() != defaultRequestDelayMs*time.Millisecond {
		t.Fatalf("expected default delay, got %v", users.RequestDelay())
	}
}

func TestLoadRegistryRejectsDuplicatesAndMissingURL(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"dup.yaml": `
icons:
  - id: a
    url: https://x/a.svg
  - id: a
    url: https://x/b.svg
`,
		"nourl.json": `{"icons":[{"id":"a"}]}`,
		"empty.yaml": `icons: []`,
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := LoadRegistry(path); err == nil {
			t.Fatalf("expected error for %s", name)
		}
	}
}
