package icons

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultRequestDelayMs = 250

// Icon is a remote SVG asset rendered inline by dashboard panels.
type Icon struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	URL            string            `json:"url" yaml:"url"`
	RequestDelayMs int               `json:"request_delay_ms" yaml:"request_delay_ms"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
}

// RequestDelay returns the pause before fetching the next icon.
func (i Icon) RequestDelay() time.Duration {
	if i.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(i.RequestDelayMs) * time.Millisecond
}

type iconsFile struct {
	Icons []Icon `json:"icons" yaml:"icons"`
}

// Registry holds the icons declared in a config file, in file order.
type Registry struct {
	icons []Icon
	idx   map[string]Icon
}

// LoadRegistry loads icon definitions from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("icons file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open icons file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read icons file: %w", err)
	}

	parsed, err := parseIcons(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Icons) == 0 {
		return nil, errors.New("icons file contains no icons entries")
	}

	reg := &Registry{
		icons: make([]Icon, 0, len(parsed.Icons)),
		idx:   make(map[string]Icon, len(parsed.Icons)),
	}
	for i := range parsed.Icons {
		icon := sanitizeIcon(parsed.Icons[i])
		if err := validateIcon(icon); err != nil {
			return nil, fmt.Errorf("icons[%d]: %w", i, err)
		}
		if _, exists := reg.idx[icon.ID]; exists {
			return nil, fmt.Errorf("duplicate icon id %q", icon.ID)
		}
		reg.icons = append(reg.icons, icon)
		reg.idx[icon.ID] = icon
	}
	return reg, nil
}

func parseIcons(data []byte, ext string) (iconsFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		ext string
		fn  func([]byte, any) error
	}{
		{ext: ".yaml", fn: yaml.Unmarshal},
		{ext: ".yml", fn: yaml.Unmarshal},
		{ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out iconsFile
		if err := d.fn(data, &out); err == nil {
			return out, nil
		}
	}
	return iconsFile{}, errors.New("icons file format not recognized (expected YAML or JSON)")
}

func sanitizeIcon(i Icon) Icon {
	i.ID = strings.TrimSpace(i.ID)
	i.Name = strings.TrimSpace(i.Name)
	i.URL = strings.TrimSpace(i.URL)
	if i.Name == "" {
		i.Name = i.ID
	}
	return i
}

func validateIcon(i Icon) error {
	if i.ID == "" {
		return errors.New("id is required")
	}
	if i.URL == "" {
		return fmt.Errorf("url is required for icon %q", i.ID)
	}
	return nil
}

// All returns a copy of the configured icons.
func (r *Registry) All() []Icon {
	if r == nil {
		return nil
	}
	out := make([]Icon, len(r.icons))
	copy(out, r.icons)
	return out
}

// ByID returns the icon with the given id.
func (r *Registry) ByID(id string) (Icon, bool) {
	if r == nil {
		return Icon{}, false
	}
	icon, ok := r.idx[strings.TrimSpace(id)]
	return icon, ok
}
