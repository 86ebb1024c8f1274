package publishers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported sink types.
const (
	TypeHTTP      = "http"
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeGCPPubSub = "gcp_pubsub"
)

// PublisherConfig declares one auth event sink. Target is the destination in
// the sink's own terms: a URL for http, a queue URL for sqs, a topic ARN for
// sns and a topic name for gcp_pubsub.
type PublisherConfig struct {
	ID       string   `yaml:"id" json:"id"`
	Type     string   `yaml:"type" json:"type"`
	Target   string   `yaml:"target" json:"target"`
	Disabled bool     `yaml:"disabled" json:"disabled"`
	Events   []string `yaml:"events" json:"events"`

	// sqs, sns
	Region string          `yaml:"region" json:"region"`
	AWS    *AWSCredentials `yaml:"aws_credentials" json:"aws_credentials"`

	// gcp_pubsub
	Project         string `yaml:"project" json:"project"`
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`

	// http
	Headers        map[string]string `yaml:"headers" json:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// AWSCredentials pins static keys instead of the default provider chain.
type AWSCredentials struct {
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key"`
}

// Sinks is the parsed content of a publishers file.
type Sinks []PublisherConfig

type sinksFile struct {
	Sinks Sinks `yaml:"sinks" json:"sinks"`
}

var knownEvents = []string{EventSignIn, EventSignUp, EventSignOut}

// LoadSinks reads a YAML or JSON publishers file. Unknown keys are rejected so
// a typo cannot silently disable a sink.
func LoadSinks(path string) (Sinks, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var file sinksFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		err = dec.Decode(&file)
	case ".yaml", ".yml", "":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		err = dec.Decode(&file)
	default:
		return nil, fmt.Errorf("publishers file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode publishers file %s: %w", path, err)
	}
	if len(file.Sinks) == 0 {
		return nil, fmt.Errorf("publishers file %s declares no sinks", path)
	}

	seen := make(map[string]bool, len(file.Sinks))
	for i := range file.Sinks {
		cfg := file.Sinks[i].normalize()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
		if seen[cfg.ID] {
			return nil, fmt.Errorf("sinks[%d]: duplicate id %q", i, cfg.ID)
		}
		seen[cfg.ID] = true
		file.Sinks[i] = cfg
	}
	return file.Sinks, nil
}

// Enabled drops disabled sinks.
func (s Sinks) Enabled() Sinks {
	out := make(Sinks, 0, len(s))
	for _, cfg := range s {
		if !cfg.Disabled {
			out = append(out, cfg)
		}
	}
	return out
}

func (c PublisherConfig) normalize() PublisherConfig {
	c.ID = strings.TrimSpace(c.ID)
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	c.Target = strings.TrimSpace(c.Target)
	c.Region = strings.TrimSpace(c.Region)
	c.Project = strings.TrimSpace(c.Project)
	c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)

	events := make([]string, 0, len(c.Events))
	for _, e := range c.Events {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" && !slices.Contains(events, e) {
			events = append(events, e)
		}
	}
	c.Events = events

	if len(c.Headers) > 0 {
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
				headers[k] = v
			}
		}
		c.Headers = headers
	}
	return c
}

func (c PublisherConfig) validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}

	required := []struct{ name, value string }{{"target", c.Target}}
	switch c.Type {
	case TypeHTTP:
		if c.TimeoutSeconds < 0 {
			return fmt.Errorf("sink %q: timeout_seconds must be >= 0", c.ID)
		}
	case TypeSQS, TypeSNS:
		required = append(required, struct{ name, value string }{"region", c.Region})
		if c.AWS != nil && (c.AWS.AccessKeyID == "") != (c.AWS.SecretAccessKey == "") {
			return fmt.Errorf("sink %q: aws_credentials needs both access_key_id and secret_access_key", c.ID)
		}
	case TypeGCPPubSub:
		required = append(required, struct{ name, value string }{"project", c.Project})
	case "":
		return fmt.Errorf("sink %q: type is required", c.ID)
	default:
		return fmt.Errorf("sink %q: unsupported type %q", c.ID, c.Type)
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("sink %q: %s is required for type %s", c.ID, f.name, c.Type)
		}
	}

	for _, e := range c.Events {
		if !slices.Contains(knownEvents, e) {
			return fmt.Errorf("sink %q: unknown event %q", c.ID, e)
		}
	}
	return nil
}

// handles reports whether the sink subscribes to the event type. An empty
// events list subscribes to every event.
func (c PublisherConfig) handles(eventType string) bool {
	return len(c.Events) == 0 || slices.Contains(c.Events, eventType)
}
