package config

import (
	"fmt"
	"os"
	"strings"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration for a genesis invocation.
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Definition represents the genesis.yml structure: the named
// environments an operator can target, and the kits/features active
// for each.
type Definition struct {
	Version      int                    `yaml:"version"`
	Environments map[string]Environment `yaml:"environments"`
	Kits         map[string]KitSource   `yaml:"kits,omitempty"`
}

// Environment describes one deployment target: which store to drive,
// which kit this environment is built from, and which optional
// features are enabled on top of "base".
type Environment struct {
	Store         StoreConfig       `yaml:"store"`
	Kit           string            `yaml:"kit"`
	Features      []string          `yaml:"features,omitempty"`
	RootCAPath    string            `yaml:"root_ca_path,omitempty"`
	Params        map[string]string `yaml:"params,omitempty"`
	Notifications Notifications     `yaml:"notifications,omitempty"`
}

// Notifications configures the optional async lifecycle-event fan-out
// (internal/notify). Every field is optional; a provider is only
// constructed when its section is present.
type Notifications struct {
	Slack     *SlackNotificationConfig     `yaml:"slack,omitempty"`
	Webhook   *WebhookNotificationConfig   `yaml:"webhook,omitempty"`
	Email     *EmailNotificationConfig     `yaml:"email,omitempty"`
	PagerDuty *PagerDutyNotificationConfig `yaml:"pagerduty,omitempty"`
}

// SlackNotificationConfig is genesis.yml's decoding shape for Slack
// notifications; internal/notify.CreateSlackProvider builds the
// provider from it.
type SlackNotificationConfig struct {
	WebhookURL string              `yaml:"webhook_url"`
	Channel    string              `yaml:"channel,omitempty"`
	Events     []string            `yaml:"events,omitempty"`
	Mentions   *SlackMentionConfig `yaml:"mentions,omitempty"`
}

// SlackMentionConfig is genesis.yml's decoding shape for per-event
// Slack mentions.
type SlackMentionConfig struct {
	OnFailure []string `yaml:"on_failure,omitempty"`
	OnAbort   []string `yaml:"on_abort,omitempty"`
}

// WebhookNotificationConfig is genesis.yml's decoding shape for a
// generic webhook notification target.
type WebhookNotificationConfig struct {
	Name            string              `yaml:"name,omitempty"`
	URL             string              `yaml:"url"`
	Method          string              `yaml:"method,omitempty"`
	Headers         map[string]string   `yaml:"headers,omitempty"`
	Events          []string            `yaml:"events,omitempty"`
	PayloadTemplate string              `yaml:"payload_template,omitempty"`
	Retry           *WebhookRetryConfig `yaml:"retry,omitempty"`
	TimeoutSeconds  int                 `yaml:"timeout_seconds,omitempty"`
}

// WebhookRetryConfig is genesis.yml's decoding shape for webhook retry
// policy.
type WebhookRetryConfig struct {
	MaxAttempts int    `yaml:"max_attempts,omitempty"`
	Backoff     string `yaml:"backoff,omitempty"`
}

// EmailNotificationConfig is genesis.yml's decoding shape for email
// notifications.
type EmailNotificationConfig struct {
	SMTP      SMTPConfigInput `yaml:"smtp"`
	From      string          `yaml:"from"`
	To        []string        `yaml:"to"`
	Events    []string        `yaml:"events,omitempty"`
	BatchMode string          `yaml:"batch_mode,omitempty"`
}

// SMTPConfigInput is genesis.yml's decoding shape for SMTP settings.
type SMTPConfigInput struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	TLS      bool   `yaml:"tls,omitempty"`
}

// PagerDutyNotificationConfig is genesis.yml's decoding shape for
// PagerDuty notifications.
type PagerDutyNotificationConfig struct {
	IntegrationKey string   `yaml:"integration_key"`
	ServiceID      string   `yaml:"service_id,omitempty"`
	Severity       string   `yaml:"severity,omitempty"`
	Events         []string `yaml:"events,omitempty"`
	AutoResolve    bool     `yaml:"auto_resolve,omitempty"`
}

// StoreConfig names the secret-store target and how to reach it.
// TimeoutMs bounds every call the client makes against this target.
type StoreConfig struct {
	Type      string `yaml:"type"`
	Target    string `yaml:"target"`
	TimeoutMs int    `yaml:"timeout_ms,omitempty"`
}

// KitSource locates a kit's metadata on disk or at a named ref.
type KitSource struct {
	Path string `yaml:"path,omitempty"`
	Ref  string `yaml:"ref,omitempty"`
}

// DefaultTimeoutMs is used when a store config omits timeout_ms.
const DefaultTimeoutMs = 30000

// Load reads and parses the genesis.yml file at c.Path.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return dserrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Create a genesis.yml describing your environments, or pass --config",
			}
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}

	if def.Version != 0 {
		return dserrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your genesis.yml file",
		}
	}

	c.Definition = &def
	return nil
}

// GetEnvironment returns the configuration for a named environment.
func (c *Config) GetEnvironment(name string) (Environment, error) {
	if c.Definition == nil {
		return Environment{}, dserrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}

	env, ok := c.Definition.Environments[name]
	if !ok {
		var available []string
		for envName := range c.Definition.Environments {
			available = append(available, envName)
		}

		suggestion := "Check your genesis.yml for available environments"
		if len(available) > 0 {
			suggestion = fmt.Sprintf("Available environments: %s", strings.Join(available, ", "))
		}

		return Environment{}, dserrors.ConfigError{
			Field:      "environment",
			Value:      name,
			Message:    "environment not found",
			Suggestion: suggestion,
		}
	}

	return env, nil
}

// GetKit returns the kit source for a named kit.
func (c *Config) GetKit(name string) (KitSource, error) {
	if c.Definition == nil {
		return KitSource{}, dserrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}

	kit, ok := c.Definition.Kits[name]
	if !ok {
		var available []string
		for kitName := range c.Definition.Kits {
			available = append(available, kitName)
		}

		suggestion := "Add the kit to the 'kits:' section of your genesis.yml"
		if len(available) > 0 {
			suggestion = fmt.Sprintf("Available kits: %s. %s", strings.Join(available, ", "), suggestion)
		}

		return KitSource{}, dserrors.ConfigError{
			Field:      "kit",
			Value:      name,
			Message:    "kit not found in configuration",
			Suggestion: suggestion,
		}
	}

	return kit, nil
}

// TimeoutMsOrDefault returns the store's configured timeout, or the default.
func (s StoreConfig) TimeoutMsOrDefault() int {
	if s.TimeoutMs <= 0 {
		return DefaultTimeoutMs
	}
	return s.TimeoutMs
}

// HasFeature reports whether name is enabled for this environment.
// "base" is always considered enabled even if absent from the list.
func (e Environment) HasFeature(name string) bool {
	if name == "base" {
		return true
	}
	for _, f := range e.Features {
		if f == name {
			return true
		}
	}
	return false
}
