// Package commands wires genesis's internal packages into a cobra CLI:
// one New*Command(cfg) constructor per subcommand, each loading
// genesis.yml, resolving the named environment's kit metadata into a
// plan.PlanSet, and driving the executor/validator against it.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrferris/genesis/internal/cmdexec"
	"github.com/mrferris/genesis/internal/config"
	"github.com/mrferris/genesis/internal/envref"
	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/filter"
	"github.com/mrferris/genesis/internal/notify"
	"github.com/mrferris/genesis/internal/plan"
	"github.com/mrferris/genesis/internal/resolver"
	"github.com/mrferris/genesis/internal/store"
)

// notifyQueueSize bounds the async notification manager's backlog;
// beyond this a slow/unreachable provider starts dropping events
// rather than blocking the executor.
const notifyQueueSize = 64

// pipeline bundles everything a command needs once an environment has
// been resolved: its config entry, a store client pinned to its
// target, and the plan set built from its kit metadata.
type pipeline struct {
	env    config.Environment
	client store.Client
	set    *plan.PlanSet
}

// buildPipeline loads cfg (if not already loaded), resolves envName,
// pins a store.SafeClient to its target, parses its kit's metadata
// into a PlanSet, and runs the dependency resolver over it. Every
// command's RunE starts here.
func buildPipeline(cfg *config.Config, envName string) (*pipeline, error) {
	if cfg.Definition == nil {
		if err := cfg.Load(); err != nil {
			return nil, err
		}
	}

	env, err := cfg.GetEnvironment(envName)
	if err != nil {
		return nil, err
	}

	kitSource, err := cfg.GetKit(env.Kit)
	if err != nil {
		return nil, err
	}

	targetValue, err := envref.Resolve(env.Store.Target)
	if err != nil {
		return nil, dserrors.ConfigError{
			Field:      "store.target",
			Value:      env.Store.Target,
			Message:    fmt.Sprintf("failed to resolve store target: %v", err),
			Suggestion: "Check that every ${VAR} reference in store.target is exported in the environment",
		}
	}

	envVar := "VAULT_ADDR"
	if env.Store.Type == "safe" {
		envVar = "SAFE_TARGET"
	}

	executor := cmdexec.DefaultExecutor()
	client := store.NewSafeClientWithTokenCache(
		executor,
		store.Target{EnvVar: envVar, Value: targetValue},
		store.NewKeyringTokenCache(),
	)

	metadataPath := kitSource.Path
	if !filepath.IsAbs(metadataPath) {
		metadataPath = filepath.Join(filepath.Dir(cfg.Path), metadataPath)
	}

	data, err := os.ReadFile(filepath.Join(metadataPath, "kit.yml"))
	if err != nil {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Failed to read kit metadata for kit %q", env.Kit),
			Details:    err.Error(),
			Suggestion: "Check the kit's path in genesis.yml and that kit.yml exists there",
			Err:        err,
		}
	}

	raw, err := plan.DecodeMetadata(data)
	if err != nil {
		return nil, err
	}

	parser := &plan.Parser{RootCAPath: env.RootCAPath}
	set := parser.Parse(raw, env.Features)

	resolver.Resolve(set, env.RootCAPath)

	return &pipeline{env: env, client: client, set: set}, nil
}

// applyFilter narrows p.set to elements, in place, when elements is
// non-empty.
func (p *pipeline) applyFilter(elements []string) error {
	if len(elements) == 0 {
		return nil
	}

	filtered, err := filter.Apply(p.set, elements)
	if err != nil {
		return err
	}
	p.set = filtered
	return nil
}

// buildNotifyManager constructs a notify.Manager from env's
// notifications section and registers every provider it names. It
// returns nil when no provider is configured, so callers can treat a
// nil manager as "no async fan-out" without a separate flag.
func buildNotifyManager(env config.Environment) (*notify.Manager, error) {
	n := env.Notifications
	var providers []notify.NotificationProvider

	if n.Slack != nil {
		provider, err := notify.CreateSlackProvider(&notify.SlackNotificationConfig{
			WebhookURL: n.Slack.WebhookURL,
			Channel:    n.Slack.Channel,
			Events:     n.Slack.Events,
			Mentions:   convertSlackMentions(n.Slack.Mentions),
		})
		if err != nil {
			return nil, fmt.Errorf("configuring slack notifications: %w", err)
		}
		providers = append(providers, provider)
	}

	if n.Webhook != nil {
		provider, err := notify.CreateWebhookProvider(&notify.WebhookNotificationConfig{
			Name:            n.Webhook.Name,
			URL:             n.Webhook.URL,
			Method:          n.Webhook.Method,
			Headers:         n.Webhook.Headers,
			Events:          n.Webhook.Events,
			PayloadTemplate: n.Webhook.PayloadTemplate,
			Retry:           convertWebhookRetry(n.Webhook.Retry),
			TimeoutSeconds:  n.Webhook.TimeoutSeconds,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring webhook notifications: %w", err)
		}
		providers = append(providers, provider)
	}

	if n.Email != nil {
		provider, err := notify.CreateEmailProvider(&notify.EmailNotificationConfig{
			SMTP: notify.SMTPConfigInput{
				Host:     n.Email.SMTP.Host,
				Port:     n.Email.SMTP.Port,
				Username: n.Email.SMTP.Username,
				Password: n.Email.SMTP.Password,
				TLS:      n.Email.SMTP.TLS,
			},
			From:      n.Email.From,
			To:        n.Email.To,
			Events:    n.Email.Events,
			BatchMode: n.Email.BatchMode,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring email notifications: %w", err)
		}
		providers = append(providers, provider)
	}

	if n.PagerDuty != nil {
		provider, err := notify.CreatePagerDutyProvider(&notify.PagerDutyNotificationConfig{
			IntegrationKey: n.PagerDuty.IntegrationKey,
			ServiceID:      n.PagerDuty.ServiceID,
			Severity:       n.PagerDuty.Severity,
			Events:         n.PagerDuty.Events,
			AutoResolve:    n.PagerDuty.AutoResolve,
		})
		if err != nil {
			return nil, fmt.Errorf("configuring pagerduty notifications: %w", err)
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, nil
	}

	manager := notify.NewManager(notifyQueueSize)
	for _, provider := range providers {
		manager.RegisterProvider(provider)
	}
	return manager, nil
}

func convertSlackMentions(m *config.SlackMentionConfig) *notify.SlackMentionConfig {
	if m == nil {
		return nil
	}
	return &notify.SlackMentionConfig{OnFailure: m.OnFailure, OnAbort: m.OnAbort}
}

func convertWebhookRetry(r *config.WebhookRetryConfig) *notify.WebhookRetryConfig {
	if r == nil {
		return nil
	}
	return &notify.WebhookRetryConfig{MaxAttempts: r.MaxAttempts, Backoff: r.Backoff}
}

// exportPrefixes returns the distinct top-level path segments of
// every plan in p.set, so a single Export call per root covers the
// whole set instead of one round-trip per plan.
func (p *pipeline) exportPrefixes() []string {
	seen := make(map[string]bool)
	var prefixes []string
	for _, path := range p.set.Paths() {
		root, _, _ := strings.Cut(path, "/")
		if root == "" || seen[root] {
			continue
		}
		seen[root] = true
		prefixes = append(prefixes, root)
	}
	return prefixes
}
