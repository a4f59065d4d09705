package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagerDutyProvider_BuildDedupKey_SeparatesActionsOnSamePlan(t *testing.T) {
	provider := NewPagerDutyProvider(PagerDutyConfig{})

	addKey := provider.buildDedupKey(LifecycleEvent{Environment: "production", Action: "add", PlanPath: "work/cert"})
	renewKey := provider.buildDedupKey(LifecycleEvent{Environment: "production", Action: "renew", PlanPath: "work/cert"})

	assert.NotEqual(t, addKey, renewKey)
}

func TestPagerDutyProvider_BuildDedupKey_HandlesRunLevelEvents(t *testing.T) {
	provider := NewPagerDutyProvider(PagerDutyConfig{})

	key := provider.buildDedupKey(LifecycleEvent{Environment: "production", Action: "recreate"})

	assert.Equal(t, "genesis-production-recreate", key)
}

func TestPagerDutyProvider_BuildSummary_AbortedUsesReason(t *testing.T) {
	provider := NewPagerDutyProvider(PagerDutyConfig{})

	summary := provider.buildSummary(LifecycleEvent{
		Type:        EventTypeAborted,
		Action:      "remove",
		PlanPath:    "work/api_key",
		Environment: "staging",
		Metadata:    map[string]string{"reason": "operator answered n"},
	})

	assert.Contains(t, summary, "aborted by operator")
	assert.Contains(t, summary, "operator answered n")
}
