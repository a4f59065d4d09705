package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailProvider_BuildMessage_FallsBackToActionWhenPlanPathEmpty(t *testing.T) {
	provider := NewEmailProvider(EmailConfig{})

	subject, htmlBody, textBody := provider.buildMessage(LifecycleEvent{
		Type:        EventTypeAborted,
		Action:      "recreate",
		Environment: "production",
	})

	assert.Contains(t, subject, "recreate")
	assert.NotContains(t, textBody, "Run `genesis check `")
	assert.NotContains(t, htmlBody, "Run <code>genesis check </code>")
}

func TestEmailProvider_BuildMessage_IncludesPlanCheckHint(t *testing.T) {
	provider := NewEmailProvider(EmailConfig{})

	_, htmlBody, textBody := provider.buildMessage(LifecycleEvent{
		Type:        EventTypeFailed,
		Action:      "renew",
		PlanPath:    "work/leaf_cert",
		Environment: "production",
	})

	assert.Contains(t, textBody, "genesis check work/leaf_cert")
	assert.Contains(t, htmlBody, "genesis check work/leaf_cert")
}

func TestEmailProvider_Validate_RequiresRecipients(t *testing.T) {
	provider := NewEmailProvider(EmailConfig{
		SMTP: SMTPConfig{Host: "smtp.example.com", Port: 587},
		From: "genesis@example.com",
	})

	require.Error(t, provider.Validate(context.Background()))
}
