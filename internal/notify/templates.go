package notify

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// TemplateData contains data for rendering lifecycle-event templates.
type TemplateData struct {
	// PlanPath is the plan the event concerns.
	PlanPath string

	// Environment is the environment name.
	Environment string

	// Action is the action performed (add, recreate, renew, remove, validate).
	Action string

	// Trigger indicates what caused the run (interactive, ci, unknown).
	Trigger string

	// User is who initiated the run, if known.
	User string

	// Duration is how long the action took.
	Duration time.Duration

	// Error contains error details if the action failed.
	Error string

	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Status is the action status (success, failure, aborted).
	Status string

	// NextSteps provides recommendations for what to do next.
	NextSteps string
}

// ActionTemplates contains all lifecycle-event message templates.
var ActionTemplates = struct {
	Started   *template.Template
	Completed *template.Template
	Failed    *template.Template
}{
	Started:   template.Must(template.New("action_started").Parse(actionStartedTemplate)),
	Completed: template.Must(template.New("action_completed").Parse(actionCompletedTemplate)),
	Failed:    template.Must(template.New("action_failed").Parse(actionFailedTemplate)),
}

const actionStartedTemplate = `Genesis {{.Action}} started

Plan:        {{.PlanPath}}
Environment: {{.Environment}}
Trigger:     {{.Trigger}}
{{if .User}}Initiated by: {{.User}}{{end}}`

const actionCompletedTemplate = `Genesis {{.Action}} completed

Plan:        {{.PlanPath}}
Environment: {{.Environment}}
Duration:    {{.Duration}}
Trigger:     {{.Trigger}}
{{if .User}}Initiated by: {{.User}}{{end}}

{{.NextSteps}}`

const actionFailedTemplate = `Genesis {{.Action}} failed

Plan:        {{.PlanPath}}
Environment: {{.Environment}}
Duration:    {{.Duration}}
Trigger:     {{.Trigger}}
{{if .User}}Initiated by: {{.User}}{{end}}

Error: {{.Error}}

{{.NextSteps}}`

// NextStepsSuccess provides recommendations after a successful action.
const NextStepsSuccess = `Next steps:
- Re-run "genesis check" to confirm the secret store agrees with the plan`

// NextStepsFailure provides recommendations after a failed action.
const NextStepsFailure = `Next steps:
- Inspect the error above and the store's own status
- Remaining plans after this one were not processed: the run aborted here`

// RenderActionStarted renders the action-started notification.
func RenderActionStarted(data TemplateData) (string, error) {
	return renderTemplate(ActionTemplates.Started, data)
}

// RenderActionCompleted renders the action-completed notification.
func RenderActionCompleted(data TemplateData) (string, error) {
	if data.NextSteps == "" {
		data.NextSteps = NextStepsSuccess
	}
	return renderTemplate(ActionTemplates.Completed, data)
}

// RenderActionFailed renders the action-failed notification.
func RenderActionFailed(data TemplateData) (string, error) {
	if data.NextSteps == "" {
		data.NextSteps = NextStepsFailure
	}
	return renderTemplate(ActionTemplates.Failed, data)
}

func renderTemplate(tmpl *template.Template, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// FormatDuration formats a duration for human reading.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// GetNextSteps returns appropriate next steps based on the action result.
func GetNextSteps(success bool) string {
	if success {
		return NextStepsSuccess
	}
	return NextStepsFailure
}

// NewTemplateDataFromEvent creates TemplateData from a LifecycleEvent.
func NewTemplateDataFromEvent(event LifecycleEvent) TemplateData {
	data := TemplateData{
		PlanPath:    event.PlanPath,
		Environment: event.Environment,
		Action:      event.Action,
		User:        event.InitiatedBy,
		Duration:    event.Duration,
		Timestamp:   event.Timestamp,
		Trigger:     "unknown",
	}

	if event.Metadata != nil {
		if trigger, ok := event.Metadata["trigger"]; ok {
			data.Trigger = trigger
		}
	}

	switch event.Status {
	case StatusSuccess:
		data.Status = "success"
		data.NextSteps = NextStepsSuccess
	case StatusAborted:
		data.Status = "aborted"
		data.NextSteps = NextStepsFailure
	default:
		data.Status = "failed"
		data.NextSteps = NextStepsFailure
		if event.Error != nil {
			data.Error = event.Error.Error()
		}
	}

	return data
}
