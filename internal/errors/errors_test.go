package errors_test

import (
	"fmt"
	"testing"

	"github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Operation failed",
		Details:    "Connection timeout",
		Suggestion: "Check network connectivity",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "Operation failed")
	assert.Contains(t, errMsg, "Connection timeout")
	assert.Contains(t, errMsg, "Check network connectivity")
	assert.Contains(t, errMsg, "💡")
}

func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "environments.production.root_ca_path",
		Value:      "not-a-path",
		Message:    "Invalid path format",
		Suggestion: "Use a slash-separated store path",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "environments.production.root_ca_path")
	assert.Contains(t, errMsg, "not-a-path")
	assert.Contains(t, errMsg, "Invalid path format")
	assert.Contains(t, errMsg, "slash-separated")
}

func TestCommandErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.CommandError{
		Command:    "safe x509 issue",
		ExitCode:   1,
		Message:    "target is sealed",
		Suggestion: "Unseal the target Vault before retrying",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "safe x509 issue")
	assert.Contains(t, errMsg, "exit code: 1")
	assert.Contains(t, errMsg, "target is sealed")
	assert.Contains(t, errMsg, "Unseal the target Vault")
}

func TestStoreClientErrorSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		errorMsg           string
		expectedSuggestion string
	}{
		{"unreachable", "connection refused", "target Vault address is reachable"},
		{"sealed", "target is sealed", "Unseal the target"},
		{"unauthenticated", "403 permission denied", "Authenticate against the target store"},
		{"uninitialized", "vault is not initialized", "Initialize the target Vault"},
		{"not_found", "404 not found", "safe paths"},
		{"timeout", "operation timeout", "did not respond in time"},
		{"missing_cli", "command not found", "Install the safe CLI"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			baseErr := fmt.Errorf("%s", tt.errorMsg)
			storeErr := errors.StoreClientError("get", baseErr)

			errMsg := storeErr.Error()
			assert.Contains(t, errMsg, tt.expectedSuggestion)
		})
	}
}

func TestWrapCommandNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command            string
		expectedSuggestion string
	}{
		{"safe", "safe CLI"},
		{"ssh-keygen", "OpenSSH"},
		{"openssl", "OpenSSL"},
		{"go", "Go"},
		{"unknown-cmd", "in your PATH"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			baseErr := fmt.Errorf("command not found")
			err := errors.WrapCommandNotFound(tt.command, baseErr)

			errMsg := err.Error()
			assert.Contains(t, errMsg, tt.command)
			assert.Contains(t, errMsg, tt.expectedSuggestion)
		})
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		errorMsg  string
		retryable bool
	}{
		{"timeout", "operation timeout", true},
		{"rate_limit", "rate limit exceeded", true},
		{"throttling", "throttling", true},
		{"connection_reset", "connection reset by peer", true},
		{"broken_pipe", "broken pipe", true},
		{"not_found", "resource not found", false},
		{"invalid_config", "invalid configuration", false},
		{"nil_error", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var err error
			if tt.errorMsg != "" {
				err = fmt.Errorf("%s", tt.errorMsg)
			}

			result := errors.IsRetryable(err)
			assert.Equal(t, tt.retryable, result)
		})
	}
}

func TestSimplifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		inputError    error
		expectedType  string
		expectedInMsg string
	}{
		{
			name:          "yaml_error",
			inputError:    fmt.Errorf("yaml: line 5: mapping values are not allowed"),
			expectedType:  "ConfigError",
			expectedInMsg: "Invalid YAML",
		},
		{
			name:          "json_error",
			inputError:    fmt.Errorf("json: invalid character"),
			expectedType:  "ConfigError",
			expectedInMsg: "Invalid JSON",
		},
		{
			name:          "permission_denied",
			inputError:    fmt.Errorf("permission denied"),
			expectedType:  "UserError",
			expectedInMsg: "Permission denied",
		},
		{
			name:          "file_not_found",
			inputError:    fmt.Errorf("no such file or directory"),
			expectedType:  "UserError",
			expectedInMsg: "not found",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			simplified := errors.SimplifyError(tt.inputError)

			errMsg := simplified.Error()
			assert.Contains(t, errMsg, tt.expectedInMsg)

			switch tt.expectedType {
			case "ConfigError":
				_, ok := simplified.(errors.ConfigError)
				assert.True(t, ok, "should be ConfigError type")
			case "UserError":
				_, ok := simplified.(errors.UserError)
				assert.True(t, ok, "should be UserError type")
			}
		})
	}
}

func TestUserErrorUnwrap(t *testing.T) {
	t.Parallel()

	baseErr := fmt.Errorf("base error")
	userErr := errors.UserError{
		Message: "wrapped error",
		Err:     baseErr,
	}

	unwrapped := userErr.Unwrap()
	assert.Equal(t, baseErr, unwrapped)
}

func TestNilErrorHandling(t *testing.T) {
	t.Parallel()

	assert.False(t, errors.IsRetryable(nil))
	assert.Nil(t, errors.SimplifyError(nil))
}

func TestValidationOutcomeWorse(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.OutcomeOK.Worse(errors.OutcomeWarn))
	assert.True(t, errors.OutcomeWarn.Worse(errors.OutcomeError))
	assert.True(t, errors.OutcomeError.Worse(errors.OutcomeMissing))
	assert.False(t, errors.OutcomeMissing.Worse(errors.OutcomeOK))
}

func TestStoreErrorUnwrap(t *testing.T) {
	t.Parallel()

	baseErr := fmt.Errorf("dial tcp: connection refused")
	storeErr := errors.StoreError{
		Kind: errors.StoreUnreachable,
		Op:   "get",
		Err:  baseErr,
	}

	assert.ErrorIs(t, storeErr, baseErr)
	assert.Contains(t, storeErr.Error(), "unreachable")
}

func TestSecretRedactionInLogging(t *testing.T) {
	t.Parallel()

	secretValue := "super-secret-token"
	redacted := logging.Secret(secretValue)

	assert.Equal(t, "[REDACTED]", redacted.String())
	assert.NotContains(t, redacted.String(), secretValue)
}
