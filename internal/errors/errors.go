package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message     string
	Suggestion  string
	Details     string
	Err         error
}

func (e UserError) Error() string {
	var parts []string
	
	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	
	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}
	
	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}
	
	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message
	
	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}
	
	return msg
}

// CommandError represents a command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	
	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}
	
	return msg
}

// StoreClientError enhances an error returned by the secret-store client
// with a pattern-matched, actionable suggestion.
func StoreClientError(operation string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("store error during %s", operation),
		Suggestion: getStoreSuggestion(err),
		Err:        err,
	}
}

// getStoreSuggestion returns a helpful suggestion based on the underlying
// safe/Vault failure text.
func getStoreSuggestion(err error) string {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host"):
		return "Check that the target Vault address is reachable and SAFE_TARGET/VAULT_ADDR is correct"
	case strings.Contains(errStr, "sealed"):
		return "Unseal the target Vault before retrying"
	case strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "403"):
		return "Authenticate against the target store: run 'safe auth' for the configured target"
	case strings.Contains(errStr, "not initialized"):
		return "Initialize the target Vault before running genesis against it"
	case strings.Contains(errStr, "command not found"):
		return "Install the safe CLI: https://github.com/starkandwayne/safe"
	case strings.Contains(errStr, "404") || strings.Contains(errStr, "not found"):
		return "Verify the path exists: run 'safe paths <prefix>' against the target"
	case strings.Contains(errStr, "timeout"):
		return "The store did not respond in time. Check your network connection and try again"
	}

	return ""
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"safe":        "Install the safe CLI: https://github.com/starkandwayne/safe",
		"ssh-keygen":  "Install OpenSSH client tools (provides ssh-keygen)",
		"openssl":     "Install OpenSSL (provides the dhparam/x509 toolchain)",
		"go":          "Install Go from https://golang.org/",
		"git":         "Install Git from https://git-scm.com/",
	}

	suggestion := suggestions[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	return CommandError{
		Command:    command,
		Message:    "command not found",
		Suggestion: suggestion,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	
	errStr := err.Error()
	retryablePatterns := []string{
		"timeout",
		"temporary failure",
		"connection reset",
		"broken pipe",
		"rate limit",
		"throttling",
		"too many requests",
	}
	
	for _, pattern := range retryablePatterns {
		if strings.Contains(strings.ToLower(errStr), pattern) {
			return true
		}
	}
	
	return false
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}
	
	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}
	
	// Already a user-friendly error
	if _, ok := err.(UserError); ok {
		return err
	}
	if _, ok := err.(ConfigError); ok {
		return err
	}
	if _, ok := err.(CommandError); ok {
		return err
	}
	
	// Simplify common technical errors
	errStr := rootErr.Error()
	
	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}
	
	if strings.Contains(errStr, "json:") {
		return ConfigError{
			Message:    "Invalid JSON format",
			Suggestion: "Validate your JSON at https://jsonlint.com/",
		}
	}
	
	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}
	
	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}
	
	// Return original error if we can't simplify it
	return err
}