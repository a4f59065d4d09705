// Package envref resolves ${VAR}-style environment variable tokens
// embedded in kit metadata at load time. Unset variables are an
// explicit error rather than a silent empty-string substitution.
package envref

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// UnresolvedVarError reports a ${VAR} token whose variable is unset.
type UnresolvedVarError struct {
	Var   string
	Token string
}

func (e UnresolvedVarError) Error() string {
	return fmt.Sprintf("environment variable %s referenced as %s is not set", e.Var, e.Token)
}

// Resolve substitutes every ${VAR} token in s with the value of VAR,
// returning an UnresolvedVarError naming the first unset variable
// encountered.
func Resolve(s string) (string, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}

	var firstErr error
	result := tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		if firstErr != nil {
			return token
		}
		name := tokenPattern.FindStringSubmatch(token)[1]
		value, ok := os.LookupEnv(name)
		if !ok {
			firstErr = UnresolvedVarError{Var: name, Token: token}
			return token
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// ResolveMap resolves every string value in a shallow string map,
// leaving non-string-looking keys untouched. Used on kit metadata
// default values that may carry env-var references.
func ResolveMap(m map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		resolved, err := Resolve(v)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", k, err)
		}
		out[k] = resolved
	}
	return out, nil
}
