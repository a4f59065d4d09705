package plan

import "fmt"

// SecretKind is the capability set the source dispatches dynamically
// per type (`_validate_<type>_secret`, `_validate_<type>_plan`); here
// it is a tagged-variant interface selected once via KindOf instead of
// a chain of type-string comparisons.
//
// Parse is deliberately not part of this interface: a plan's Kind is
// itself an output of parsing the grammar's free-form tokens (spec.md
// §6's `random 32 fmt base64`-style credential lines, and the
// certificates/credentials/provided top-level shape), so there is no
// Plan with a settled Kind yet to dispatch on. Validate likewise stays
// out: its checks need types the validator package owns (Report,
// store.Snapshot) that internal/plan cannot import without the
// validator package's existing import of internal/plan becoming a
// cycle. internal/validator carries its own analogous capability
// registry (see internal/validator/kind.go's kindValidator) instead, so no
// `_validate_<type>_*`-style switch survives there either.
type SecretKind interface {
	// Describe renders a plan back to its declarative form, used by
	// the round-trip parse testable property (spec.md §8).
	Describe(p *Plan) string

	// ExpectedKeys lists the secret-store keys a fully-realized plan
	// of this kind must have (spec.md §4.F).
	ExpectedKeys(p *Plan) []string

	// GenerateArgs builds the argv the store's `Run` verb needs to
	// realize p (spec.md §4.A's verb table). noClobber is appended for
	// add, and for recreate on a non-fixed plan the caller omits it.
	GenerateArgs(p *Plan, noClobber bool) ([]string, error)
}

type x509Kind struct{}

func (x509Kind) Describe(p *Plan) string {
	return fmt.Sprintf("x509 %s (ca=%v, self_signed=%d, signed_by=%q, names=%v)",
		p.Path, p.IsCA, p.SelfSigned, p.SignedBy, p.Names)
}

func (x509Kind) ExpectedKeys(p *Plan) []string {
	keys := []string{"certificate", "combined", "key"}
	if p.IsCA {
		keys = append(keys, "crl", "serial")
	}
	return keys
}

func (x509Kind) GenerateArgs(p *Plan, noClobber bool) ([]string, error) {
	argv := []string{"safe", "x509", "issue"}
	if p.IsCA {
		argv = append(argv, "--ca")
	}
	if len(p.Names) > 0 {
		argv = append(argv, "--name", joinComma(p.Names))
	}
	if p.ValidFor != "" {
		argv = append(argv, "--ttl", p.ValidFor)
	}
	if len(p.Usage) > 0 {
		argv = append(argv, "--key-usage", joinComma(p.Usage))
	}
	if p.SignedBy != "" && p.SelfSigned == SelfSignedNone {
		argv = append(argv, "--signed-by", p.SignedBy)
	}
	argv = appendNoClobber(argv, noClobber)
	return append(argv, p.Path), nil
}

type rsaKind struct{}

func (rsaKind) Describe(p *Plan) string {
	return fmt.Sprintf("rsa %d%s", p.Size, fixedSuffix(p.Fixed))
}
func (rsaKind) ExpectedKeys(p *Plan) []string { return []string{"private", "public"} }

func (rsaKind) GenerateArgs(p *Plan, noClobber bool) ([]string, error) {
	argv := []string{"safe", "rsa"}
	argv = appendBits(argv, p.Size)
	argv = appendNoClobber(argv, noClobber)
	return append(argv, p.Path), nil
}

type sshKind struct{}

func (sshKind) Describe(p *Plan) string {
	return fmt.Sprintf("ssh %d%s", p.Size, fixedSuffix(p.Fixed))
}
func (sshKind) ExpectedKeys(p *Plan) []string { return []string{"private", "public", "fingerprint"} }

func (sshKind) GenerateArgs(p *Plan, noClobber bool) ([]string, error) {
	argv := []string{"safe", "ssh"}
	argv = appendBits(argv, p.Size)
	argv = appendNoClobber(argv, noClobber)
	return append(argv, p.Path), nil
}

type dhparamsKind struct{}

func (dhparamsKind) Describe(p *Plan) string {
	return fmt.Sprintf("dhparams %d%s", p.Size, fixedSuffix(p.Fixed))
}
func (dhparamsKind) ExpectedKeys(p *Plan) []string { return []string{"dhparam-pem"} }

func (dhparamsKind) GenerateArgs(p *Plan, noClobber bool) ([]string, error) {
	argv := []string{"safe", "dhparam"}
	argv = appendBits(argv, p.Size)
	argv = appendNoClobber(argv, noClobber)
	return append(argv, p.Path), nil
}

type randomKind struct{}

func (randomKind) Describe(p *Plan) string {
	s := fmt.Sprintf("random %d", p.Size)
	if p.RandomFormat != "" {
		s += fmt.Sprintf(" fmt %s", p.RandomFormat)
		if p.RandomAt != "" {
			s += fmt.Sprintf(" at %s", p.RandomAt)
		}
	}
	if p.RandomValidChars != "" {
		s += fmt.Sprintf(" allowed-chars %s", p.RandomValidChars)
	}
	return s + fixedSuffix(p.Fixed)
}

func (randomKind) ExpectedKeys(p *Plan) []string {
	_, key := splitPathKey(p.Path)
	keys := []string{key}
	if p.RandomFormat != "" {
		sibling := p.RandomAt
		if sibling == "" {
			sibling = key + "-" + p.RandomFormat
		}
		keys = append(keys, sibling)
	}
	return keys
}

func (randomKind) GenerateArgs(p *Plan, noClobber bool) ([]string, error) {
	path, key := splitPathKey(p.Path)
	argv := []string{"safe", "gen"}
	if p.RandomValidChars != "" {
		argv = append(argv, "--policy", p.RandomValidChars)
	}
	argv = appendNoClobber(argv, noClobber)
	argv = append(argv, fmt.Sprintf("%d", p.Size), path, key)
	if p.RandomFormat != "" {
		argv = append(argv, "--fmt", p.RandomFormat)
		if p.RandomAt != "" {
			argv = append(argv, "--at", p.RandomAt)
		}
	}
	return argv, nil
}

type uuidKind struct{}

func (uuidKind) Describe(p *Plan) string {
	s := "uuid " + string(p.UUIDVersion)
	if p.UUIDNamespace != "" {
		s += " namespace " + p.UUIDNamespace
	}
	if p.UUIDName != "" {
		s += " name " + p.UUIDName
	}
	return s + fixedSuffix(p.Fixed)
}

func (uuidKind) ExpectedKeys(p *Plan) []string {
	_, key := splitPathKey(p.Path)
	return []string{key}
}

func (uuidKind) GenerateArgs(p *Plan, noClobber bool) ([]string, error) {
	path, key := splitPathKey(p.Path)
	argv := []string{"safe", "uuid", "set", "--version", string(p.UUIDVersion)}
	if p.UUIDNamespace != "" {
		argv = append(argv, "--namespace", p.UUIDNamespace)
	}
	if p.UUIDName != "" {
		argv = append(argv, "--name", p.UUIDName)
	}
	argv = appendNoClobber(argv, noClobber)
	return append(argv, path, key), nil
}

type providedKind struct{}

func (providedKind) Describe(p *Plan) string {
	return fmt.Sprintf("provided %s (sensitive=%v, multiline=%v)", p.ProvidedSubtype, p.Sensitive, p.Multiline)
}

func (providedKind) ExpectedKeys(p *Plan) []string {
	_, key := splitPathKey(p.Path)
	return []string{key}
}

func (providedKind) GenerateArgs(p *Plan, noClobber bool) ([]string, error) {
	return nil, fmt.Errorf("plan kind %q has no generation verb", KindProvided)
}

type errorKind struct{}

func (errorKind) Describe(p *Plan) string      { return "error: " + p.Error }
func (errorKind) ExpectedKeys(p *Plan) []string { return nil }

func (errorKind) GenerateArgs(p *Plan, noClobber bool) ([]string, error) {
	return nil, fmt.Errorf("plan kind %q has no generation verb", KindError)
}

func appendBits(argv []string, bits int) []string {
	if bits <= 0 {
		return argv
	}
	return append(argv, "--bits", fmt.Sprintf("%d", bits))
}

func appendNoClobber(argv []string, noClobber bool) []string {
	if noClobber {
		return append(argv, "--no-clobber")
	}
	return argv
}

func joinComma(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ","
		}
		out += item
	}
	return out
}

func fixedSuffix(fixed bool) string {
	if fixed {
		return " fixed"
	}
	return ""
}

var kindRegistry = map[Kind]SecretKind{
	KindX509:     x509Kind{},
	KindRSA:      rsaKind{},
	KindSSH:      sshKind{},
	KindDHParams: dhparamsKind{},
	KindRandom:   randomKind{},
	KindUUID:     uuidKind{},
	KindProvided: providedKind{},
	KindError:    errorKind{},
}

// KindOf returns the SecretKind capability implementation for a
// plan's tag.
func KindOf(k Kind) SecretKind {
	impl, ok := kindRegistry[k]
	if !ok {
		return errorKind{}
	}
	return impl
}

// splitPathKey splits a "P:K" random/uuid/provided path into its
// store path and key components.
func splitPathKey(pathKey string) (path, key string) {
	for i := len(pathKey) - 1; i >= 0; i-- {
		if pathKey[i] == ':' {
			return pathKey[:i], pathKey[i+1:]
		}
	}
	return pathKey, ""
}
